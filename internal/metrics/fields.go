package metrics

// Attribute keys on exported instruments. Paths are normalized before they get here so label
// cardinality stays bounded.
const (
	AttrMethod   = "method"
	AttrPath     = "path"
	AttrStatus   = "status"
	AttrProvider = "provider"
	AttrTopic    = "topic"
	AttrPoller   = "poller"
)
