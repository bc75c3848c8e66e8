package refresh

// Topic names a stream of refresh results.
type Topic string

const (
	TopicLiveGames   Topic = "liveGamesUpdated"
	TopicPlayerStats Topic = "playerStatsUpdated"
	TopicTeamStats   Topic = "teamStatsUpdated"
	TopicSchedule    Topic = "scheduleUpdated"
)

// Topics lists every topic the service publishes to.
func Topics() []Topic {
	return []Topic{TopicLiveGames, TopicPlayerStats, TopicTeamStats, TopicSchedule}
}

func (t Topic) String() string {
	return string(t)
}
