package server

import (
	"reflect"
	"strings"

	"github.com/preston-bernstein/nba-refresh-service/internal/providers"
)

// providerName labels the upstream in logs and metrics: Name() when the fetcher has one,
// otherwise its bare type name.
func providerName(fetcher providers.Fetcher) string {
	if fetcher == nil {
		return "provider"
	}
	if named, ok := fetcher.(interface{ Name() string }); ok && named.Name() != "" {
		return strings.ToLower(named.Name())
	}
	t := reflect.TypeOf(fetcher)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "provider"
	}
	return strings.ToLower(t.Name())
}
