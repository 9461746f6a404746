package cache

import (
	"net/url"
	"sort"
	"strings"
	"time"
)

// Namespace prefixes every key written by the catalog.
const Namespace = "movies"

const keyDelimiter = ":"

// TTL tiers. SearchTTL is kept for parity with the other tiers but search
// responses are never cached.
const (
	GenresTTL   = 86400 * time.Second
	DetailsTTL  = 43200 * time.Second
	TrendingTTL = 1800 * time.Second
	PopularTTL  = 3600 * time.Second
	SearchTTL   = 900 * time.Second
)

// Key builds `movies:<endpoint>[:<name>:<value>...]` with parameter names
// sorted, so maps that are equal as sets always produce the same key.
// Parameters with an empty value are treated as absent. Names and values are
// query-escaped so a value containing the delimiter cannot alias another
// parameter set.
func Key(endpoint string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(Namespace)
	b.WriteString(keyDelimiter)
	b.WriteString(endpoint)
	for _, name := range names {
		b.WriteString(keyDelimiter)
		b.WriteString(url.QueryEscape(name))
		b.WriteString(keyDelimiter)
		b.WriteString(url.QueryEscape(params[name]))
	}
	return b.String()
}
