package handler

import (
	"net/http"
	"strconv"
	"time"
)

// queryInt reads an integer query parameter. Missing or malformed values
// yield 0, which every caller treats as "not set".
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func queryBool(r *http.Request, key string) bool {
	return r.URL.Query().Get(key) == "true"
}

// parseDate accepts RFC 3339 timestamps and plain calendar dates. A plain
// date is midnight UTC.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
