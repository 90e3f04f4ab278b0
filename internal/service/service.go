// Package service holds the business rules between the HTTP handlers and
// the repositories.
//
//	Handler (HTTP) → Service (rules, orchestration) → Repository (storage)
//
// Services take the repository.Store interface, never a concrete backend,
// and return apperror values the handlers translate into status codes.
// They know nothing about HTTP.
package service

import (
	"time"
)

// Listing limits.
const (
	DefaultWorkoutLimit  = 10
	DefaultProgressLimit = 50
	MaxListLimit         = 100
	MetricsListLimit     = 100
)

// clampLimit applies def to non-positive values and caps at MaxListLimit.
func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, MaxListLimit)
}

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

func orSystemClock(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return c
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
