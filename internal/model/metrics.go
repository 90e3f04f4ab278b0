package model

import "time"

// BodyMetrics is a dated body-weight / measurement entry.
type BodyMetrics struct {
	ID           string        `json:"id"`
	UserID       string        `json:"-"`
	Date         time.Time     `json:"date"`
	Weight       *float64      `json:"weight,omitempty"`
	Measurements *Measurements `json:"measurements,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	IsSeed       bool          `json:"-"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Measurements are body circumferences, all optional.
type Measurements struct {
	Chest      *float64 `json:"chest,omitempty"      bson:"chest,omitempty"`
	Waist      *float64 `json:"waist,omitempty"      bson:"waist,omitempty"`
	Hips       *float64 `json:"hips,omitempty"       bson:"hips,omitempty"`
	BicepLeft  *float64 `json:"bicepLeft,omitempty"  bson:"bicepLeft,omitempty"`
	BicepRight *float64 `json:"bicepRight,omitempty" bson:"bicepRight,omitempty"`
	ThighLeft  *float64 `json:"thighLeft,omitempty"  bson:"thighLeft,omitempty"`
	ThighRight *float64 `json:"thighRight,omitempty" bson:"thighRight,omitempty"`
}
