package model

import "time"

// DefaultVariant names a progression nobody wrote down.
const DefaultVariant = "Standard"

// ProgressPoint summarizes one exercise within one workout.
type ProgressPoint struct {
	WorkoutID     string    `json:"workoutId"`
	Date          time.Time `json:"date"`
	Phase         int       `json:"phase"`
	Week          int       `json:"week"`
	Variant       string    `json:"variant"`
	RingHeight    string    `json:"ringHeight,omitempty"`
	AddedWeight   *float64  `json:"addedWeight,omitempty"`
	TotalSets     int       `json:"totalSets"`
	TotalReps     int       `json:"totalReps"`
	AvgRepsPerSet float64   `json:"avgRepsPerSet"`
	BestSet       int       `json:"bestSet"`
	LongestHold   int       `json:"longestHold,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// Record is a best value and when it was set.
type Record struct {
	Value int       `json:"value"`
	Date  time.Time `json:"date"`
}

// PersonalBest collects an exercise's records. LongestHold is only set for
// exercises with timed sets.
type PersonalBest struct {
	MaxReps     Record  `json:"maxReps"`
	MaxVolume   Record  `json:"maxVolume"`
	MaxSets     Record  `json:"maxSets"`
	LongestHold *Record `json:"longestHold,omitempty"`
}

// CurrentProgression is where the user stands on an exercise right now.
type CurrentProgression struct {
	Variant    string    `json:"variant"`
	RingHeight string    `json:"ringHeight,omitempty"`
	LastUsed   time.Time `json:"lastUsed"`
	AvgReps    float64   `json:"avgReps"`
	AvgSets    float64   `json:"avgSets"`
}

// ExerciseProgress is the per-user history of a single exercise. It lives
// in the exerciseProgress collection; the API derives it from workouts.
type ExerciseProgress struct {
	UserID             string              `json:"-"`
	ExerciseName       string              `json:"exerciseName"`
	History            []ProgressPoint     `json:"history"`
	UsedVariants       []string            `json:"usedVariants"`
	PersonalBest       *PersonalBest       `json:"personalBest,omitempty"`
	CurrentProgression *CurrentProgression `json:"currentProgression,omitempty"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// UserVariants remembers which progression variants a user has logged for
// an exercise.
type UserVariants struct {
	UserID       string         `json:"-"`
	ExerciseName string         `json:"exerciseName"`
	Variants     []VariantUsage `json:"variants"`
}

// VariantUsage counts one variant.
type VariantUsage struct {
	Name      string    `json:"name"      bson:"name"`
	TimesUsed int       `json:"timesUsed" bson:"timesUsed"`
	LastUsed  time.Time `json:"lastUsed"  bson:"lastUsed"`
}
