// Package model defines the data structures used throughout the application.
//
// Model types carry the client representation (json tags). Types that are
// embedded as-is inside stored documents also carry bson tags; top-level
// documents are mapped by each storage backend.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh 24-character hex identifier. Both storage backends
// use the same format so clients never see a difference.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id is a well-formed 24-character hex identifier.
func IsValidID(id string) bool {
	if len(id) != 24 {
		return false
	}
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// Weight units accepted in settings.
const (
	UnitKg  = "kg"
	UnitLbs = "lbs"
)

// User is a registered account. Email is the natural key: signing in with a
// second provider under the same address lands on the same user.
type User struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	Image     string       `json:"image,omitempty"`
	GoogleID  string       `json:"googleId,omitempty"`
	GitHubID  int64        `json:"githubId,omitempty"`
	Settings  UserSettings `json:"settings"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// UserSettings tracks where the user is in the program plus UI preferences.
// CurrentWeek 6 is the deload week.
type UserSettings struct {
	CurrentPhase    int        `json:"currentPhase"    bson:"currentPhase"`
	CurrentWeek     int        `json:"currentWeek"     bson:"currentWeek"`
	StartDate       *time.Time `json:"startDate,omitempty"  bson:"startDate,omitempty"`
	BodyWeight      *float64   `json:"bodyWeight,omitempty" bson:"bodyWeight,omitempty"`
	WeightUnit      string     `json:"weightUnit"      bson:"weightUnit"`
	DefaultRestTime int        `json:"defaultRestTime" bson:"defaultRestTime"`
	DarkMode        bool       `json:"darkMode"        bson:"darkMode"`
}

// DefaultSettings is what a user gets on first sign-in.
func DefaultSettings() UserSettings {
	return UserSettings{
		CurrentPhase:    1,
		CurrentWeek:     1,
		WeightUnit:      UnitKg,
		DefaultRestTime: 90,
		DarkMode:        true,
	}
}

// SettingsPatch is a partial settings update. Nil fields keep their
// current value.
type SettingsPatch struct {
	CurrentPhase    *int       `json:"currentPhase,omitempty"`
	CurrentWeek     *int       `json:"currentWeek,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	BodyWeight      *float64   `json:"bodyWeight,omitempty"`
	WeightUnit      *string    `json:"weightUnit,omitempty"`
	DefaultRestTime *int       `json:"defaultRestTime,omitempty"`
	DarkMode        *bool      `json:"darkMode,omitempty"`
}

// Apply merges the patch over s and returns the result.
func (p SettingsPatch) Apply(s UserSettings) UserSettings {
	if p.CurrentPhase != nil {
		s.CurrentPhase = *p.CurrentPhase
	}
	if p.CurrentWeek != nil {
		s.CurrentWeek = *p.CurrentWeek
	}
	if p.StartDate != nil {
		v := *p.StartDate
		s.StartDate = &v
	}
	if p.BodyWeight != nil {
		v := *p.BodyWeight
		s.BodyWeight = &v
	}
	if p.WeightUnit != nil {
		s.WeightUnit = *p.WeightUnit
	}
	if p.DefaultRestTime != nil {
		s.DefaultRestTime = *p.DefaultRestTime
	}
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
	return s
}

// Identity is what an identity provider tells us about a signed-in person.
type Identity struct {
	Email    string
	Name     string
	Image    string
	GoogleID string
	GitHubID int64
}
