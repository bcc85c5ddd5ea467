// Package models holds the server-side domain types.
package models

import (
	"encoding/json"
	"maps"
	"slices"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Language is a UI/content language code.
type Language string

const DefaultLanguage Language = "en"

// Languages lists every accepted language preference.
var Languages = []Language{"en", "ru", "zh", "ja", "bo", "sa"}

func (l Language) Valid() bool {
	return slices.Contains(Languages, l)
}

const DefaultSpiritualLevel = "beginner"

// ProgressCounters are the assessment counters every record starts with.
var ProgressCounters = []string{"dana", "sila", "ksanti", "virya", "dhyana", "prajna"}

// ParamitaNames are display names for ProgressCounters, in the same order.
var ParamitaNames = []string{
	"Dana - Generosity",
	"Sila - Ethics",
	"Ksanti - Patience",
	"Virya - Energy",
	"Dhyana - Meditation",
	"Prajna - Wisdom",
}

// Progress maps counter names to scores. It is written by the assessment
// side of the product; this service only creates it zeroed and stores it.
type Progress map[string]int

// NewProgress returns every counter in ProgressCounters set to zero.
func NewProgress() Progress {
	p := make(Progress, len(ProgressCounters))
	for _, name := range ProgressCounters {
		p[name] = 0
	}
	return p
}

// User is the persisted account record. PasswordHash must never leave the
// server; use Profile for anything sent to a client.
type User struct {
	ID                 string            `json:"id"`
	Email              string            `json:"email"`
	PasswordHash       string            `json:"password"`
	FirstName          string            `json:"firstName"`
	LastName           string            `json:"lastName"`
	SpiritualLevel     string            `json:"spiritualLevel"`
	LanguagePreference Language          `json:"languagePreference"`
	Status             Status            `json:"status"`
	CreatedAt          time.Time         `json:"joinedAt"`
	LastLoginAt        time.Time         `json:"lastLogin"`
	Progress           Progress          `json:"paramitaProgress"`
	History            []json.RawMessage `json:"assessmentHistory"`
}

// Profile is the public view of a User.
type Profile struct {
	ID                 string            `json:"id"`
	Email              string            `json:"email"`
	FirstName          string            `json:"firstName"`
	LastName           string            `json:"lastName"`
	SpiritualLevel     string            `json:"spiritualLevel"`
	LanguagePreference Language          `json:"languagePreference"`
	Status             Status            `json:"status"`
	CreatedAt          time.Time         `json:"joinedAt"`
	LastLoginAt        time.Time         `json:"lastLogin"`
	Progress           Progress          `json:"paramitaProgress"`
	History            []json.RawMessage `json:"assessmentHistory"`
}

// Profile projects u onto its public view. Maps and slices are copied so
// the caller cannot mutate the stored record through the result.
func (u *User) Profile() Profile {
	return Profile{
		ID:                 u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		SpiritualLevel:     u.SpiritualLevel,
		LanguagePreference: u.LanguagePreference,
		Status:             u.Status,
		CreatedAt:          u.CreatedAt,
		LastLoginAt:        u.LastLoginAt,
		Progress:           maps.Clone(u.Progress),
		History:            slices.Clone(u.History),
	}
}

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
