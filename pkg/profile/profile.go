// Package profile defines the common types for scoring candidate social media profiles
// against a known person.
package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Common errors returned when a profile fails validation.
var (
	ErrMissingPlatform = errors.New("platform is required")
	ErrMissingUsername = errors.New("username is required")
)

// Person holds what is known about the real-world person. Every field is optional;
// an empty field means "unknown", never "known to be empty".
//
//nolint:govet // fieldalignment: intentional layout for readability
type Person struct {
	Name        string     `json:"name,omitempty"`
	Location    string     `json:"location,omitempty"`
	Employer    string     `json:"employer,omitempty"`
	JobTitle    string     `json:"jobTitle,omitempty"`
	DateOfBirth string     `json:"dateOfBirth,omitempty"` // Free-form date, e.g. "1990-05-15"
	Email       StringList `json:"email,omitempty"`       // One address or an ordered list
	Phone       StringList `json:"phone,omitempty"`       // One number or an ordered list
}

// Profile represents a candidate social media profile.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Profile struct {
	Platform    string `json:"platform"`              // Platform name: "twitter", "github", etc.
	Username    string `json:"username"`              // Handle/username (without @ prefix)
	DisplayName string `json:"displayName,omitempty"` // Display name
	Bio         string `json:"bio,omitempty"`         // Profile bio/description
	Location    string `json:"location,omitempty"`    // Geographic location
	ProfileURL  string `json:"profileUrl,omitempty"`  // Link to the profile
}

// Validate reports every missing required field, joined.
func (p Profile) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Platform) == "" {
		errs = append(errs, ErrMissingPlatform)
	}
	if strings.TrimSpace(p.Username) == "" {
		errs = append(errs, ErrMissingUsername)
	}
	return errors.Join(errs...)
}

// Factor names one independently reported sub-score.
type Factor string

// Factor keys as they appear in API responses.
const (
	FactorName          Factor = "name_match"
	FactorLocation      Factor = "location_match"
	FactorEmployer      Factor = "employer_in_bio"
	FactorJobTitle      Factor = "job_title_in_bio"
	FactorEmailUsername Factor = "email_username_match"
	FactorPhone         Factor = "phone_in_bio"
	FactorDateOfBirth   Factor = "dob_match"
)

// FactorOrder lists every factor in reporting order.
var FactorOrder = []Factor{
	FactorName,
	FactorLocation,
	FactorEmployer,
	FactorEmailUsername,
	FactorJobTitle,
	FactorPhone,
	FactorDateOfBirth,
}

// Factors maps a factor to its score in [0,1]. A factor is absent when one of its
// inputs was missing, which is not the same as being present with a score of 0.
type Factors map[Factor]float64

// MatchResult pairs a candidate profile with its overall score and factor breakdown.
type MatchResult struct {
	Profile Profile `json:"profile"`
	Score   float64 `json:"score"` // Overall score in [0,1], rounded to two decimals
	Factors Factors `json:"factors"`
}

// StringList is a list of strings that also accepts a single JSON string.
type StringList []string

// UnmarshalJSON accepts a string, an array of strings, or null.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var ss []string
	if err := json.Unmarshal(data, &ss); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*l = ss
	return nil
}

// Present returns true if at least one element is non-blank.
func (l StringList) Present() bool {
	for _, s := range l {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}
