// Package request decodes and validates match requests arriving over the wire.
//
// It turns the loosely shaped JSON that callers send into the canonical
// profile.Person and profile.Profile values the scorer expects, so nothing
// downstream has to deal with alternate field spellings or unbounded input.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/sociomatch/pkg/profile"
)

// ErrInvalid is matched by every validation failure, see ValidationError.
var ErrInvalid = errors.New("invalid request")

// ErrTooLarge is additionally matched when the body exceeds Limits.MaxBodyBytes.
var ErrTooLarge = errors.New("request body too large")

// Limits bounds the size of a request.
type Limits struct {
	MaxProfiles  int   // Candidates per match request
	MaxFieldLen  int   // Runes per text field
	MaxBodyBytes int64 // Raw body size
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxProfiles:  20,
		MaxFieldLen:  10_000,
		MaxBodyBytes: 1 << 20,
	}
}

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Problems []string

	cause error
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Problems, "; ")
}

// Is makes errors.Is(err, ErrInvalid) true for any ValidationError.
func (*ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Unwrap returns the specific cause, if any.
func (e *ValidationError) Unwrap() error {
	return e.cause
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// Match asks for a ranked list of candidate profiles for one person.
type Match struct {
	Person   profile.Person    `json:"person"`
	Profiles []profile.Profile `json:"profiles"`
}

// Score asks for the breakdown of a single candidate.
type Score struct {
	Person  profile.Person  `json:"person"`
	Profile profile.Profile `json:"profile"`
}

// wireProfile accepts both spellings of the fields that callers disagree on.
//
//nolint:govet // fieldalignment: intentional layout for readability
type wireProfile struct {
	Platform       string `json:"platform"`
	Username       string `json:"username"`
	DisplayName    string `json:"displayName"`
	DisplayNameAlt string `json:"display_name"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
	ProfileURL     string `json:"profileUrl"`
	ProfileURLAlt  string `json:"profile_url"`
}

// canonical coalesces alternate spellings. The camelCase spelling wins when both are set.
func (w wireProfile) canonical() profile.Profile {
	return profile.Profile{
		Platform:    w.Platform,
		Username:    w.Username,
		DisplayName: coalesce(w.DisplayName, w.DisplayNameAlt),
		Bio:         w.Bio,
		Location:    w.Location,
		ProfileURL:  coalesce(w.ProfileURL, w.ProfileURLAlt),
	}
}

func coalesce(primary, fallback string) string {
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	return fallback
}

// DecodeMatch reads, decodes and validates a match request.
func DecodeMatch(r io.Reader, lim Limits) (*Match, error) {
	var wire struct {
		Person   profile.Person `json:"person"`
		Profiles []wireProfile  `json:"profiles"`
	}
	if err := decode(r, lim, &wire); err != nil {
		return nil, err
	}

	m := &Match{Person: wire.Person, Profiles: make([]profile.Profile, 0, len(wire.Profiles))}
	for _, w := range wire.Profiles {
		m.Profiles = append(m.Profiles, w.canonical())
	}
	if err := m.Validate(lim); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeScore reads, decodes and validates a single-candidate score request.
func DecodeScore(r io.Reader, lim Limits) (*Score, error) {
	var wire struct {
		Person  profile.Person `json:"person"`
		Profile *wireProfile   `json:"profile"`
	}
	if err := decode(r, lim, &wire); err != nil {
		return nil, err
	}
	if wire.Profile == nil {
		return nil, &ValidationError{Problems: []string{"profile is required"}}
	}

	s := &Score{Person: wire.Person, Profile: wire.Profile.canonical()}
	if err := s.Validate(lim); err != nil {
		return nil, err
	}
	return s, nil
}

func decode(r io.Reader, lim Limits, dst any) error {
	if r == nil {
		return &ValidationError{Problems: []string{"request body is required"}}
	}
	limit := lim.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultLimits().MaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if int64(len(body)) > limit {
		return &ValidationError{
			Problems: []string{fmt.Sprintf("body exceeds %d bytes", limit)},
			cause:    ErrTooLarge,
		}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return &ValidationError{Problems: []string{"request body is required"}}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &ValidationError{Problems: []string{"malformed JSON: " + err.Error()}}
	}
	return nil
}

// Validate checks profile count, required fields and field lengths.
func (m *Match) Validate(lim Limits) error {
	verr := &ValidationError{}
	switch n := len(m.Profiles); {
	case n == 0:
		verr.add("at least one profile is required")
	case lim.MaxProfiles > 0 && n > lim.MaxProfiles:
		verr.add("too many profiles: %d (max %d)", n, lim.MaxProfiles)
	}
	checkPerson(verr, m.Person, lim.MaxFieldLen)
	for i, p := range m.Profiles {
		checkProfile(verr, fmt.Sprintf("profiles[%d]", i), p, lim.MaxFieldLen)
	}
	return verr.orNil()
}

// Validate checks required fields and field lengths.
func (s *Score) Validate(lim Limits) error {
	verr := &ValidationError{}
	checkPerson(verr, s.Person, lim.MaxFieldLen)
	checkProfile(verr, "profile", s.Profile, lim.MaxFieldLen)
	return verr.orNil()
}

func checkPerson(verr *ValidationError, p profile.Person, maxLen int) {
	checkLen(verr, "person.name", p.Name, maxLen)
	checkLen(verr, "person.location", p.Location, maxLen)
	checkLen(verr, "person.employer", p.Employer, maxLen)
	checkLen(verr, "person.jobTitle", p.JobTitle, maxLen)
	checkLen(verr, "person.dateOfBirth", p.DateOfBirth, maxLen)
	for i, e := range p.Email {
		checkLen(verr, fmt.Sprintf("person.email[%d]", i), e, maxLen)
	}
	for i, ph := range p.Phone {
		checkLen(verr, fmt.Sprintf("person.phone[%d]", i), ph, maxLen)
	}
}

func checkProfile(verr *ValidationError, path string, p profile.Profile, maxLen int) {
	if err := p.Validate(); err != nil {
		if errors.Is(err, profile.ErrMissingPlatform) {
			verr.add("%s: %v", path, profile.ErrMissingPlatform)
		}
		if errors.Is(err, profile.ErrMissingUsername) {
			verr.add("%s: %v", path, profile.ErrMissingUsername)
		}
	}
	checkLen(verr, path+".platform", p.Platform, maxLen)
	checkLen(verr, path+".username", p.Username, maxLen)
	checkLen(verr, path+".displayName", p.DisplayName, maxLen)
	checkLen(verr, path+".bio", p.Bio, maxLen)
	checkLen(verr, path+".location", p.Location, maxLen)
	checkLen(verr, path+".profileUrl", p.ProfileURL, maxLen)
}

func checkLen(verr *ValidationError, path, value string, maxLen int) {
	if maxLen <= 0 {
		return
	}
	if n := utf8.RuneCountInString(value); n > maxLen {
		verr.add("%s: %d characters exceeds limit of %d", path, n, maxLen)
	}
}
