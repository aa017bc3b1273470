package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/codeGROOVE-dev/sociomatch/pkg/profile"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMatch(t *testing.T) {
	body := `{
		"person": {"name": "Jane Doe", "email": "janedoe@example.com", "phone": ["555-123-4567"]},
		"profiles": [
			{"platform": "twitter", "username": "janedoe", "displayName": "Jane Doe", "profileUrl": "https://x.com/janedoe"},
			{"platform": "github", "username": "jdoe", "display_name": "J. Doe", "profile_url": "https://github.com/jdoe"}
		]
	}`

	m, err := DecodeMatch(strings.NewReader(body), DefaultLimits())
	require.NoError(t, err)

	want := &Match{
		Person: profile.Person{
			Name:  "Jane Doe",
			Email: profile.StringList{"janedoe@example.com"},
			Phone: profile.StringList{"555-123-4567"},
		},
		Profiles: []profile.Profile{
			{Platform: "twitter", Username: "janedoe", DisplayName: "Jane Doe", ProfileURL: "https://x.com/janedoe"},
			{Platform: "github", Username: "jdoe", DisplayName: "J. Doe", ProfileURL: "https://github.com/jdoe"},
		},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("DecodeMatch mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMatch_CanonicalSpellingWins(t *testing.T) {
	body := `{"person": {}, "profiles": [{
		"platform": "x", "username": "u",
		"displayName": "Canonical", "display_name": "Alternate",
		"profileUrl": "", "profile_url": "https://alt.example"
	}]}`

	m, err := DecodeMatch(strings.NewReader(body), DefaultLimits())
	require.NoError(t, err)
	require.Len(t, m.Profiles, 1)
	assert.Equal(t, "Canonical", m.Profiles[0].DisplayName)
	assert.Equal(t, "https://alt.example", m.Profiles[0].ProfileURL)
}

func TestDecodeMatch_Invalid(t *testing.T) {
	lim := Limits{MaxProfiles: 2, MaxFieldLen: 10, MaxBodyBytes: 512}

	tests := []struct {
		name    string
		body    string
		problem string
	}{
		{"empty body", "", "request body is required"},
		{"malformed", `{"person":`, "malformed JSON"},
		{"wrong email type", `{"person":{"email":42},"profiles":[{"platform":"x","username":"u"}]}`, "malformed JSON"},
		{"no profiles", `{"person":{"name":"Jane"},"profiles":[]}`, "at least one profile is required"},
		{"missing profiles", `{"person":{"name":"Jane"}}`, "at least one profile is required"},
		{"too many", `{"profiles":[{"platform":"a","username":"1"},{"platform":"b","username":"2"},{"platform":"c","username":"3"}]}`, "too many profiles: 3 (max 2)"},
		{"missing username", `{"profiles":[{"platform":"x"}]}`, "profiles[0]: username is required"},
		{"missing platform", `{"profiles":[{"username":"u"}]}`, "profiles[0]: platform is required"},
		{"long field", `{"person":{"name":"Jane Alexandra Doe"},"profiles":[{"platform":"x","username":"u"}]}`, "person.name: 18 characters exceeds limit of 10"},
		{"long email", `{"person":{"email":["a@b.c","abcdefghijk@example.com"]},"profiles":[{"platform":"x","username":"u"}]}`, "person.email[1]"},
		{"too large", `{"person":{"bio":"` + strings.Repeat("a", 600) + `"}}`, "body exceeds 512 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMatch(strings.NewReader(tt.body), lim)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, strings.Join(verr.Problems, "\n"), tt.problem)
		})
	}
}

func TestDecodeMatch_ReportsEveryProblem(t *testing.T) {
	body := `{"profiles":[{"platform":"x"},{"username":"u"}]}`
	_, err := DecodeMatch(strings.NewReader(body), DefaultLimits())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"profiles[0]: username is required",
		"profiles[1]: platform is required",
	}, verr.Problems)
}

func TestDecodeMatch_TooLarge(t *testing.T) {
	lim := DefaultLimits()
	lim.MaxBodyBytes = 16
	_, err := DecodeMatch(strings.NewReader(`{"person":{"name":"Jane Doe"}}`), lim)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = DecodeMatch(strings.NewReader(`{"profiles":[]}`), lim)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.NotErrorIs(t, err, ErrTooLarge)
}

func TestDecodeMatch_NilReader(t *testing.T) {
	_, err := DecodeMatch(nil, DefaultLimits())
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeScore(t *testing.T) {
	body := `{"person":{"name":"Jane Doe"},"profile":{"platform":"x","username":"jane","display_name":"Jane Doe"}}`
	s, err := DecodeScore(strings.NewReader(body), DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", s.Profile.DisplayName)
	assert.Equal(t, "Jane Doe", s.Person.Name)

	_, err = DecodeScore(strings.NewReader(`{"person":{"name":"Jane"}}`), DefaultLimits())
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "profile is required")

	_, err = DecodeScore(strings.NewReader(`{"profile":{"platform":"x"}}`), DefaultLimits())
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "profile: username is required")
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Problems: []string{"a", "b"}}
	assert.Equal(t, "invalid request: a; b", err.Error())
}
