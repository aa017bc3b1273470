package match

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MatchName scores how well a profile's display name matches a person's name.
//
// Exact matches (after collapsing whitespace) score 1. First names that are the same
// or nickname-equivalent score 0.95 when the last names also agree, otherwise 0.7.
// An initial ("J." for "Jane") scores between 0.5 and 0.8 depending on the last name.
// Everything else, including single-word names, falls back to Similarity.
func (s *Scorer) MatchName(personName, profileName string) float64 {
	personName = strings.TrimSpace(personName)
	profileName = strings.TrimSpace(profileName)
	if personName == "" || profileName == "" {
		return 0
	}

	a := strings.Fields(fold(personName))
	b := strings.Fields(fold(profileName))
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	if strings.Join(a, " ") == strings.Join(b, " ") {
		return 1.0
	}

	bothHaveLast := len(a) > 1 && len(b) > 1

	if s.nicknameEquivalent(a[0], b[0]) {
		if bothHaveLast && Similarity(a[len(a)-1], b[len(b)-1]) > 0.8 {
			return 0.95
		}
		return 0.7
	}

	if initial, ok := nameInitial(b[0]); ok && strings.HasPrefix(a[0], initial) {
		if bothHaveLast {
			return 0.5 + Similarity(a[len(a)-1], b[len(b)-1])*0.3
		}
		return 0.4
	}

	return Similarity(personName, profileName)
}

// nameInitial returns the token as an initial if it is a single letter,
// optionally followed by a period ("j" or "j.").
func nameInitial(token string) (string, bool) {
	token = strings.TrimSuffix(token, ".")
	if utf8.RuneCountInString(token) != 1 {
		return "", false
	}
	return token, true
}

// MatchLocation scores agreement between two free-form locations.
func (s *Scorer) MatchLocation(personLoc, profileLoc string) float64 {
	a := normalizeLocation(personLoc)
	b := normalizeLocation(profileLoc)
	if a == "" || b == "" {
		return 0
	}

	// Exact match
	if a == b {
		return 1.0
	}

	// Alias before containment: "bay area" vs "san francisco" share no substring.
	if s.locations.aliased(a, b) {
		return 0.9
	}

	// One contains the other (e.g., "san francisco" and "san francisco ca")
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.85
	}

	return Similarity(a, b)
}

// MatchEmployerInBio scores whether the bio mentions the employer. A verbatim mention
// scores 1; otherwise each employer word longer than two characters found in the bio
// earns a share of 0.5.
func (s *Scorer) MatchEmployerInBio(employer, bio string) float64 {
	return keywordsInText(employer, bio, 2, 0.5)
}

// MatchJobTitleInBio scores whether the bio mentions the job title. Words must be
// longer than three characters, so abbreviations like "SWE" never match. If no word
// matches, a loose whole-string similarity above 0.5 still earns half credit.
func (s *Scorer) MatchJobTitleInBio(title, bio string) float64 {
	if score := keywordsInText(title, bio, 3, 0.6); score > 0 {
		return score
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(bio) == "" {
		return 0
	}
	if sim := Similarity(title, bio); sim > 0.5 {
		return sim * 0.5
	}
	return 0
}

// keywordsInText returns 1 if phrase appears verbatim in text. Otherwise it returns
// partial * matched/total over the phrase's words longer than minLen runes.
func keywordsInText(phrase, text string, minLen int, partial float64) float64 {
	phrase = fold(strings.TrimSpace(phrase))
	if phrase == "" || strings.TrimSpace(text) == "" {
		return 0
	}
	text = fold(text)

	if strings.Contains(text, phrase) {
		return 1.0
	}

	var total, matched int
	for word := range strings.FieldsSeq(phrase) {
		if utf8.RuneCountInString(word) <= minLen {
			continue
		}
		total++
		if strings.Contains(text, word) {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return partial * float64(matched) / float64(total)
}

// MatchEmailToUsername scores whether any email's local part resembles the username.
// Emails are tried in order and the first that matches at any tier wins:
// exact local part 1, equal after stripping separators and digits 0.9,
// one stripped form containing the other 0.7.
func (s *Scorer) MatchEmailToUsername(emails []string, username string) float64 {
	user := fold(strings.TrimSpace(username))
	if user == "" {
		return 0
	}
	userStripped := stripHandle(user)

	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		local, _, _ := strings.Cut(email, "@")
		local = fold(local)

		if local == user {
			return 1.0
		}

		localStripped := stripHandle(local)
		if localStripped == "" || userStripped == "" {
			continue
		}
		if localStripped == userStripped {
			return 0.9
		}
		if strings.Contains(localStripped, userStripped) || strings.Contains(userStripped, localStripped) {
			return 0.7
		}
	}
	return 0
}

// stripHandle removes dots, underscores, hyphens and ASCII digits.
func stripHandle(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == '_' || r == '-' || isDigit(r) {
			return -1
		}
		return r
	}, s)
}

// MatchPhoneInBio scores whether any phone number appears among the bio's digits.
// Phones are compared by their last ten digits (1) or, failing that, the last seven
// (0.8). Phones with fewer than seven digits never match.
func (s *Scorer) MatchPhoneInBio(phones []string, bio string) float64 {
	bioDigits := digitsOnly(bio)
	if bioDigits == "" {
		return 0
	}

	for _, phone := range phones {
		d := digitsOnly(phone)
		if len(d) > 10 {
			d = d[len(d)-10:]
		}
		if len(d) < 7 {
			continue
		}
		if strings.Contains(bioDigits, d) {
			return 1.0
		}
		if strings.Contains(bioDigits, d[len(d)-7:]) {
			return 0.8
		}
	}
	return 0
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

var (
	bornPattern = regexp.MustCompile(`(?i)\bborn\s+(?:in\s+)?(\d{4})\b`)
	agePattern  = regexp.MustCompile(`(?i)(?:^|\D)(\d{1,2})\s*(?:years?\s*old\b|yo\b|y/o\b)`)
)

// MatchDateOfBirth scores whether the bio implies the person's birth year, either
// directly ("born in 1990") or through an age ("34 years old", "34yo", "34 y/o").
// The same year scores 1, one year off scores 0.7 and anything else 0.
func (s *Scorer) MatchDateOfBirth(dob, bio string) float64 {
	if strings.TrimSpace(dob) == "" || strings.TrimSpace(bio) == "" {
		return 0
	}
	birthYear, ok := parseYear(dob)
	if !ok {
		return 0
	}
	year, ok := s.yearFromBio(bio)
	if !ok {
		return 0
	}

	switch diff := year - birthYear; diff {
	case 0:
		return 1.0
	case 1, -1:
		return 0.7
	default:
		return 0
	}
}

// yearFromBio extracts a birth year from an explicit "born" mention, else from a
// stated age between 11 and 98.
func (s *Scorer) yearFromBio(bio string) (int, bool) {
	if m := bornPattern.FindStringSubmatch(bio); m != nil {
		year, err := strconv.Atoi(m[1])
		return year, err == nil
	}
	if m := agePattern.FindStringSubmatch(bio); m != nil {
		age, err := strconv.Atoi(m[1])
		if err != nil || age <= 10 || age >= 99 {
			return 0, false
		}
		return s.now().Year() - age, true
	}
	return 0, false
}

// dateLayouts are tried in order by parseYear.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006/01/02",
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02.01.2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"Jan 2006",
	"2006-01",
	"2006",
}

// parseYear leniently parses a calendar date and returns its year.
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}
