// Package match scores how likely a candidate social media profile belongs to a known
// person, using lexical heuristics over names, locations, bios, emails, phone numbers
// and dates of birth.
//
// Basic usage:
//
//	results := match.Rank(person, profiles)
//	for _, r := range results {
//	    fmt.Println(r.Profile.Username, r.Score, r.Factors)
//	}
//
// Every field matcher returns a score in [0,1] and returns 0 when either input is
// missing. The overall score averages only the factors whose inputs were present, so
// unknown fields never drag a candidate down.
package match

import (
	"cmp"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/sociomatch/pkg/profile"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Weights are the relative importance of each factor. They sum to 1.
var Weights = map[profile.Factor]float64{
	profile.FactorName:          0.30,
	profile.FactorLocation:      0.12,
	profile.FactorEmployer:      0.18,
	profile.FactorEmailUsername: 0.18,
	profile.FactorJobTitle:      0.10,
	profile.FactorPhone:         0.07,
	profile.FactorDateOfBirth:   0.05,
}

// Option configures a Scorer.
type Option func(*config)

//nolint:govet // fieldalignment: intentional layout for readability
type config struct {
	nicknames map[string][]string
	locations map[string][]string
	now       func() time.Time
	logger    *slog.Logger
	workers   int
}

// WithNicknames adds nickname groups to the shipped seed list. A formal name that is
// already present gains the new variants.
func WithNicknames(extra map[string][]string) Option {
	return func(c *config) { c.nicknames = mergeInto(c.nicknames, extra) }
}

// WithLocationAliases adds location alias groups to the shipped seed list.
func WithLocationAliases(extra map[string][]string) Option {
	return func(c *config) { c.locations = mergeInto(c.locations, extra) }
}

// WithClock sets the time source used to turn a stated age into a birth year.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithWorkers scores up to n candidates concurrently in Rank.
// Results are identical to sequential scoring.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// Scorer holds the lookup tables used by the field matchers. It is immutable after
// New returns and safe for concurrent use.
type Scorer struct {
	nicknames *groupTable
	locations *groupTable
	now       func() time.Time
	logger    *slog.Logger
	workers   int
}

// New creates a Scorer with the shipped nickname and location tables plus any
// extensions supplied as options.
func New(opts ...Option) *Scorer {
	cfg := &config{now: time.Now, workers: 1}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Scorer{
		nicknames: newGroupTable(defaultNicknames, cfg.nicknames, normalizeName),
		locations: newGroupTable(defaultLocationAliases, cfg.locations, normalizeLocation),
		now:       cfg.now,
		logger:    cfg.logger,
		workers:   max(cfg.workers, 1),
	}
}

// Score computes the overall match score of a profile against a person.
//
// A factor is evaluated only when both of its inputs are present. Its weight then
// counts toward the denominator, so the overall score is the weighted mean of the
// applicable factors rounded to two decimals, or 0 when none apply.
func (s *Scorer) Score(person profile.Person, p profile.Profile) profile.MatchResult {
	factors := make(profile.Factors)
	var scores, weights []float64
	record := func(f profile.Factor, score float64) {
		factors[f] = score
		scores = append(scores, score)
		weights = append(weights, Weights[f])
	}

	hasBio := present(p.Bio)

	if present(person.Name) && present(p.DisplayName) {
		record(profile.FactorName, s.MatchName(person.Name, p.DisplayName))
	}
	if present(person.Location) && present(p.Location) {
		record(profile.FactorLocation, s.MatchLocation(person.Location, p.Location))
	}
	if present(person.Employer) && hasBio {
		record(profile.FactorEmployer, s.MatchEmployerInBio(person.Employer, p.Bio))
	}
	if person.Email.Present() && present(p.Username) {
		record(profile.FactorEmailUsername, s.MatchEmailToUsername(person.Email, p.Username))
	}
	if present(person.JobTitle) && hasBio {
		record(profile.FactorJobTitle, s.MatchJobTitleInBio(person.JobTitle, p.Bio))
	}
	if person.Phone.Present() && hasBio {
		record(profile.FactorPhone, s.MatchPhoneInBio(person.Phone, p.Bio))
	}
	if present(person.DateOfBirth) && hasBio {
		record(profile.FactorDateOfBirth, s.MatchDateOfBirth(person.DateOfBirth, p.Bio))
	}

	var overall float64
	if len(scores) > 0 {
		overall = round2(stat.Mean(scores, weights))
	}

	s.logger.Debug("scored profile",
		"platform", p.Platform, "username", p.Username,
		"score", overall, "factors", len(factors))

	return profile.MatchResult{Profile: p, Score: overall, Factors: factors}
}

// Rank scores every profile against the person and returns the results best-first.
// Profiles with equal scores keep their input order.
func (s *Scorer) Rank(person profile.Person, profiles []profile.Profile) []profile.MatchResult {
	results := make([]profile.MatchResult, len(profiles))

	if s.workers > 1 && len(profiles) > 1 {
		var g errgroup.Group
		g.SetLimit(s.workers)
		for i, p := range profiles {
			g.Go(func() error {
				results[i] = s.Score(person, p)
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // scoring never fails
	} else {
		for i, p := range profiles {
			results[i] = s.Score(person, p)
		}
	}

	slices.SortStableFunc(results, func(a, b profile.MatchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return results
}

// Now returns the current time according to the Scorer's clock.
func (s *Scorer) Now() time.Time {
	return s.now()
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func mergeInto(dst, src map[string][]string) map[string][]string {
	if dst == nil {
		dst = make(map[string][]string, len(src))
	}
	for k, v := range src {
		dst[k] = append(dst[k], v...)
	}
	return dst
}

var defaultScorer = New()

// Default returns the package-level Scorer built from the shipped tables.
func Default() *Scorer { return defaultScorer }

// Score computes the overall match score using the default Scorer.
func Score(person profile.Person, p profile.Profile) profile.MatchResult {
	return defaultScorer.Score(person, p)
}

// Rank ranks profiles against person using the default Scorer.
func Rank(person profile.Person, profiles []profile.Profile) []profile.MatchResult {
	return defaultScorer.Rank(person, profiles)
}

// MatchName scores a display name against a person's name using the default tables.
func MatchName(personName, profileName string) float64 {
	return defaultScorer.MatchName(personName, profileName)
}

// MatchLocation scores two locations using the default alias table.
func MatchLocation(personLoc, profileLoc string) float64 {
	return defaultScorer.MatchLocation(personLoc, profileLoc)
}

// MatchEmployerInBio scores an employer mention in a bio.
func MatchEmployerInBio(employer, bio string) float64 {
	return defaultScorer.MatchEmployerInBio(employer, bio)
}

// MatchJobTitleInBio scores a job title mention in a bio.
func MatchJobTitleInBio(title, bio string) float64 {
	return defaultScorer.MatchJobTitleInBio(title, bio)
}

// MatchEmailToUsername scores email local parts against a username.
func MatchEmailToUsername(emails []string, username string) float64 {
	return defaultScorer.MatchEmailToUsername(emails, username)
}

// MatchPhoneInBio scores phone numbers against the digits in a bio.
func MatchPhoneInBio(phones []string, bio string) float64 {
	return defaultScorer.MatchPhoneInBio(phones, bio)
}

// MatchDateOfBirth scores a date of birth against the year implied by a bio.
func MatchDateOfBirth(dob, bio string) float64 {
	return defaultScorer.MatchDateOfBirth(dob, bio)
}
