// internal/engine/assessor/assessor.go
package assessor

import (
	"strings"

	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// Verdict is the tri-state outcome of assessing one criterion.
type Verdict string

const (
	VerdictYes     Verdict = "yes"
	VerdictNo      Verdict = "no"
	VerdictUnknown Verdict = "unknown"
)

// Assessment is the result of evaluating one free-text criterion against a
// profile. Ephemeral: recomputed on demand, never persisted.
type Assessment struct {
	Criterion string  `json:"criterion"`
	Met       Verdict `json:"met"`
	Reasoning string  `json:"reasoning,omitempty"`
}

// Assessor classifies free-text eligibility criteria against a profile
// using an ordered, first-match-wins rule table. It is a total function:
// unrecognized criteria come back as unknown, never as an error.
type Assessor struct {
	medianWageNZD       float64
	skilledMultiplier   float64
	experienceThreshold int
	rules               []rule
}

// Option tunes an Assessor at construction time.
type Option func(*Assessor)

// WithMedianWage overrides the reference median wage used by wage criteria.
func WithMedianWage(nzd float64) Option {
	return func(a *Assessor) { a.medianWageNZD = nzd }
}

// WithSkilledMultiplier overrides the factor applied to the median wage
// for "1.5 times" style criteria.
func WithSkilledMultiplier(factor float64) Option {
	return func(a *Assessor) { a.skilledMultiplier = factor }
}

// WithExperienceThreshold overrides the years-of-experience bar applied to
// generic experience criteria.
func WithExperienceThreshold(years int) Option {
	return func(a *Assessor) { a.experienceThreshold = years }
}

// New builds an Assessor with the default rule table. Rule order matters:
// specific phrasings are tested before generic ones.
func New(opts ...Option) *Assessor {
	a := &Assessor{
		medianWageNZD:       defaultMedianWageNZD,
		skilledMultiplier:   defaultSkilledMultiplier,
		experienceThreshold: defaultExperienceYears,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.rules = a.defaultRules()
	return a
}

// AddRule appends a custom rule to the end of the table, after all built-in
// rules but before the unknown fallback.
func (a *Assessor) AddRule(name string, match func(criterion string) bool, evaluate func(p models.Profile, criterion string) (Verdict, string)) {
	a.rules = append(a.rules, rule{name: name, match: match, evaluate: evaluate})
}

// Assess evaluates a single criterion. Matching is case-insensitive; the
// first rule that both matches and produces a verdict wins.
func (a *Assessor) Assess(profile models.Profile, criterion string) Assessment {
	lower := strings.ToLower(criterion)

	for _, r := range a.rules {
		if !r.match(lower) {
			continue
		}
		verdict, reasoning := r.evaluate(profile, lower)
		if verdict == "" {
			// Rule declined to decide; keep walking the table.
			continue
		}
		return Assessment{Criterion: criterion, Met: verdict, Reasoning: reasoning}
	}

	return Assessment{
		Criterion: criterion,
		Met:       VerdictUnknown,
		Reasoning: "Insufficient information to assess this requirement",
	}
}

// AssessAll evaluates every criterion in order.
func (a *Assessor) AssessAll(profile models.Profile, criteria []string) []Assessment {
	out := make([]Assessment, 0, len(criteria))
	for _, criterion := range criteria {
		out = append(out, a.Assess(profile, criterion))
	}
	return out
}
