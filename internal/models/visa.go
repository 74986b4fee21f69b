// internal/models/visa.go
package models

// Stage is the coarse visa-lifecycle category used to anchor pathway
// start/end selection.
type Stage string

const (
	StageNotInNZ        Stage = "NotInNZ"
	StageWork           Stage = "Work"
	StageStudent        Stage = "Student"
	StageVisitor        Stage = "Visitor"
	StageFirstResidence Stage = "FirstResidence"
	StagePermanent      Stage = "Permanent"
)

// Visa is one catalog record. EligibilityCriteria are free-text requirement
// strings; typed Requirement lists live alongside, keyed by slug.
type Visa struct {
	ID                  string   `json:"id"`
	Slug                string   `json:"slug"`
	Name                string   `json:"name"`
	Type                string   `json:"type,omitempty"`
	Stage               Stage    `json:"stage,omitempty"`
	ShortDescription    string   `json:"shortDescription,omitempty"`
	EligibilityCriteria []string `json:"eligibilityCriteria,omitempty"`
}

// PlaceholderVisa stands in for a visa referenced by a pathway but missing
// from the catalog, so one gap never fails the whole computation.
func PlaceholderVisa(slug string) Visa {
	return Visa{
		Slug:             slug,
		Name:             slug,
		Type:             "unknown",
		ShortDescription: "No catalog record available for this visa.",
	}
}

// Requirement is a structured eligibility rule, the typed alternative to a
// free-text criterion. Weights for one visa are expected to sum to 1.0 but
// that is not enforced.
type Requirement struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Weight      float64 `json:"weight"`
	Threshold   float64 `json:"threshold,omitempty"`
	HardBlocker bool    `json:"hardBlocker,omitempty"`
}

// PathwayEdge is a directed weighted transition between two visas.
type PathwayEdge struct {
	ID           string  `json:"id"`
	FromVisaSlug string  `json:"fromVisaSlug"`
	ToVisaSlug   string  `json:"toVisaSlug"`
	Weight       float64 `json:"weight"`
	Rationale    string  `json:"rationale,omitempty"`
}

// PathwayStep is one row of the precomputed residence-pathway step table,
// grouped by visa_name and ordered by step_order.
type PathwayStep struct {
	ID                 string `json:"id"`
	VisaName           string `json:"visaName"`
	StepName           string `json:"stepName"`
	StepOrder          int    `json:"stepOrder"`
	Duration           string `json:"duration,omitempty"`
	Eligibility        string `json:"eligibility,omitempty"`
	TimeframeUntilNext string `json:"timeframeUntilNext,omitempty"`
}
