// internal/service/assess-pathway/models.go
package assesspathway

import (
	"github.com/AirieImmigration/pathway-engine/internal/engine/assessor"
	"github.com/AirieImmigration/pathway-engine/internal/engine/scoring"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// Input is one pathway assessment request. VisaSlugs overrides the stored
// plan pathway; when empty the handler loads the pathway from the plan.
type Input struct {
	PlanID    string         `json:"planId,omitempty"`
	Profile   models.Profile `json:"profile"`
	VisaSlugs []string       `json:"visaSlugs,omitempty"`
	Strategy  string         `json:"strategy,omitempty"` // ratio or weighted
}

// StepAssessment is the full assessed state of one pathway step.
type StepAssessment struct {
	VisaSlug        string                `json:"visaSlug"`
	VisaName        string                `json:"visaName"`
	Assessments     []assessor.Assessment `json:"assessments,omitempty"`
	CriteriaScore   int                   `json:"criteriaScore"`
	Structured      *scoring.VisaScore    `json:"structured,omitempty"`
	UnmetCriteria   []string              `json:"unmetCriteria,omitempty"`
	UnresolvedCount int                   `json:"unresolvedCount"`
}

// Output carries per-step assessments plus the chained structured scores
// for the whole pathway.
type Output struct {
	Steps         []StepAssessment    `json:"steps"`
	ChainedScores []scoring.VisaScore `json:"chainedScores,omitempty"`
}
