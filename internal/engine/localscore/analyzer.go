// internal/engine/localscore/analyzer.go

// Package localscore recomputes per-step eligibility scores on the client
// side of the engine, without any catalog round trip. It drives the
// "what changes if I complete this task" feedback loop.
package localscore

import (
	"github.com/AirieImmigration/pathway-engine/internal/engine/assessor"
	"github.com/AirieImmigration/pathway-engine/internal/engine/scoring"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// stepCriteria maps pathway step slugs to the eligibility criteria
// assessed for that step. Steps without an entry score zero.
var stepCriteria = map[string][]string{
	"Accredited Employer Work Visa": {
		"Has a job offer from an accredited employer",
		"Meets minimum skill level requirements",
		"Has relevant qualifications and experience",
		"Meets English language requirements",
		"Meets health and character requirements",
		"Is under 65 years old",
	},
	"Work to Residence Visa": {
		"Has worked on AEWV for 24+ months",
		"Has worked in a skilled occupation",
		"Job is with an accredited employer",
		"Meets salary threshold requirements",
		"Has advanced English proficiency",
		"Holds relevant professional registration if required",
	},
	"Skilled Migrant Category Resident Visa": {
		"Is under 55 years old",
		"Has advanced English proficiency",
		"Has 4+ years relevant work experience",
		"Meets minimum salary threshold",
		"Has bachelor's degree or higher qualification",
		"Meets health and character requirements",
	},
	"New Zealand Citizenship": {
		"Has been resident for 5+ years",
		"Has been physically present in NZ for specified periods",
		"Has no serious criminal convictions",
		"Demonstrates knowledge of English and NZ",
		"Intends to continue living in New Zealand",
	},
	"Student Visa": {
		"Has offer of place from approved education provider",
		"Meets English language requirements for study",
		"Has sufficient funds for tuition and living costs",
		"Has genuine intention to study",
		"Meets health and character requirements",
	},
	"Partner of a New Zealander Visitor Visa": {
		"Is in genuine and stable relationship",
		"Partner is NZ citizen or resident",
		"Meets health and character requirements",
		"Has sufficient funds for stay",
		"Has genuine intention to visit",
	},
}

// stepAliases maps catalog visa slugs onto the step names used as
// criteria keys, for pathways stored with slug nodes.
var stepAliases = map[string]string{
	"accredited-employer-work-visa": "Accredited Employer Work Visa",
	"work-to-residence":             "Work to Residence Visa",
	"skilled-migrant":               "Skilled Migrant Category Resident Visa",
	"student-visa":                  "Student Visa",
	"partner-visitor-visa":          "Partner of a New Zealander Visitor Visa",
}

// StepCriteria returns the criteria assessed for a pathway step, or nil
// when the step is unknown. Both display names and catalog slugs resolve.
func StepCriteria(step string) []string {
	if criteria, ok := stepCriteria[step]; ok {
		return criteria
	}
	return stepCriteria[stepAliases[step]]
}

// Analysis is the assessed state of one pathway step.
type Analysis struct {
	StepName      string                `json:"stepName"`
	UnmetCriteria []string              `json:"unmetCriteria"`
	Assessments   []assessor.Assessment `json:"assessments"`
	Score         int                   `json:"score"`
}

// AnalyzePathway assesses every step of a pathway against the profile.
// The score is the plain percentage of criteria answered "yes"; only
// outright "no" verdicts count as unmet, unresolved criteria stay out of
// that list so they do not spawn remediation tasks prematurely.
func AnalyzePathway(a *assessor.Assessor, profile models.Profile, steps []models.PlanStep) []Analysis {
	analyses := make([]Analysis, 0, len(steps))
	for _, step := range steps {
		criteria := StepCriteria(step.VisaSlug)
		assessments := a.AssessAll(profile, criteria)

		score := 0
		if len(criteria) > 0 {
			score = scoring.Aggregate(assessments, scoring.StrategyRatio)
		}

		analyses = append(analyses, Analysis{
			StepName:      step.VisaSlug,
			UnmetCriteria: scoring.UnmetCriteria(assessments),
			Assessments:   assessments,
			Score:         score,
		})
	}
	return analyses
}

// AllUnmetCriteria collects the distinct unmet criteria across analyses,
// in first-seen order.
func AllUnmetCriteria(analyses []Analysis) []string {
	seen := make(map[string]bool)
	var unmet []string
	for _, analysis := range analyses {
		for _, criterion := range analysis.UnmetCriteria {
			if !seen[criterion] {
				seen[criterion] = true
				unmet = append(unmet, criterion)
			}
		}
	}
	return unmet
}
