// internal/engine/tasks/mapping.go
package tasks

import (
	"strings"

	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// Candidate is one task suggested for an unmet criterion, with the
// prioritization metadata the strategy attached to it.
type Candidate struct {
	TaskID     string
	Importance Importance
	Urgency    Urgency
}

// MappingStrategy turns one unmet criterion into zero or more candidate
// tasks. Two implementations exist and both are kept: an exact-text lookup
// table and a substring pattern matcher. They evolved separately and carry
// different edge-case policies, so call sites choose explicitly instead of
// sharing a merged table.
type MappingStrategy interface {
	Name() string
	Map(criterion string, profile models.Profile) []Candidate
}

// ---- exact-text strategy ----

type criterionMapping struct {
	taskIDs    []string
	importance Importance
	urgency    Urgency
}

// criteriaToTasks is the static lookup from known criterion phrasings to
// remediation tasks. Entries with no task ids are recognized but not
// actionable (age, residency tenure, external funds).
var criteriaToTasks = map[string]criterionMapping{
	"Has advanced English proficiency": {
		taskIDs:    []string{"improve-english-advanced"},
		importance: ImportanceCritical,
		urgency:    UrgencyHigh,
	},
	"Meets English language requirements": {
		taskIDs:    []string{"improve-english-intermediate", "improve-english-advanced"},
		importance: ImportanceCritical,
		urgency:    UrgencyHigh,
	},
	"Is under 55 years old": {
		importance: ImportanceCritical,
		urgency:    UrgencyHigh,
	},
	"Is under 65 years old": {
		importance: ImportanceCritical,
		urgency:    UrgencyHigh,
	},
	"Has 4+ years relevant work experience": {
		taskIDs:    []string{"gain-experience"},
		importance: ImportanceImportant,
		urgency:    UrgencyMedium,
	},
	"Meets minimum salary threshold": {
		taskIDs:    []string{"negotiate-salary", "get-job-offer"},
		importance: ImportanceImportant,
		urgency:    UrgencyMedium,
	},
	"Meets salary threshold requirements": {
		taskIDs:    []string{"negotiate-salary", "get-job-offer"},
		importance: ImportanceImportant,
		urgency:    UrgencyMedium,
	},
	"Has bachelor's degree or higher qualification": {
		taskIDs:    []string{"complete-degree"},
		importance: ImportanceImportant,
		urgency:    UrgencyLow,
	},
	"Holds relevant professional registration if required": {
		taskIDs:    []string{"get-nz-registration"},
		importance: ImportanceCritical,
		urgency:    UrgencyMedium,
	},
	"Has a job offer from an accredited employer": {
		taskIDs:    []string{"get-job-offer"},
		importance: ImportanceCritical,
		urgency:    UrgencyMedium,
	},
	"Has worked on AEWV for 24+ months": {
		taskIDs:    []string{"gain-experience"},
		importance: ImportanceCritical,
		urgency:    UrgencyLow,
	},
	"Has sufficient funds for tuition and living costs": {
		importance: ImportanceCritical,
		urgency:    UrgencyMedium,
	},
	"Has been resident for 5+ years": {
		importance: ImportanceCritical,
		urgency:    UrgencyLow,
	},
}

// ExactTableStrategy maps criteria by exact text against the static table.
// Unlisted criteria produce no candidates.
type ExactTableStrategy struct{}

func (ExactTableStrategy) Name() string { return "exact-table" }

func (ExactTableStrategy) Map(criterion string, _ models.Profile) []Candidate {
	mapping, ok := criteriaToTasks[criterion]
	if !ok {
		return nil
	}
	candidates := make([]Candidate, 0, len(mapping.taskIDs))
	for _, id := range mapping.taskIDs {
		candidates = append(candidates, Candidate{
			TaskID:     id,
			Importance: mapping.importance,
			Urgency:    mapping.urgency,
		})
	}
	return candidates
}

// ---- substring pattern strategy ----

// PatternStrategy maps criteria by keyword patterns, choosing tasks by
// where the profile currently falls short. Importance and urgency come
// from the task's own metadata.
type PatternStrategy struct{}

func (PatternStrategy) Name() string { return "pattern" }

func (PatternStrategy) Map(criterion string, profile models.Profile) []Candidate {
	c := strings.ToLower(criterion)
	var ids []string

	if strings.Contains(c, "english") {
		if profile.EnglishLevel == models.EnglishBasic || profile.EnglishLevel == models.EnglishIntermediate {
			ids = append(ids, "improve-english-advanced")
		}
		if profile.EnglishLevel != models.EnglishFluent {
			ids = append(ids, "improve-english-fluent")
		}
	}

	// Age cannot be improved, and age criteria mention nothing else
	// actionable, so stop here.
	if strings.Contains(c, "age") {
		return candidatesFromIDs(ids)
	}

	if strings.Contains(c, "experience") || strings.Contains(c, "years") {
		switch {
		case strings.Contains(c, "4+") || strings.Contains(c, "4 years"):
			if needed := 4 - profile.YearsExperience; needed <= 1 {
				ids = append(ids, "gain-experience")
			} else {
				ids = append(ids, "gain-experience-2yr")
			}
		case strings.Contains(c, "2+") || strings.Contains(c, "2 years"):
			if profile.YearsExperience < 2 {
				ids = append(ids, "gain-experience")
			}
		default:
			ids = append(ids, "gain-experience")
		}
	}

	if strings.Contains(c, "salary") || strings.Contains(c, "wage") || strings.Contains(c, "threshold") {
		if profile.EffectiveYearlySalary() > 0 {
			ids = append(ids, "negotiate-salary")
			if profile.EffectiveYearlySalary() < 60000 {
				ids = append(ids, "negotiate-salary-25")
			}
		}
	}

	if strings.Contains(c, "bachelor") || strings.Contains(c, "qualification") || strings.Contains(c, "degree") {
		if profile.EducationLevel == models.EducationHighSchool {
			ids = append(ids, "complete-degree")
		}
		if profile.EducationLevel == models.EducationBachelor {
			ids = append(ids, "complete-master")
		}
	}

	if strings.Contains(c, "registration") || strings.Contains(c, "professional") {
		ids = append(ids, "get-nz-registration")
	}

	if strings.Contains(c, "job offer") || strings.Contains(c, "employment") || strings.Contains(c, "accredited employer") {
		if profile.CurrentJobTitle == "" || profile.CurrentJobTitle == "Unemployed" {
			ids = append(ids, "get-job-offer")
		}
	}

	// Funds and other purely financial criteria are external constraints,
	// not actionable here.

	return candidatesFromIDs(ids)
}

func candidatesFromIDs(ids []string) []Candidate {
	candidates := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		task, ok := Lookup(id)
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			TaskID:     id,
			Importance: task.Importance,
			Urgency:    task.Urgency,
		})
	}
	return candidates
}

// StrategyByName resolves a configured strategy name; unknown names fall
// back to the exact table.
func StrategyByName(name string) MappingStrategy {
	if name == "pattern" {
		return PatternStrategy{}
	}
	return ExactTableStrategy{}
}
