// internal/engine/tasks/catalog.go
package tasks

import (
	"math"

	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// Urgency ranks how soon a task should be started.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Importance ranks how much a task matters for eligibility.
type Importance string

const (
	ImportanceCritical   Importance = "critical"
	ImportanceImportant  Importance = "important"
	ImportanceBeneficial Importance = "beneficial"
)

// Difficulty buckets the effort of a remediation task.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Task is one static catalog entry. Apply is a pure transform: it returns
// a new profile and never mutates its input. Completed status is tracked
// externally as a set of task ids, never on the task itself.
type Task struct {
	ID            string     `json:"id"`
	Label         string     `json:"label"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category"`
	EstimatedTime string     `json:"estimatedTime"`
	Difficulty    Difficulty `json:"difficulty"`

	// Default prioritization metadata, used when the mapping strategy has
	// no per-criterion override.
	Importance Importance `json:"importance"`
	Urgency    Urgency    `json:"urgency"`

	Apply func(models.Profile) models.Profile `json:"-"`
}

// Lookup returns the catalog task for an id.
func Lookup(id string) (Task, bool) {
	for _, t := range Catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

func withAttribute(p models.Profile, key string, value interface{}) models.Profile {
	attrs := make(map[string]interface{}, len(p.Attributes)+1)
	for k, v := range p.Attributes {
		attrs[k] = v
	}
	attrs[key] = value
	p.Attributes = attrs
	return p
}

func raiseSalary(p models.Profile, factor float64) models.Profile {
	p.YearlySalaryNZD = math.Round(p.EffectiveYearlySalary() * factor)
	return p
}

// Catalog is the static remediation task catalog.
var Catalog = []Task{
	{
		ID:            "improve-english-intermediate",
		Label:         "Reach intermediate English",
		Description:   "Structured classes to reach a solid intermediate level.",
		Category:      "English",
		EstimatedTime: "3 months",
		Difficulty:    DifficultyEasy,
		Importance:    ImportanceCritical,
		Urgency:       UrgencyHigh,
		Apply: func(p models.Profile) models.Profile {
			if p.EnglishLevel == models.EnglishBasic {
				p.EnglishLevel = models.EnglishIntermediate
			}
			return p
		},
	},
	{
		ID:            "improve-english-advanced",
		Label:         "Take IELTS prep to boost English",
		Description:   "Target band 7.0+ to unlock more pathways.",
		Category:      "English",
		EstimatedTime: "6 months",
		Difficulty:    DifficultyMedium,
		Importance:    ImportanceCritical,
		Urgency:       UrgencyHigh,
		Apply: func(p models.Profile) models.Profile {
			if p.EnglishLevel != models.EnglishFluent {
				p.EnglishLevel = models.EnglishAdvanced
			}
			return p
		},
	},
	{
		ID:            "improve-english-fluent",
		Label:         "Reach fluent English",
		Description:   "Immersion and advanced coursework toward full fluency.",
		Category:      "English",
		EstimatedTime: "12 months",
		Difficulty:    DifficultyHard,
		Importance:    ImportanceImportant,
		Urgency:       UrgencyMedium,
		Apply: func(p models.Profile) models.Profile {
			p.EnglishLevel = models.EnglishFluent
			return p
		},
	},
	{
		ID:            "gain-experience",
		Label:         "Gain 1 year relevant experience",
		Description:   "Experience matters for Skilled Migrant.",
		Category:      "Experience",
		EstimatedTime: "12 months",
		Difficulty:    DifficultyMedium,
		Importance:    ImportanceImportant,
		Urgency:       UrgencyMedium,
		Apply: func(p models.Profile) models.Profile {
			p.YearsExperience++
			return p
		},
	},
	{
		ID:            "gain-experience-2yr",
		Label:         "Gain 2 years relevant experience",
		Description:   "Longer runway for roles with higher experience bars.",
		Category:      "Experience",
		EstimatedTime: "24 months",
		Difficulty:    DifficultyHard,
		Importance:    ImportanceImportant,
		Urgency:       UrgencyLow,
		Apply: func(p models.Profile) models.Profile {
			p.YearsExperience += 2
			return p
		},
	},
	{
		ID:            "negotiate-salary",
		Label:         "Negotiate salary by 10%",
		Description:   "Raises points and eligibility for some visas.",
		Category:      "Employment",
		EstimatedTime: "1 month",
		Difficulty:    DifficultyEasy,
		Importance:    ImportanceImportant,
		Urgency:       UrgencyMedium,
		Apply:         func(p models.Profile) models.Profile { return raiseSalary(p, 1.10) },
	},
	{
		ID:            "negotiate-salary-25",
		Label:         "Target a 25% salary increase",
		Description:   "Usually means a role change; clears higher wage bars.",
		Category:      "Employment",
		EstimatedTime: "3 months",
		Difficulty:    DifficultyMedium,
		Importance:    ImportanceImportant,
		Urgency:       UrgencyMedium,
		Apply:         func(p models.Profile) models.Profile { return raiseSalary(p, 1.25) },
	},
	{
		ID:            "get-job-offer",
		Label:         "Secure a job offer from an accredited employer",
		Description:   "An accredited employer offer anchors most work pathways.",
		Category:      "Employment",
		EstimatedTime: "3 months",
		Difficulty:    DifficultyMedium,
		Importance:    ImportanceCritical,
		Urgency:       UrgencyMedium,
		Apply: func(p models.Profile) models.Profile {
			if p.CurrentJobTitle == "" || p.CurrentJobTitle == "Unemployed" {
				p.CurrentJobTitle = "Offer holder"
			}
			return withAttribute(p, "accreditedJobOffer", true)
		},
	},
	{
		ID:            "complete-degree",
		Label:         "Complete a bachelor's degree",
		Description:   "Unlocks qualification-gated categories.",
		Category:      "Education",
		EstimatedTime: "36 months",
		Difficulty:    DifficultyHard,
		Importance:    ImportanceImportant,
		Urgency:       UrgencyLow,
		Apply: func(p models.Profile) models.Profile {
			if p.EducationLevel == models.EducationHighSchool {
				p.EducationLevel = models.EducationBachelor
			}
			return p
		},
	},
	{
		ID:            "complete-master",
		Label:         "Complete a master's degree",
		Description:   "Additional points and broader occupation coverage.",
		Category:      "Education",
		EstimatedTime: "18 months",
		Difficulty:    DifficultyHard,
		Importance:    ImportanceBeneficial,
		Urgency:       UrgencyLow,
		Apply: func(p models.Profile) models.Profile {
			if p.EducationLevel == models.EducationBachelor {
				p.EducationLevel = models.EducationMaster
			}
			return p
		},
	},
	{
		ID:            "get-nz-registration",
		Label:         "Obtain NZ professional registration",
		Description:   "Required for registered occupations like nursing.",
		Category:      "Registration",
		EstimatedTime: "4 months",
		Difficulty:    DifficultyMedium,
		Importance:    ImportanceCritical,
		Urgency:       UrgencyMedium,
		Apply:         func(p models.Profile) models.Profile { return withAttribute(p, "nzRegistration", true) },
	},
}

// ApplyCompleted folds the completed tasks' transforms over a profile in
// the order the ids are supplied. Order is caller-determined and not
// sorted here: transforms are not guaranteed commutative. Unknown ids are
// skipped.
func ApplyCompleted(profile models.Profile, completedTaskIDs []string) models.Profile {
	modified := profile
	for _, id := range completedTaskIDs {
		if task, ok := Lookup(id); ok && task.Apply != nil {
			modified = task.Apply(modified)
		}
	}
	return modified
}
