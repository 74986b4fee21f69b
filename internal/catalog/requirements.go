// internal/catalog/requirements.go
package catalog

import "github.com/AirieImmigration/pathway-engine/internal/models"

// visaRequirements is the typed requirement table keyed by visa slug.
// Weights within one visa sum to 1.0. Visas without an entry are scored
// with the assumed-success placeholder instead.
var visaRequirements = map[string][]models.Requirement{
	"skilled-migrant": {
		{Key: "age", Label: "Age under 55", Weight: 0.15, Threshold: 55, HardBlocker: true},
		{Key: "englishLevel", Label: "English: Advanced/Fluent", Weight: 0.2, HardBlocker: true},
		{Key: "yearsExperience", Label: "4+ years experience", Weight: 0.25, Threshold: 4},
		{Key: "yearlySalaryNZD", Label: "Salary meets threshold", Weight: 0.2, Threshold: 59211},
		{Key: "educationLevel", Label: "Bachelor or higher", Weight: 0.2},
	},
	"work-to-residence": {
		{Key: "yearsExperience", Label: "2+ years in listed occupation", Weight: 0.3, Threshold: 2},
		{Key: "englishLevel", Label: "English: Advanced/Fluent", Weight: 0.2},
		{Key: "yearlySalaryNZD", Label: "Meets sector salary band", Weight: 0.25, Threshold: 55000},
		{Key: "attributes.nzRegistration", Label: "NZ professional registration", Weight: 0.25, HardBlocker: true},
	},
	"student-visa": {
		{Key: "educationLevel", Label: "Eligible qualification offer", Weight: 0.35, HardBlocker: true},
		{Key: "englishLevel", Label: "English: Intermediate+", Weight: 0.3},
		{Key: "funds", Label: "Sufficient funds evidence", Weight: 0.35, HardBlocker: true},
	},
}

// Requirements returns the typed requirement list for a visa slug, or nil
// when the visa has no structured requirements.
func Requirements(visaSlug string) []models.Requirement {
	return visaRequirements[visaSlug]
}

// RequirementSlugs lists the visa slugs that carry typed requirements.
func RequirementSlugs() []string {
	slugs := make([]string, 0, len(visaRequirements))
	for slug := range visaRequirements {
		slugs = append(slugs, slug)
	}
	return slugs
}
