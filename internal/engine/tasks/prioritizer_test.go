package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AirieImmigration/pathway-engine/internal/engine/assessor"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// ==========================
// Priority Score Tests
// ==========================

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name       string
		importance Importance
		urgency    Urgency
		stepCount  int
		want       int
	}{
		{"critical high no steps", ImportanceCritical, UrgencyHigh, 0, 75},
		{"critical high one step", ImportanceCritical, UrgencyHigh, 1, 83},
		{"step bonus caps at 25", ImportanceCritical, UrgencyHigh, 10, 100},
		{"important medium two steps", ImportanceImportant, UrgencyMedium, 2, 61},
		{"beneficial low", ImportanceBeneficial, UrgencyLow, 0, 15},
		{"unrecognized values score only steps", Importance("x"), Urgency("y"), 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriorityScore(tt.importance, tt.urgency, tt.stepCount)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

// ==========================
// Prioritize Tests
// ==========================

func TestPrioritize_OrdersByScore(t *testing.T) {
	profile := models.Profile{EnglishLevel: models.EnglishBasic}
	steps := models.StepsFromSlugs([]string{"Work Visa", "Residence Visa"})

	unmet := []string{
		"Has bachelor's degree or higher qualification",
		"Meets English language requirements",
	}

	result := Prioritize(unmet, profile, steps, ExactTableStrategy{})

	require.NotEmpty(t, result)
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].PriorityScore, result[i].PriorityScore)
	}
	// The critical English tasks outrank the low-urgency degree task.
	assert.Contains(t, []string{"improve-english-intermediate", "improve-english-advanced"}, result[0].ID)
}

func TestPrioritize_DeduplicatesAcrossCriteria(t *testing.T) {
	profile := models.Profile{EnglishLevel: models.EnglishFluent, YearlySalaryNZD: 65000, CurrentJobTitle: "Unemployed"}
	steps := models.StepsFromSlugs([]string{"Work Visa"})

	// Both criteria surface get-job-offer through the exact table.
	unmet := []string{
		"Meets minimum salary threshold",
		"Has a job offer from an accredited employer",
	}

	result := Prioritize(unmet, profile, steps, ExactTableStrategy{})

	seen := map[string]int{}
	for _, task := range result {
		seen[task.ID]++
	}
	assert.Equal(t, 1, seen["get-job-offer"], "duplicated task must appear once")
	assert.Equal(t, 1, seen["negotiate-salary"])
}

func TestPrioritize_UnionsApplicableSteps(t *testing.T) {
	profile := models.Profile{EnglishLevel: models.EnglishFluent, YearlySalaryNZD: 50000}
	steps := models.StepsFromSlugs([]string{"Work Visa", "Residence Visa"})

	unmet := []string{
		"Meets minimum salary threshold",
		"Meets salary threshold requirements",
	}

	result := Prioritize(unmet, profile, steps, ExactTableStrategy{})

	require.NotEmpty(t, result)
	for _, task := range result {
		assert.ElementsMatch(t, []string{"Work Visa", "Residence Visa"}, task.ApplicableSteps)
	}
}

func TestPrioritize_NonImprovableCriterionHasNoSteps(t *testing.T) {
	profile := models.Profile{EnglishLevel: models.EnglishBasic}
	steps := models.StepsFromSlugs([]string{"Work Visa"})

	result := Prioritize([]string{"Meets English language requirements"}, profile, steps, ExactTableStrategy{})
	require.NotEmpty(t, result)
	assert.Equal(t, []string{"Work Visa"}, result[0].ApplicableSteps)
	assert.Contains(t, result[0].ImpactDescription, "Work Visa")

	result = Prioritize([]string{"Meets health and character requirements"}, profile, steps, PatternStrategy{})
	assert.Empty(t, result)
}

func TestPrioritize_NilStrategyDefaultsToExactTable(t *testing.T) {
	profile := models.Profile{EnglishLevel: models.EnglishBasic}

	result := Prioritize([]string{"Meets English language requirements"}, profile, nil, nil)
	assert.NotEmpty(t, result)
}

func TestGroupByCategory(t *testing.T) {
	profile := models.Profile{EnglishLevel: models.EnglishBasic, EducationLevel: models.EducationHighSchool}
	unmet := []string{
		"Meets English language requirements",
		"Has bachelor's degree or higher qualification",
	}

	grouped := GroupByCategory(Prioritize(unmet, profile, nil, ExactTableStrategy{}))

	assert.Len(t, grouped["English"], 2)
	assert.Len(t, grouped["Education"], 1)
}

// ==========================
// Generator Tests
// ==========================

func TestGenerateFromAssessments(t *testing.T) {
	profile := models.Profile{
		EnglishLevel:    models.EnglishBasic,
		EducationLevel:  models.EducationHighSchool,
		YearsExperience: 1,
	}

	input := []VisaAssessment{
		{
			VisaSlug: "skilled-migrant",
			Assessments: []assessor.Assessment{
				{Criterion: "Meets English language requirements", Met: assessor.VerdictNo},
				{Criterion: "Meets health and character requirements", Met: assessor.VerdictYes},
			},
		},
		{
			VisaSlug: "work-to-residence",
			Assessments: []assessor.Assessment{
				{Criterion: "Meets English language requirements", Met: assessor.VerdictUnknown},
			},
		},
	}

	generated := GenerateFromAssessments(input, profile)

	require.NotEmpty(t, generated)
	byID := map[string]GeneratedTask{}
	for _, g := range generated {
		byID[g.Task.ID] = g
	}

	advanced, ok := byID["improve-english-advanced"]
	require.True(t, ok)
	assert.Equal(t, []string{"skilled-migrant", "work-to-residence"}, advanced.RelevantToVisas)
	assert.GreaterOrEqual(t, advanced.Priority, 1)
	assert.LessOrEqual(t, advanced.Priority, 5)

	// A criterion answered yes never produces tasks on its own.
	for _, g := range generated {
		assert.NotContains(t, []string{"get-nz-registration"}, g.Task.ID)
	}
}

func TestGenerateFromAssessments_PriorityOrdering(t *testing.T) {
	profile := models.Profile{EnglishLevel: models.EnglishBasic, EducationLevel: models.EducationHighSchool}

	input := []VisaAssessment{
		{
			VisaSlug: "skilled-migrant",
			Assessments: []assessor.Assessment{
				{Criterion: "Meets English language requirements", Met: assessor.VerdictNo},
				{Criterion: "Has bachelor's degree or higher qualification", Met: assessor.VerdictNo},
			},
		},
	}

	generated := GenerateFromAssessments(input, profile)

	require.NotEmpty(t, generated)
	for i := 1; i < len(generated); i++ {
		assert.GreaterOrEqual(t, generated[i-1].Priority, generated[i].Priority)
	}
}

func TestTaskPriority_Caps(t *testing.T) {
	task, ok := Lookup("improve-english-advanced")
	require.True(t, ok)

	profile := models.Profile{EnglishLevel: models.EnglishBasic}
	visas := []string{"a", "b", "c", "d", "e", "f"}

	priority := taskPriority(task, visas, profile)
	assert.Equal(t, 5, priority)
}

func TestGroupGeneratedByCategory(t *testing.T) {
	profile := models.Profile{EnglishLevel: models.EnglishBasic}
	input := []VisaAssessment{
		{
			VisaSlug: "skilled-migrant",
			Assessments: []assessor.Assessment{
				{Criterion: "Meets English language requirements", Met: assessor.VerdictNo},
			},
		},
	}

	grouped := GroupGeneratedByCategory(GenerateFromAssessments(input, profile))
	assert.NotEmpty(t, grouped["English"])
}
