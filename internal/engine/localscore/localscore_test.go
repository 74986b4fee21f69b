package localscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AirieImmigration/pathway-engine/internal/engine/assessor"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func strongProfile() models.Profile {
	return models.Profile{
		Age:             30,
		EnglishLevel:    models.EnglishFluent,
		EducationLevel:  models.EducationMaster,
		YearsExperience: 6,
		CurrentJobTitle: "Registered Nurse",
		YearlySalaryNZD: 110000,
	}
}

func weakProfile() models.Profile {
	return models.Profile{
		Age:             45,
		EnglishLevel:    models.EnglishBasic,
		EducationLevel:  models.EducationHighSchool,
		YearsExperience: 0,
		CurrentJobTitle: "Unemployed",
	}
}

func pathwaySteps() []models.PlanStep {
	return models.StepsFromSlugs([]string{
		"Accredited Employer Work Visa",
		"Skilled Migrant Category Resident Visa",
	})
}

// ==========================
// Pathway Analysis Tests
// ==========================

func TestAnalyzePathway(t *testing.T) {
	a := assessor.New()

	analyses := AnalyzePathway(a, strongProfile(), pathwaySteps())

	require.Len(t, analyses, 2)
	assert.Equal(t, "Accredited Employer Work Visa", analyses[0].StepName)
	assert.NotEmpty(t, analyses[0].Assessments)
	assert.Greater(t, analyses[0].Score, 0)

	weak := AnalyzePathway(a, weakProfile(), pathwaySteps())
	assert.Less(t, weak[0].Score, analyses[0].Score)
	assert.NotEmpty(t, weak[0].UnmetCriteria)
}

func TestAnalyzePathway_UnknownStepScoresZero(t *testing.T) {
	a := assessor.New()
	steps := models.StepsFromSlugs([]string{"Mystery Step"})

	analyses := AnalyzePathway(a, strongProfile(), steps)

	require.Len(t, analyses, 1)
	assert.Equal(t, 0, analyses[0].Score)
	assert.Empty(t, analyses[0].Assessments)
	assert.Empty(t, analyses[0].UnmetCriteria)
}

func TestAllUnmetCriteria_Deduplicates(t *testing.T) {
	analyses := []Analysis{
		{StepName: "a", UnmetCriteria: []string{"x", "y"}},
		{StepName: "b", UnmetCriteria: []string{"y", "z"}},
	}

	assert.Equal(t, []string{"x", "y", "z"}, AllUnmetCriteria(analyses))
	assert.Empty(t, AllUnmetCriteria(nil))
}

func TestStepCriteria_CoversKnownSteps(t *testing.T) {
	for _, step := range []string{
		"Accredited Employer Work Visa",
		"Work to Residence Visa",
		"Skilled Migrant Category Resident Visa",
		"New Zealand Citizenship",
		"Student Visa",
		"Partner of a New Zealander Visitor Visa",
	} {
		assert.NotEmpty(t, StepCriteria(step), "criteria missing for %s", step)
	}
}

func TestStepCriteria_ResolvesCatalogSlugs(t *testing.T) {
	assert.Equal(t,
		StepCriteria("Accredited Employer Work Visa"),
		StepCriteria("accredited-employer-work-visa"))
	assert.Equal(t,
		StepCriteria("Skilled Migrant Category Resident Visa"),
		StepCriteria("skilled-migrant"))
	assert.Nil(t, StepCriteria("no-such-visa"))
}

// ==========================
// Local Score Tests
// ==========================

func TestCalculateLocalScores_CompletedTasksImprove(t *testing.T) {
	a := assessor.New()
	profile := weakProfile()
	steps := pathwaySteps()

	before := CalculateLocalScores(a, profile, steps, nil)
	after := CalculateLocalScores(a, profile, steps, []string{
		"improve-english-advanced",
		"get-job-offer",
	})

	require.Len(t, before, 2)
	require.Len(t, after, 2)
	assert.GreaterOrEqual(t, after[0].Score, before[0].Score)
	assert.Greater(t, after[0].Score, before[0].Score, "english and employment both feed the first step")
}

func TestCompareScores(t *testing.T) {
	previous := []LocalVisaScore{
		{StepName: "a", Score: 40},
		{StepName: "b", Score: 60},
	}
	current := []LocalVisaScore{
		{StepName: "a", Score: 55},
		{StepName: "b", Score: 60},
		{StepName: "c", Score: 10},
	}

	compared := CompareScores(current, previous)

	require.Len(t, compared, 3)
	assert.Equal(t, 40, compared[0].PreviousScore)
	assert.True(t, compared[0].Improved)
	assert.False(t, compared[1].Improved, "equal scores are not an improvement")
	assert.Equal(t, 0, compared[2].PreviousScore, "steps new to the comparison baseline at zero")
	assert.True(t, compared[2].Improved)
}

func TestScoreChangeForTask(t *testing.T) {
	a := assessor.New()
	profile := weakProfile()
	steps := pathwaySteps()

	before, after := ScoreChangeForTask(a, profile, steps, "improve-english-advanced", nil)

	require.Len(t, before, len(after))
	assert.GreaterOrEqual(t, after[0].Score, before[0].Score)
}
