package assessor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func baseProfile() models.Profile {
	return models.Profile{
		Slug:            "test-applicant",
		Name:            "Test Applicant",
		Age:             30,
		Country:         "Brazil",
		EnglishLevel:    models.EnglishAdvanced,
		EducationLevel:  models.EducationBachelor,
		YearsExperience: 5,
		CurrentJobTitle: "Software Engineer",
		YearlySalaryNZD: 85000,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestAssess_AgeCeiling(t *testing.T) {
	tests := []struct {
		name      string
		age       int
		criterion string
		want      Verdict
	}{
		{"at the ceiling", 55, "Is under 55 years old", VerdictYes},
		{"one over the ceiling", 56, "Is under 55 years old", VerdictNo},
		{"or-younger phrasing at boundary", 55, "Is 55 years old or younger", VerdictYes},
		{"well under higher ceiling", 40, "Is under 65 years old", VerdictYes},
		{"over higher ceiling", 66, "Is under 65 years old", VerdictNo},
	}

	a := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := baseProfile()
			profile.Age = tt.age

			result := a.Assess(profile, tt.criterion)

			assert.Equal(t, tt.want, result.Met)
			assert.Equal(t, tt.criterion, result.Criterion)
			assert.NotEmpty(t, result.Reasoning)
		})
	}
}

func TestAssess_AgeRange(t *testing.T) {
	a := New()

	profile := baseProfile()
	profile.Age = 25
	result := a.Assess(profile, "Must be aged between 18 and 30")
	assert.Equal(t, VerdictYes, result.Met)

	profile.Age = 31
	result = a.Assess(profile, "Must be aged between 18 and 30")
	assert.Equal(t, VerdictNo, result.Met)
}

func TestAssess_English(t *testing.T) {
	tests := []struct {
		name      string
		level     models.EnglishLevel
		criterion string
		want      Verdict
	}{
		{"advanced meets generic english", models.EnglishAdvanced, "Meets English language requirements", VerdictYes},
		{"fluent meets generic english", models.EnglishFluent, "Meets English language requirements", VerdictYes},
		{"basic is unknown for generic english", models.EnglishBasic, "Meets English language requirements", VerdictUnknown},
		{"intermediate passes IELTS 4 bar", models.EnglishIntermediate, "English level of IELTS 4 or equivalent", VerdictYes},
		{"basic fails IELTS 4 bar", models.EnglishBasic, "English level of IELTS 4 or equivalent", VerdictNo},
		{"intermediate fails advanced bar", models.EnglishIntermediate, "Has advanced English proficiency", VerdictNo},
		{"advanced passes advanced bar", models.EnglishAdvanced, "Has advanced English proficiency", VerdictYes},
	}

	a := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := baseProfile()
			profile.EnglishLevel = tt.level

			result := a.Assess(profile, tt.criterion)
			assert.Equal(t, tt.want, result.Met)
		})
	}
}

func TestAssess_MedianWage(t *testing.T) {
	a := New()

	// 45/h over 40h weeks and 52 weeks is $93,600 a year.
	profile := baseProfile()
	profile.YearlySalaryNZD = 0
	profile.HourlyRateNZD = 45

	result := a.Assess(profile, "Paid at or above the median wage")
	assert.Equal(t, VerdictYes, result.Met)
	assert.Contains(t, result.Reasoning, "$93,600")

	result = a.Assess(profile, "Paid at least 1.5 times the median wage")
	assert.Equal(t, VerdictNo, result.Met)
	assert.Contains(t, result.Reasoning, "$105,000")

	profile.HourlyRateNZD = 0
	result = a.Assess(profile, "Paid at or above the median wage")
	assert.Equal(t, VerdictUnknown, result.Met)
}

func TestAssess_Employment(t *testing.T) {
	a := New()

	employed := baseProfile()
	result := a.Assess(employed, "Has a job offer from an accredited employer")
	assert.Equal(t, VerdictUnknown, result.Met, "employment exists but accreditation is unverified")

	unemployed := baseProfile()
	unemployed.CurrentJobTitle = "Unemployed"
	result = a.Assess(unemployed, "Has a job offer from an accredited employer")
	assert.Equal(t, VerdictNo, result.Met)

	result = a.Assess(employed, "Has current employment in New Zealand")
	assert.Equal(t, VerdictYes, result.Met)
}

func TestAssess_HealthAndCharacter(t *testing.T) {
	a := New()
	profile := baseProfile()

	result := a.Assess(profile, "Meets health and character requirements")
	assert.Equal(t, VerdictYes, result.Met)
}

func TestAssess_UnknownFallback(t *testing.T) {
	a := New()

	result := a.Assess(baseProfile(), "Owns a unicycle")
	assert.Equal(t, VerdictUnknown, result.Met)
	assert.Equal(t, "Insufficient information to assess this requirement", result.Reasoning)
}

// ==========================
// Configuration Tests
// ==========================

func TestAssess_Options(t *testing.T) {
	a := New(WithMedianWage(100000), WithExperienceThreshold(10))

	profile := baseProfile()
	profile.YearlySalaryNZD = 85000

	result := a.Assess(profile, "Paid at or above the median wage")
	assert.Equal(t, VerdictNo, result.Met)

	result = a.Assess(profile, "Has relevant skilled work experience")
	assert.Equal(t, VerdictUnknown, result.Met, "5 years is below the raised threshold")
}

func TestAssess_SkilledMultiplierOption(t *testing.T) {
	a := New(WithMedianWage(60000), WithSkilledMultiplier(2))

	profile := baseProfile()
	profile.YearlySalaryNZD = 110000

	result := a.Assess(profile, "Paid at least 1.5 times the median wage")
	assert.Equal(t, VerdictNo, result.Met, "doubled multiplier raises the bar to $120,000")

	profile.YearlySalaryNZD = 125000
	result = a.Assess(profile, "Paid at least 1.5 times the median wage")
	assert.Equal(t, VerdictYes, result.Met)
}

func TestAddRule(t *testing.T) {
	a := New()
	a.AddRule("unicycle",
		func(c string) bool { return c == "owns a unicycle" },
		func(p models.Profile, c string) (Verdict, string) { return VerdictYes, "Unicycle verified" },
	)

	result := a.Assess(baseProfile(), "Owns a unicycle")
	assert.Equal(t, VerdictYes, result.Met)
	assert.Equal(t, "Unicycle verified", result.Reasoning)
}

func TestAssessAll_PreservesOrder(t *testing.T) {
	a := New()
	criteria := []string{
		"Is under 55 years old",
		"Meets health and character requirements",
		"Owns a unicycle",
	}

	results := a.AssessAll(baseProfile(), criteria)

	assert.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, criteria[i], r.Criterion)
	}
	assert.Equal(t, VerdictUnknown, results[2].Met)
}
