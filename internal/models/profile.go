// internal/models/profile.go
package models

// EnglishLevel is the self-reported English proficiency ordinal.
type EnglishLevel string

const (
	EnglishBasic        EnglishLevel = "basic"
	EnglishIntermediate EnglishLevel = "intermediate"
	EnglishAdvanced     EnglishLevel = "advanced"
	EnglishFluent       EnglishLevel = "fluent"
)

// EducationLevel is the highest completed qualification ordinal.
type EducationLevel string

const (
	EducationHighSchool EducationLevel = "high_school"
	EducationBachelor   EducationLevel = "bachelor"
	EducationMaster     EducationLevel = "master"
	EducationPhD        EducationLevel = "phd"
)

// Goal is the applicant's stated immigration objective.
type Goal struct {
	Summary        string `json:"summary"`
	TargetVisaSlug string `json:"targetVisaSlug,omitempty"`
}

// Profile is the applicant's self-reported attributes used as assessment
// input. Profiles are immutable values: task transforms and edit flows
// produce a replacement, never an in-place mutation.
type Profile struct {
	Slug            string                 `json:"slug"`
	Name            string                 `json:"name"`
	Age             int                    `json:"age"`
	Country         string                 `json:"country"`
	EnglishLevel    EnglishLevel           `json:"englishLevel"`
	EducationLevel  EducationLevel         `json:"educationLevel"`
	YearsExperience int                    `json:"yearsExperience"`
	CurrentJobTitle string                 `json:"currentJobTitle,omitempty"`
	JobDescription  string                 `json:"jobDescription,omitempty"`
	CurrentVisaSlug string                 `json:"currentVisaSlug,omitempty"`
	HourlyRateNZD   float64                `json:"hourlyRateNZD,omitempty"`
	YearlySalaryNZD float64                `json:"yearlySalaryNZD,omitempty"`
	Attributes      map[string]interface{} `json:"attributes,omitempty"`
	Goal            Goal                   `json:"goal"`
}

// EffectiveYearlySalary returns the yearly salary, deriving it from the
// hourly rate (40h weeks, 52 weeks) when only an hourly figure is known.
// Returns 0 when no compensation data exists at all.
func (p Profile) EffectiveYearlySalary() float64 {
	if p.YearlySalaryNZD > 0 {
		return p.YearlySalaryNZD
	}
	if p.HourlyRateNZD > 0 {
		return p.HourlyRateNZD * 40 * 52
	}
	return 0
}

// Attribute returns the named open-ended attribute, or nil when unset.
func (p Profile) Attribute(key string) interface{} {
	if p.Attributes == nil {
		return nil
	}
	return p.Attributes[key]
}

// AttributeBool reports whether the named attribute is set and truthy.
func (p Profile) AttributeBool(key string) bool {
	switch v := p.Attribute(key).(type) {
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}
