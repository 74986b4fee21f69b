// internal/service/compute-pathway/validation.go
package computepathway

import (
	"encoding/json"

	"github.com/AirieImmigration/pathway-engine/internal/common/validation"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

func GetProfileSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"slug": {
				Type:        "string",
				Description: "Profile identifier",
				MaxLength:   intPtr(100),
			},
			"name": {
				Type:        "string",
				Description: "Applicant display name",
				MaxLength:   intPtr(200),
			},
			"age": {
				Type:        "number",
				Description: "Applicant age in years",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(120),
			},
			"country": {
				Type:        "string",
				Description: "Country of citizenship",
				MaxLength:   intPtr(100),
			},
			"englishLevel": {
				Type:        "string",
				Description: "Self-reported English proficiency",
				Pattern:     strPtr("^(basic|intermediate|advanced|fluent)?$"),
			},
			"educationLevel": {
				Type:        "string",
				Description: "Highest completed qualification",
				Pattern:     strPtr("^(high_school|bachelor|master|phd)?$"),
			},
			"yearsExperience": {
				Type:        "number",
				Description: "Years of relevant work experience",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(60),
			},
			"currentJobTitle": {
				Type:        "string",
				Description: "Current occupation (optional)",
				MaxLength:   intPtr(200),
			},
			"jobDescription": {
				Type:        "string",
				Description: "Free-text description of current work (optional)",
				MaxLength:   intPtr(2000),
			},
			"currentVisaSlug": {
				Type:        "string",
				Description: "Slug of the visa currently held (optional)",
				MaxLength:   intPtr(100),
			},
			"hourlyRateNZD": {
				Type:        "number",
				Description: "Hourly pay rate in NZD (optional)",
				Minimum:     floatPtr(0),
			},
			"yearlySalaryNZD": {
				Type:        "number",
				Description: "Yearly salary in NZD (optional)",
				Minimum:     floatPtr(0),
			},
			"attributes": {
				Type:        "object",
				Description: "Open-ended assessment attributes (optional)",
			},
			"goal": {
				Type:        "object",
				Description: "Stated immigration objective",
			},
		},
		AdditionalProperties: false,
	}
}

// validateProfile checks the profile against the schema. The profile is
// round-tripped through JSON so the schema sees the same shape the HTTP
// layer decodes.
func validateProfile(profile models.Profile) *validation.ValidationResult {
	raw, err := json.Marshal(profile)
	if err != nil {
		return &validation.ValidationResult{
			Valid:  false,
			Errors: []validation.ValidationError{{Field: "profile", Message: err.Error(), Code: "INVALID_TYPE"}},
		}
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return &validation.ValidationResult{
			Valid:  false,
			Errors: []validation.ValidationError{{Field: "profile", Message: err.Error(), Code: "INVALID_TYPE"}},
		}
	}

	return validation.ValidateInput(fields, GetProfileSchema())
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func strPtr(v string) *string {
	return &v
}
