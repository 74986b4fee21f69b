// internal/engine/scoring/requirements.go
package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// assumedSuccessScore is the placeholder for visas with no typed
// requirement list: scored optimistically rather than excluded.
const assumedSuccessScore = 95

// RequirementResult is the boolean outcome of one typed requirement. This
// is a closed two-state model, deliberately distinct from the assessor's
// tri-state verdicts; the two engines serve different call sites.
type RequirementResult struct {
	Requirement models.Requirement `json:"requirement"`
	Met         bool               `json:"met"`
	Reason      string             `json:"reason"`
}

// VisaScore is the structured scoring outcome for one visa.
type VisaScore struct {
	VisaSlug       string              `json:"visaSlug"`
	Score          int                 `json:"score"`
	Requirements   []RequirementResult `json:"requirements,omitempty"`
	HasHardBlocker bool                `json:"hasHardBlocker"`
}

// EvaluateRequirement dispatches on the requirement key to a dedicated
// evaluator. Total: unrecognized keys degrade to a truthiness check on the
// named profile field, never an error.
func EvaluateRequirement(req models.Requirement, profile models.Profile) RequirementResult {
	met := false
	reason := ""

	switch req.Key {
	case "age":
		if req.Threshold > 0 {
			met = float64(profile.Age) < req.Threshold
			if met {
				reason = fmt.Sprintf("Age %d under %d", profile.Age, int(req.Threshold))
			} else {
				reason = fmt.Sprintf("Age %d ≥ %d", profile.Age, int(req.Threshold))
			}
		} else {
			reason = "Age not provided"
		}

	case "englishLevel":
		idx := englishIndex(profile.EnglishLevel)
		switch {
		case strings.Contains(req.Label, "Advanced/Fluent"):
			met = idx >= 2
			if met {
				reason = fmt.Sprintf("English: %s", profile.EnglishLevel)
			} else {
				reason = fmt.Sprintf("English: %s (need advanced+)", profile.EnglishLevel)
			}
		case strings.Contains(req.Label, "Intermediate+"):
			met = idx >= 1
			if met {
				reason = fmt.Sprintf("English: %s", profile.EnglishLevel)
			} else {
				reason = fmt.Sprintf("English: %s (need intermediate+)", profile.EnglishLevel)
			}
		}

	case "yearsExperience":
		if req.Threshold > 0 {
			met = float64(profile.YearsExperience) >= req.Threshold
			if met {
				reason = fmt.Sprintf("%d years experience", profile.YearsExperience)
			} else {
				reason = fmt.Sprintf("%d years < %d required", profile.YearsExperience, int(req.Threshold))
			}
		} else {
			reason = "Experience not provided"
		}

	case "yearlySalaryNZD":
		salary := profile.EffectiveYearlySalary()
		if salary > 0 && req.Threshold > 0 {
			met = salary >= req.Threshold
			if met {
				reason = fmt.Sprintf("Salary: %s", nzd(salary))
			} else {
				reason = fmt.Sprintf("Salary: %s < %s", nzd(salary), nzd(req.Threshold))
			}
		} else {
			reason = "Salary not provided"
		}

	case "educationLevel":
		idx := educationIndex(profile.EducationLevel)
		switch {
		case strings.Contains(req.Label, "Bachelor or higher"):
			met = idx >= 1
			if met {
				reason = fmt.Sprintf("Education: %s", formatEducation(profile.EducationLevel))
			} else {
				reason = fmt.Sprintf("Education: %s (need bachelor+)", formatEducation(profile.EducationLevel))
			}
		case strings.Contains(req.Label, "qualification offer"):
			// Any recognized education level can take up a study offer.
			met = idx >= 0
			if met {
				reason = "Education suitable for study"
			} else {
				reason = "Education not provided"
			}
		}

	case "funds":
		met = profile.YearlySalaryNZD > 0 || profile.HourlyRateNZD > 0
		if met {
			reason = "Sufficient funds evidence"
		} else {
			reason = "No financial information provided"
		}

	default:
		if attrKey, ok := strings.CutPrefix(req.Key, "attributes."); ok {
			if attrKey == "nzRegistration" {
				met = profile.Attribute(attrKey) == true
				if met {
					reason = "NZ professional registration"
				} else {
					reason = "No NZ professional registration"
				}
			} else {
				met = profile.AttributeBool(attrKey)
				if met {
					reason = fmt.Sprintf("Has %s", attrKey)
				} else {
					reason = fmt.Sprintf("Missing %s", attrKey)
				}
			}
		} else {
			reason = fmt.Sprintf("Missing: %s", req.Label)
		}
	}

	return RequirementResult{Requirement: req, Met: met, Reason: reason}
}

// ScoreRequirements computes the weighted structured score for one visa.
// Any unmet hard blocker forces score 0 and short-circuits the weighting;
// otherwise score = round5(100 * met weight / total weight). Zero total
// weight resolves to 0, never a division failure. An empty requirement
// list scores the assumed-success placeholder.
func ScoreRequirements(profile models.Profile, visaSlug string, requirements []models.Requirement) VisaScore {
	if len(requirements) == 0 {
		return VisaScore{VisaSlug: visaSlug, Score: assumedSuccessScore}
	}

	results := make([]RequirementResult, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, EvaluateRequirement(req, profile))
	}

	for _, r := range results {
		if r.Requirement.HardBlocker && !r.Met {
			return VisaScore{
				VisaSlug:       visaSlug,
				Score:          0,
				Requirements:   results,
				HasHardBlocker: true,
			}
		}
	}

	totalWeight := 0.0
	metWeight := 0.0
	for _, r := range results {
		totalWeight += r.Requirement.Weight
		if r.Met {
			metWeight += r.Requirement.Weight
		}
	}

	score := 0
	if totalWeight > 0 {
		score = RoundToNearest5(metWeight / totalWeight * 100)
	}

	return VisaScore{
		VisaSlug:     visaSlug,
		Score:        score,
		Requirements: results,
	}
}

// RoundToNearest5 rounds to the nearest multiple of 5, ties away from zero.
func RoundToNearest5(n float64) int {
	return int(math.Round(n/5)) * 5
}

// englishIndex is the structured scorer's zero-based proficiency ordinal.
func englishIndex(level models.EnglishLevel) int {
	order := []models.EnglishLevel{
		models.EnglishBasic,
		models.EnglishIntermediate,
		models.EnglishAdvanced,
		models.EnglishFluent,
	}
	for i, l := range order {
		if l == level {
			return i
		}
	}
	return -1
}

func educationIndex(level models.EducationLevel) int {
	order := []models.EducationLevel{
		models.EducationHighSchool,
		models.EducationBachelor,
		models.EducationMaster,
		models.EducationPhD,
	}
	for i, l := range order {
		if l == level {
			return i
		}
	}
	return -1
}

func formatEducation(level models.EducationLevel) string {
	switch level {
	case models.EducationHighSchool:
		return "High School"
	case models.EducationBachelor:
		return "Bachelor's"
	case models.EducationMaster:
		return "Master's"
	case models.EducationPhD:
		return "PhD"
	default:
		return string(level)
	}
}

// nzd renders an amount as "$93,600".
func nzd(amount float64) string {
	s := strconv.FormatInt(int64(amount), 10)
	var b strings.Builder
	b.WriteString("$")
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteString(",")
		}
		b.WriteRune(d)
	}
	return b.String()
}
