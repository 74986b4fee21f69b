// internal/engine/assessor/rules.go
package assessor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/AirieImmigration/pathway-engine/internal/models"
)

const (
	defaultMedianWageNZD     = 70000
	defaultExperienceYears   = 2
	defaultSkilledMultiplier = 1.5
)

// rule is one (predicate, evaluator) pair of the decision table. An
// evaluator may return an empty verdict to decline, letting matching fall
// through to more general rules.
type rule struct {
	name     string
	match    func(criterion string) bool
	evaluate func(p models.Profile, criterion string) (Verdict, string)
}

func has(criterion string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(criterion, n) {
			return true
		}
	}
	return false
}

var (
	ageBetweenRe = regexp.MustCompile(`aged? between (\d+) and (\d+)`)
	ageCeilingRe = regexp.MustCompile(`(?:under|≤)\s*(\d+)`)
)

func englishOrdinal(level models.EnglishLevel) int {
	switch level {
	case models.EnglishBasic:
		return 1
	case models.EnglishIntermediate:
		return 2
	case models.EnglishAdvanced:
		return 3
	case models.EnglishFluent:
		return 4
	default:
		return 0
	}
}

func educationOrdinal(level models.EducationLevel) int {
	switch level {
	case models.EducationHighSchool:
		return 1
	case models.EducationBachelor:
		return 3
	case models.EducationMaster:
		return 4
	case models.EducationPhD:
		return 5
	default:
		return 0
	}
}

// formatNZD renders an amount as "$93,600".
func formatNZD(amount float64) string {
	n := int64(amount)
	s := strconv.FormatInt(n, 10)
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

func hasJob(p models.Profile) bool {
	return p.CurrentJobTitle != "" && p.CurrentJobTitle != "Unemployed"
}

func yesNo(pass bool) Verdict {
	if pass {
		return VerdictYes
	}
	return VerdictNo
}

// defaultRules builds the ordered decision table. Specific phrasings
// (wage multiples, IELTS bands, named countries) come before the generic
// keyword rules that would otherwise shadow them.
func (a *Assessor) defaultRules() []rule {
	return []rule{
		{
			name: "age-range",
			match: func(c string) bool {
				return ageBetweenRe.MatchString(c) || has(c, "18-30", "under 31", "18 to 30")
			},
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				lo, hi := 18, 30
				if m := ageBetweenRe.FindStringSubmatch(c); m != nil {
					lo, _ = strconv.Atoi(m[1])
					hi, _ = strconv.Atoi(m[2])
				}
				if p.Age >= lo && p.Age <= hi {
					return VerdictYes, fmt.Sprintf("Age %d meets the %d-%d requirement", p.Age, lo, hi)
				}
				return VerdictNo, fmt.Sprintf("Age %d does not meet the %d-%d requirement", p.Age, lo, hi)
			},
		},
		{
			name: "age-ceiling",
			match: func(c string) bool {
				return ageCeilingRe.MatchString(c) && has(c, "years old", "year old", "age", "≤") ||
					has(c, "55 years old or younger")
			},
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				ceiling := 55
				if m := ageCeilingRe.FindStringSubmatch(c); m != nil {
					n, _ := strconv.Atoi(m[1])
					// "under 56" phrasing means the same inclusive-55 bar.
					if has(c, "under "+m[1]) && !has(c, "or younger", "≤") && n == 56 {
						n = 55
					}
					ceiling = n
				}
				if p.Age <= ceiling {
					return VerdictYes, fmt.Sprintf("Age %d meets the under %d requirement", p.Age, ceiling)
				}
				return VerdictNo, fmt.Sprintf("Age %d exceeds the under %d requirement", p.Age, ceiling)
			},
		},
		{
			name:  "nationality-open",
			match: func(c string) bool { return has(c, "nationality", "citizen") && has(c, "all nationalities", "eligible") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictYes, "Nationality requirement generally met"
			},
		},
		{
			name:  "nationality-exclusion",
			match: func(c string) bool { return has(c, "nationality", "citizen") && has(c, "except citizens of australia") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				if strings.EqualFold(p.Country, "australia") {
					return VerdictNo, "Australian citizens not eligible"
				}
				return VerdictYes, "Nationality eligible"
			},
		},
		{
			name:  "nationality-specific",
			match: func(c string) bool { return has(c, "citizen of france") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				if strings.EqualFold(p.Country, "france") {
					return VerdictYes, fmt.Sprintf("Must be French citizen. Current country: %s", p.Country)
				}
				return VerdictNo, fmt.Sprintf("Must be French citizen. Current country: %s", p.Country)
			},
		},
		{
			name:  "living-costs",
			match: func(c string) bool { return has(c, "enough money", "living costs") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictUnknown, "Financial capacity assessment needed - verify funds for living costs"
			},
		},
		{
			name:  "medical-insurance",
			match: func(c string) bool { return has(c, "medical insurance") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictUnknown, "Medical insurance requirement - ensure coverage for stay duration"
			},
		},
		{
			name:  "employment",
			match: func(c string) bool { return has(c, "job offer", "employment", "accredited employer") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				if has(c, "accredited employer") {
					if hasJob(p) {
						return VerdictUnknown, "Has employment - need to verify employer accreditation"
					}
					return VerdictNo, "No current employment"
				}
				if hasJob(p) {
					return VerdictYes, "Currently employed"
				}
				return VerdictUnknown, "Employment status unclear"
			},
		},
		{
			name:  "points-system",
			match: func(c string) bool { return has(c, "points system", "skilled residence points") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictUnknown, "Points calculation required based on skills, qualifications and experience"
			},
		},
		{
			name:  "median-wage",
			match: func(c string) bool { return has(c, "median wage") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				salary := p.EffectiveYearlySalary()
				if salary <= 0 {
					return VerdictUnknown, "Salary information needed to assess wage requirement"
				}
				required := a.medianWageNZD
				if has(c, "1.5 times") {
					required = a.medianWageNZD * a.skilledMultiplier
				}
				if salary >= required {
					return VerdictYes, fmt.Sprintf("Current salary %s meets required %s", formatNZD(salary), formatNZD(required))
				}
				return VerdictNo, fmt.Sprintf("Current salary %s below required %s", formatNZD(salary), formatNZD(required))
			},
		},
		{
			name: "english",
			match: func(c string) bool {
				return has(c, "english") && !has(c, "no english requirement")
			},
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				level := englishOrdinal(p.EnglishLevel)
				if has(c, "ielts 4", "required english level") {
					verdict := yesNo(level >= 2)
					return verdict, fmt.Sprintf("English level: %s against IELTS 4 equivalent", p.EnglishLevel)
				}
				if has(c, "advanced") {
					verdict := yesNo(level >= 3)
					return verdict, fmt.Sprintf("English level: %s against advanced requirement", p.EnglishLevel)
				}
				if level >= 3 {
					return VerdictYes, fmt.Sprintf("English level: %s", p.EnglishLevel)
				}
				return VerdictUnknown, fmt.Sprintf("English level: %s - may need testing for verification", p.EnglishLevel)
			},
		},
		{
			name:  "qualifications",
			match: func(c string) bool { return has(c, "qualification", "degree") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				if educationOrdinal(p.EducationLevel) >= 3 {
					return VerdictYes, fmt.Sprintf("Education: %s meets requirements", p.EducationLevel)
				}
				return VerdictUnknown, fmt.Sprintf("Education: %s may need assessment", p.EducationLevel)
			},
		},
		{
			name:  "funds",
			match: func(c string) bool { return has(c, "funds", "financial", "investment") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				if has(c, "million") {
					return VerdictUnknown, "Investment capacity not specified in profile"
				}
				return VerdictUnknown, "Financial capacity assessment needed"
			},
		},
		{
			name:  "experience",
			match: func(c string) bool { return has(c, "experience", "skilled", "work") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				if p.YearsExperience >= a.experienceThreshold {
					return VerdictYes, fmt.Sprintf("%d years of experience", p.YearsExperience)
				}
				return VerdictUnknown, "Work experience not detailed"
			},
		},
		{
			name:  "residency-history",
			match: func(c string) bool { return has(c, "resident visa", "held", "present in nz") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictUnknown, "Requires future visa status tracking"
			},
		},
		{
			name:  "character",
			match: func(c string) bool { return has(c, "character", "breaking the law", "criminal") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictYes, "Assumed to meet standard character requirements"
			},
		},
		{
			name:  "health",
			match: func(c string) bool { return has(c, "health") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictYes, "Assumed to meet standard health requirements"
			},
		},
		{
			name:  "visa-restrictions",
			match: func(c string) bool { return has(c, "no specific past or future visa restrictions") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictYes, "No visa restrictions apply"
			},
		},
		{
			name: "working-holiday-history",
			match: func(c string) bool {
				return has(c, "working holiday") && has(c, "not had") || has(c, "have not had")
			},
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictUnknown, "Working holiday history not specified in profile"
			},
		},
		{
			name:  "departure-plans",
			match: func(c string) bool { return has(c, "plans to leave", "leave new zealand") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictUnknown, "Departure plans depend on visa purpose and future goals"
			},
		},
		{
			name:  "resident-visa-tenure",
			match: func(c string) bool { return has(c, "already hold a resident visa", "held it for at least 2 years") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictUnknown, "Requires tracking of previous resident visa status"
			},
		},
		{
			name:  "commitment",
			match: func(c string) bool { return has(c, "commitment to new zealand", "184 days", "tax residence") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictUnknown, "Commitment demonstration depends on previous residency history"
			},
		},
		{
			name:  "business-ownership",
			match: func(c string) bool { return has(c, "established a business", "owning property") },
			evaluate: func(p models.Profile, c string) (Verdict, string) {
				return VerdictUnknown, "Business/property ownership status not specified in profile"
			},
		},
	}
}
