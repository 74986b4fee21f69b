// internal/engine/scoring/aggregate.go
package scoring

import (
	"math"

	"github.com/AirieImmigration/pathway-engine/internal/engine/assessor"
)

// Strategy selects how a list of tri-state assessments reduces to a single
// 0-100 score. Both strategies are deterministic and order-independent.
type Strategy string

const (
	// StrategyRatio scores round(100 * yes / total).
	StrategyRatio Strategy = "ratio"
	// StrategyWeighted scores yes=1, unknown=0.5, no=0.
	StrategyWeighted Strategy = "weighted"
)

// Aggregate reduces assessments to a success percentage using the given
// strategy. An empty list scores 0 under either strategy. Unrecognized
// strategies fall back to the weighted scheme.
func Aggregate(assessments []assessor.Assessment, strategy Strategy) int {
	if len(assessments) == 0 {
		return 0
	}

	switch strategy {
	case StrategyRatio:
		met := 0
		for _, a := range assessments {
			if a.Met == assessor.VerdictYes {
				met++
			}
		}
		return int(math.Round(float64(met) / float64(len(assessments)) * 100))

	default:
		total := 0.0
		for _, a := range assessments {
			switch a.Met {
			case assessor.VerdictYes:
				total += 1
			case assessor.VerdictUnknown:
				total += 0.5
			}
		}
		return int(math.Round(total / float64(len(assessments)) * 100))
	}
}

// UnmetCriteria returns criterion texts assessed as a hard no.
func UnmetCriteria(assessments []assessor.Assessment) []string {
	var unmet []string
	for _, a := range assessments {
		if a.Met == assessor.VerdictNo {
			unmet = append(unmet, a.Criterion)
		}
	}
	return unmet
}

// UnresolvedCriteria returns criterion texts assessed as no or unknown,
// the inputs the task mapper works from.
func UnresolvedCriteria(assessments []assessor.Assessment) []string {
	var out []string
	for _, a := range assessments {
		if a.Met == assessor.VerdictNo || a.Met == assessor.VerdictUnknown {
			out = append(out, a.Criterion)
		}
	}
	return out
}
