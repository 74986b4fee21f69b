// internal/engine/scoring/chain.go
package scoring

// ApplyChainRule post-processes an ordered pathway's scores so a later step
// never looks more likely than the one before it: each score is clamped to
// the already-adjusted previous score minus one, and a zero propagates
// forward as zero. The first element is untouched. Input order is the
// pathway order; the cascade runs left to right.
func ApplyChainRule(scores []VisaScore) []VisaScore {
	if len(scores) == 0 {
		return scores
	}

	chained := make([]VisaScore, len(scores))
	copy(chained, scores)

	for i := 1; i < len(chained); i++ {
		prev := chained[i-1].Score
		if prev == 0 {
			chained[i].Score = 0
			continue
		}
		maxAllowed := prev - 1
		if maxAllowed < 0 {
			maxAllowed = 0
		}
		if chained[i].Score > maxAllowed {
			chained[i].Score = maxAllowed
		}
	}

	return chained
}
