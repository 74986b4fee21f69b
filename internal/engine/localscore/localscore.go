// internal/engine/localscore/localscore.go
package localscore

import (
	"github.com/AirieImmigration/pathway-engine/internal/engine/assessor"
	"github.com/AirieImmigration/pathway-engine/internal/engine/tasks"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// LocalVisaScore is the recomputed score for one pathway step, with room
// for the score it is being compared against.
type LocalVisaScore struct {
	StepName      string `json:"stepName"`
	Score         int    `json:"score"`
	PreviousScore int    `json:"previousScore,omitempty"`
	Improved      bool   `json:"improved"`
}

// CalculateLocalScores applies the completed tasks to the profile and
// scores every pathway step against the result. Improved is left false;
// CompareScores fills it in against a baseline.
func CalculateLocalScores(a *assessor.Assessor, profile models.Profile, steps []models.PlanStep, completedTaskIDs []string) []LocalVisaScore {
	modified := tasks.ApplyCompleted(profile, completedTaskIDs)

	analyses := AnalyzePathway(a, modified, steps)
	scores := make([]LocalVisaScore, 0, len(analyses))
	for _, analysis := range analyses {
		scores = append(scores, LocalVisaScore{
			StepName: analysis.StepName,
			Score:    analysis.Score,
		})
	}
	return scores
}

// CompareScores annotates current scores with the matching previous score
// and whether the step improved. Steps absent from the baseline compare
// against zero.
func CompareScores(current, previous []LocalVisaScore) []LocalVisaScore {
	byStep := make(map[string]int, len(previous))
	for _, p := range previous {
		byStep[p.StepName] = p.Score
	}

	compared := make([]LocalVisaScore, 0, len(current))
	for _, c := range current {
		prev := byStep[c.StepName]
		compared = append(compared, LocalVisaScore{
			StepName:      c.StepName,
			Score:         c.Score,
			PreviousScore: prev,
			Improved:      c.Score > prev,
		})
	}
	return compared
}

// ScoreChangeForTask scores the pathway before and after completing one
// additional task on top of the tasks already done.
func ScoreChangeForTask(a *assessor.Assessor, profile models.Profile, steps []models.PlanStep, taskID string, completedTaskIDs []string) (before, after []LocalVisaScore) {
	before = CalculateLocalScores(a, profile, steps, completedTaskIDs)
	after = CalculateLocalScores(a, profile, steps, append(append([]string{}, completedTaskIDs...), taskID))
	return before, after
}
