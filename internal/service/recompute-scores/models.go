// internal/service/recompute-scores/models.go
package recomputescores

import (
	"github.com/AirieImmigration/pathway-engine/internal/engine/localscore"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// Input is one score recomputation request. ToggleTaskID flips a single
// task in or out of the plan's completed set; CompletedTaskIDs replaces
// the set wholesale. Profile is optional when a plan holds one.
type Input struct {
	PlanID           string          `json:"planId"`
	Profile          *models.Profile `json:"profile,omitempty"`
	CompletedTaskIDs []string        `json:"completedTaskIds,omitempty"`
	ToggleTaskID     string          `json:"toggleTaskId,omitempty"`
}

// Output carries the per-step scores after the change, annotated with the
// scores before it.
type Output struct {
	PlanID           string                      `json:"planId"`
	Scores           []localscore.LocalVisaScore `json:"scores"`
	CompletedTaskIDs []string                    `json:"completedTaskIds"`
}
