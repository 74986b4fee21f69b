// internal/service/recommend-tasks/models.go
package recommendtasks

import (
	"github.com/AirieImmigration/pathway-engine/internal/engine/tasks"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// Input is one task recommendation request. UnmetCriteria overrides the
// derived criteria; when empty the handler analyzes the plan's pathway.
type Input struct {
	PlanID        string         `json:"planId,omitempty"`
	Profile       models.Profile `json:"profile"`
	UnmetCriteria []string       `json:"unmetCriteria,omitempty"`
	Strategy      string         `json:"strategy,omitempty"` // exact-table or pattern
}

// Output is the ordered remediation plan.
type Output struct {
	Tasks       []tasks.PrioritizedTask            `json:"tasks"`
	ByCategory  map[string][]tasks.PrioritizedTask `json:"byCategory,omitempty"`
	CriteriaIn  []string                           `json:"criteriaIn,omitempty"`
	StrategyUse string                             `json:"strategyUsed"`
}
