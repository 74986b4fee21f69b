// internal/service/recompute-scores/handler.go
package recomputescores

import (
	"context"
	"errors"
	"time"

	"github.com/AirieImmigration/pathway-engine/internal/common/logger"
	"github.com/AirieImmigration/pathway-engine/internal/common/metrics"
	"github.com/AirieImmigration/pathway-engine/internal/engine/assessor"
	"github.com/AirieImmigration/pathway-engine/internal/engine/localscore"
	"github.com/AirieImmigration/pathway-engine/internal/engine/tasks"
	"github.com/AirieImmigration/pathway-engine/internal/models"
	"github.com/AirieImmigration/pathway-engine/internal/planstate"
)

const Operation = "recompute-scores"

var (
	ErrNoPathway = errors.New("PATHWAY_NOT_FOUND")
	ErrNoProfile = errors.New("PROFILE_VALIDATION_FAILED")
)

// Handler recomputes per-step pathway scores after the completed task set
// changes, and persists the new set on the plan.
type Handler struct {
	config   *Config
	plans    *planstate.Store
	assessor *assessor.Assessor
	logger   logger.Logger
}

func NewHandler(config *Config, plans *planstate.Store, a *assessor.Assessor, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		plans:    plans,
		assessor: a,
		logger:   log.WithFields(map[string]interface{}{"operation": Operation}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	start := time.Now()
	metrics.EngineOperationsActive.WithLabelValues(Operation).Inc()
	defer func() {
		metrics.EngineOperationsActive.WithLabelValues(Operation).Dec()
		metrics.EngineOperationDuration.WithLabelValues(Operation).Observe(time.Since(start).Seconds())
	}()

	output, err := h.execute(ctx, input)
	if err != nil {
		metrics.EngineOperationsFailed.WithLabelValues(Operation, errorCode(err)).Inc()
		return nil, err
	}

	metrics.EngineOperationsCompleted.WithLabelValues(Operation).Inc()
	return output, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	state, err := h.plans.Get(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	if len(state.Pathway) == 0 {
		return nil, ErrNoPathway
	}

	profile, err := resolveProfile(input, state)
	if err != nil {
		return nil, err
	}

	completed := nextCompletedSet(input, state)

	previous := localscore.CalculateLocalScores(h.assessor, profile, state.Pathway, state.CompletedTaskIDs)
	current := localscore.CalculateLocalScores(h.assessor, profile, state.Pathway, completed)
	scores := localscore.CompareScores(current, previous)

	modified := tasks.ApplyCompleted(profile, completed)
	if _, err := h.plans.Update(ctx, input.PlanID, func(s *models.PlanState) {
		s.CompletedTaskIDs = completed
		s.ModifiedProfile = &modified
		if s.Profile == nil {
			s.Profile = &profile
		}
	}); err != nil {
		return nil, err
	}

	h.logger.Info("scores recomputed", map[string]interface{}{
		"planId":         input.PlanID,
		"completedTasks": len(completed),
		"steps":          len(scores),
	})

	return &Output{
		PlanID:           input.PlanID,
		Scores:           scores,
		CompletedTaskIDs: completed,
	}, nil
}

func resolveProfile(input *Input, state models.PlanState) (models.Profile, error) {
	if input.Profile != nil {
		return *input.Profile, nil
	}
	if state.Profile != nil {
		return *state.Profile, nil
	}
	return models.Profile{}, ErrNoProfile
}

// nextCompletedSet resolves the completed task IDs after this request:
// a wholesale replacement wins, otherwise a single task is toggled in or
// out of the stored set.
func nextCompletedSet(input *Input, state models.PlanState) []string {
	if input.CompletedTaskIDs != nil {
		return input.CompletedTaskIDs
	}
	if input.ToggleTaskID == "" {
		return state.CompletedTaskIDs
	}

	next := make([]string, 0, len(state.CompletedTaskIDs)+1)
	removed := false
	for _, id := range state.CompletedTaskIDs {
		if id == input.ToggleTaskID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, input.ToggleTaskID)
	}
	return next
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrNoPathway):
		return "PATHWAY_NOT_FOUND"
	case errors.Is(err, ErrNoProfile):
		return "PROFILE_VALIDATION_FAILED"
	case errors.Is(err, planstate.ErrPlanNotFound):
		return "PLAN_NOT_FOUND"
	default:
		return "UNKNOWN_ERROR"
	}
}
