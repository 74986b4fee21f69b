// internal/service/recommend-tasks/handler.go
package recommendtasks

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

const Operation = "recommend-tasks"

var ErrNoPathway = errors.New("PATHWAY_NOT_FOUND")

// Handler turns a pathway's unmet criteria into an ordered remediation
// plan.
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
	var pathwaySteps []models.PlanStep
	profile := input.Profile
	unmet := input.UnmetCriteria

	if input.PlanID != "" {
		state, err := h.plans.Get(ctx, input.PlanID)
		if err != nil {
			return nil, err
		}
		pathwaySteps = state.Pathway
		// Completed tasks already count toward the profile when
		// deriving what is still unmet.
		profile = tasks.ApplyCompleted(profile, state.CompletedTaskIDs)
	}

	if len(unmet) == 0 {
		if len(pathwaySteps) == 0 {
			return nil, ErrNoPathway
		}
		analyses := localscore.AnalyzePathway(h.assessor, profile, pathwaySteps)
		unmet = localscore.AllUnmetCriteria(analyses)
	}

	strategyName := input.Strategy
	if strategyName == "" {
		strategyName = h.config.MappingStrategy
	}
	strategy := tasks.StrategyByName(strategyName)

	prioritized := tasks.Prioritize(unmet, profile, pathwaySteps, strategy)

	h.logger.Info("tasks recommended", map[string]interface{}{
		"planId":        input.PlanID,
		"unmetCriteria": len(unmet),
		"tasks":         len(prioritized),
		"strategy":      strategy.Name(),
	})

	return &Output{
		Tasks:       prioritized,
		ByCategory:  tasks.GroupByCategory(prioritized),
		CriteriaIn:  unmet,
		StrategyUse: strategy.Name(),
	}, nil
}

func errorCode(err error) string {
	if errors.Is(err, ErrNoPathway) {
		return "PATHWAY_NOT_FOUND"
	}
	if errors.Is(err, planstate.ErrPlanNotFound) {
		return "PLAN_NOT_FOUND"
	}
	return "UNKNOWN_ERROR"
}
