// internal/service/assess-pathway/handler.go
package assesspathway

import (
	"context"
	"errors"
	"time"

	"github.com/AirieImmigration/pathway-engine/internal/catalog"
	"github.com/AirieImmigration/pathway-engine/internal/common/logger"
	"github.com/AirieImmigration/pathway-engine/internal/common/metrics"
	"github.com/AirieImmigration/pathway-engine/internal/engine/assessor"
	"github.com/AirieImmigration/pathway-engine/internal/engine/scoring"
	"github.com/AirieImmigration/pathway-engine/internal/planstate"
)

const Operation = "assess-pathway"

var ErrNoPathway = errors.New("PATHWAY_NOT_FOUND")

// Handler assesses every step of a pathway against a profile: tri-state
// criterion assessments plus the structured requirement scores with the
// ordering chain applied.
type Handler struct {
	config   *Config
	catalog  *catalog.Repository
	plans    *planstate.Store
	assessor *assessor.Assessor
	logger   logger.Logger
}

func NewHandler(config *Config, repo *catalog.Repository, plans *planstate.Store, a *assessor.Assessor, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		catalog:  repo,
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
	slugs := input.VisaSlugs
	if len(slugs) == 0 {
		if input.PlanID == "" {
			return nil, ErrNoPathway
		}
		state, err := h.plans.Get(ctx, input.PlanID)
		if err != nil {
			return nil, err
		}
		slugs = state.PathwaySlugs()
		if len(slugs) == 0 {
			return nil, ErrNoPathway
		}
	}

	visas, err := h.catalog.ResolveVisas(ctx, slugs)
	if err != nil {
		return nil, err
	}

	strategy := scoring.Strategy(input.Strategy)
	if input.Strategy == "" {
		strategy = scoring.Strategy(h.config.ScoringStrategy)
	}

	steps := make([]StepAssessment, 0, len(visas))
	structured := make([]scoring.VisaScore, 0, len(visas))

	for _, visa := range visas {
		assessments := h.assessor.AssessAll(input.Profile, visa.EligibilityCriteria)
		visaScore := scoring.ScoreRequirements(input.Profile, visa.Slug, catalog.Requirements(visa.Slug))
		structured = append(structured, visaScore)

		criteriaScore := 0
		if len(assessments) > 0 {
			criteriaScore = scoring.Aggregate(assessments, strategy)
		}

		steps = append(steps, StepAssessment{
			VisaSlug:        visa.Slug,
			VisaName:        visa.Name,
			Assessments:     assessments,
			CriteriaScore:   criteriaScore,
			Structured:      &visaScore,
			UnmetCriteria:   scoring.UnmetCriteria(assessments),
			UnresolvedCount: len(scoring.UnresolvedCriteria(assessments)),
		})
	}

	chained := scoring.ApplyChainRule(structured)

	h.logger.Info("pathway assessed", map[string]interface{}{
		"planId":   input.PlanID,
		"steps":    len(steps),
		"strategy": string(strategy),
	})

	return &Output{Steps: steps, ChainedScores: chained}, nil
}

func errorCode(err error) string {
	if errors.Is(err, ErrNoPathway) {
		return "PATHWAY_NOT_FOUND"
	}
	if errors.Is(err, planstate.ErrPlanNotFound) {
		return "PLAN_NOT_FOUND"
	}
	if errors.Is(err, catalog.ErrVisaNotFound) {
		return "VISA_NOT_FOUND"
	}
	return "UNKNOWN_ERROR"
}
