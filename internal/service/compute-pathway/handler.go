// internal/service/compute-pathway/handler.go
package computepathway

import (
	"context"
	"errors"
	"time"

	"github.com/AirieImmigration/pathway-engine/internal/catalog"
	"github.com/AirieImmigration/pathway-engine/internal/common/logger"
	"github.com/AirieImmigration/pathway-engine/internal/common/metrics"
	"github.com/AirieImmigration/pathway-engine/internal/engine/pathway"
	"github.com/AirieImmigration/pathway-engine/internal/models"
	"github.com/AirieImmigration/pathway-engine/internal/planstate"
)

const Operation = "compute-pathway"

var (
	ErrStartVisaUnresolved = errors.New("START_VISA_UNRESOLVED")
	ErrProfileInvalid      = errors.New("PROFILE_VALIDATION_FAILED")
)

// Handler computes the shortest visa pathway for a profile and persists it
// into the plan snapshot.
type Handler struct {
	config  *Config
	catalog *catalog.Repository
	plans   *planstate.Store
	logger  logger.Logger
}

func NewHandler(config *Config, repo *catalog.Repository, plans *planstate.Store, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		catalog: repo,
		plans:   plans,
		logger:  log.WithFields(map[string]interface{}{"operation": Operation}),
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
	if result := validateProfile(input.Profile); !result.Valid {
		h.logger.Warn("profile failed schema validation", map[string]interface{}{
			"planId": input.PlanID,
			"errors": result.Errors,
		})
		return nil, ErrProfileInvalid
	}

	visas, err := h.catalog.GetVisas(ctx)
	if err != nil {
		return nil, err
	}
	steps, err := h.catalog.GetPathwaySteps(ctx)
	if err != nil {
		return nil, err
	}

	edges := pathway.EdgesFromSteps(steps)

	// Pathway steps carry display names while catalog visas carry slugs.
	// Fold edge endpoints onto the catalog slug when a step name matches
	// a catalog visa name so journey-stage start visas join the graph.
	slugByName := make(map[string]string, len(visas))
	for _, v := range visas {
		slugByName[v.Name] = v.Slug
	}
	for i := range edges {
		if slug, ok := slugByName[edges[i].FromVisaSlug]; ok {
			edges[i].FromVisaSlug = slug
		}
		if slug, ok := slugByName[edges[i].ToVisaSlug]; ok {
			edges[i].ToVisaSlug = slug
		}
	}

	// Step names reference visas that may be missing from the catalog;
	// give those placeholder nodes so the graph stays connected.
	graphVisas := withStepVisas(visas, steps, slugByName)
	graph := pathway.BuildGraph(graphVisas, edges)

	startSlug := pathway.DetermineStartVisa(graphVisas, input.JourneyStage)
	if startSlug == "" {
		return nil, ErrStartVisaUnresolved
	}

	goalSlug := input.GoalVisaSlug
	if goalSlug == "" && input.Profile.Goal.TargetVisaSlug != "" {
		goalSlug = input.Profile.Goal.TargetVisaSlug
	}
	goals := pathway.DetermineGoalVisas(graphVisas, goalSlug, input.WantsPermanent)

	result := graph.FindShortestPath(startSlug, goals)
	if result == nil {
		metrics.PathwayLookupsUnreachable.WithLabelValues(input.JourneyStage).Inc()
		h.logger.Warn("no pathway reaches a goal visa", map[string]interface{}{
			"planId":    input.PlanID,
			"startVisa": startSlug,
			"goals":     goals,
		})
		return &Output{
			Reachable:     false,
			StartVisaSlug: startSlug,
			GoalVisaSlugs: goals,
		}, nil
	}

	resolved, err := h.catalog.ResolveVisas(ctx, result.Path)
	if err != nil {
		return nil, err
	}

	if input.PlanID != "" {
		_, err = h.plans.Update(ctx, input.PlanID, func(state *models.PlanState) {
			profile := input.Profile
			state.Profile = &profile
			state.Pathway = models.StepsFromSlugs(result.Path)
		})
		if err != nil {
			return nil, err
		}
	}

	h.logger.Info("pathway computed", map[string]interface{}{
		"planId":      input.PlanID,
		"startVisa":   startSlug,
		"pathLength":  len(result.Path),
		"totalWeight": result.TotalWeight,
	})

	return &Output{
		Reachable:     true,
		Path:          result.Path,
		Visas:         resolved,
		TotalWeight:   result.TotalWeight,
		StartVisaSlug: startSlug,
		GoalVisaSlugs: goals,
	}, nil
}

// withStepVisas appends placeholder visas for step names absent from the
// catalog so pathway nodes always exist. Step names matching a catalog
// visa name share that visa's node instead of getting a placeholder.
func withStepVisas(visas []models.Visa, steps []models.PathwayStep, slugByName map[string]string) []models.Visa {
	known := make(map[string]bool, len(visas))
	for _, v := range visas {
		known[v.Slug] = true
	}

	out := append([]models.Visa{}, visas...)
	for _, step := range steps {
		if _, aliased := slugByName[step.StepName]; aliased {
			continue
		}
		if !known[step.StepName] {
			known[step.StepName] = true
			out = append(out, models.PlaceholderVisa(step.StepName))
		}
	}
	return out
}

func errorCode(err error) string {
	if errors.Is(err, ErrStartVisaUnresolved) {
		return "START_VISA_UNRESOLVED"
	}
	if errors.Is(err, ErrProfileInvalid) {
		return "PROFILE_VALIDATION_FAILED"
	}
	if errors.Is(err, catalog.ErrVisaNotFound) {
		return "VISA_NOT_FOUND"
	}
	if errors.Is(err, planstate.ErrPlanNotFound) {
		return "PLAN_NOT_FOUND"
	}
	return "UNKNOWN_ERROR"
}
