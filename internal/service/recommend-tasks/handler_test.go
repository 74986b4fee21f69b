package recommendtasks

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/AirieImmigration/pathway-engine/internal/common/logger"
	"github.com/AirieImmigration/pathway-engine/internal/engine/assessor"
	"github.com/AirieImmigration/pathway-engine/internal/models"
	"github.com/AirieImmigration/pathway-engine/internal/planstate"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, MappingStrategy: "exact-table"}
}

func newTestHandler(t *testing.T) (*Handler, *planstate.Store) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	plans := planstate.NewStore(client, time.Hour, log)

	return NewHandler(createTestConfig(), plans, assessor.New(), log), plans
}

func weakProfile() models.Profile {
	return models.Profile{
		Age:             40,
		EnglishLevel:    models.EnglishBasic,
		EducationLevel:  models.EducationHighSchool,
		YearsExperience: 0,
		CurrentJobTitle: "Unemployed",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestExecute_ExplicitCriteria(t *testing.T) {
	handler, _ := newTestHandler(t)

	input := &Input{
		Profile: weakProfile(),
		UnmetCriteria: []string{
			"Meets English language requirements",
			"Has a job offer from an accredited employer",
		},
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	require.NotEmpty(t, output.Tasks)
	assert.Equal(t, "exact-table", output.StrategyUse)
	assert.Equal(t, input.UnmetCriteria, output.CriteriaIn)

	ids := make([]string, 0, len(output.Tasks))
	for _, task := range output.Tasks {
		ids = append(ids, task.ID)
	}
	assert.Contains(t, ids, "improve-english-intermediate")
	assert.Contains(t, ids, "get-job-offer")

	for i := 1; i < len(output.Tasks); i++ {
		assert.GreaterOrEqual(t, output.Tasks[i-1].PriorityScore, output.Tasks[i].PriorityScore)
	}

	assert.NotEmpty(t, output.ByCategory["English"])
}

func TestExecute_DerivesCriteriaFromPlan(t *testing.T) {
	handler, plans := newTestHandler(t)
	ctx := context.Background()

	require.NoError(t, plans.Save(ctx, models.PlanState{
		PlanID:  "plan-1",
		Pathway: models.StepsFromSlugs([]string{"Accredited Employer Work Visa"}),
	}))

	output, err := handler.Execute(ctx, &Input{PlanID: "plan-1", Profile: weakProfile()})

	require.NoError(t, err)
	assert.Contains(t, output.CriteriaIn, "Has a job offer from an accredited employer")

	ids := make([]string, 0, len(output.Tasks))
	for _, task := range output.Tasks {
		ids = append(ids, task.ID)
	}
	assert.Contains(t, ids, "get-job-offer")
}

func TestExecute_CompletedTasksReduceRecommendations(t *testing.T) {
	handler, plans := newTestHandler(t)
	ctx := context.Background()

	require.NoError(t, plans.Save(ctx, models.PlanState{
		PlanID:           "plan-2",
		Pathway:          models.StepsFromSlugs([]string{"Accredited Employer Work Visa"}),
		CompletedTaskIDs: []string{"get-job-offer"},
	}))

	output, err := handler.Execute(ctx, &Input{PlanID: "plan-2", Profile: weakProfile()})

	require.NoError(t, err)
	assert.NotContains(t, output.CriteriaIn, "Has a job offer from an accredited employer",
		"the completed job offer task changes the derived assessment")
}

func TestExecute_PatternStrategyOverride(t *testing.T) {
	handler, _ := newTestHandler(t)

	input := &Input{
		Profile:       weakProfile(),
		UnmetCriteria: []string{"Meets English language requirements"},
		Strategy:      "pattern",
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "pattern", output.StrategyUse)

	ids := make([]string, 0, len(output.Tasks))
	for _, task := range output.Tasks {
		ids = append(ids, task.ID)
	}
	assert.Contains(t, ids, "improve-english-advanced")
	assert.Contains(t, ids, "improve-english-fluent")
}

// ==========================
// Error Handling Tests
// ==========================

func TestExecute_NoPathwayToDeriveFrom(t *testing.T) {
	handler, plans := newTestHandler(t)
	ctx := context.Background()

	_, err := handler.Execute(ctx, &Input{Profile: weakProfile()})
	assert.ErrorIs(t, err, ErrNoPathway)

	require.NoError(t, plans.Save(ctx, models.PlanState{PlanID: "bare"}))
	_, err = handler.Execute(ctx, &Input{PlanID: "bare", Profile: weakProfile()})
	assert.ErrorIs(t, err, ErrNoPathway)
}

func TestExecute_MissingPlan(t *testing.T) {
	handler, _ := newTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{PlanID: "ghost", Profile: weakProfile()})
	assert.ErrorIs(t, err, planstate.ErrPlanNotFound)
}

func TestExecute_NilInput(t *testing.T) {
	handler, _ := newTestHandler(t)

	_, err := handler.Execute(context.Background(), nil)
	assert.Error(t, err)
}
