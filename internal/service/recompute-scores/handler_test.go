package recomputescores

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
	return &Config{Timeout: 5 * time.Second}
}

func newTestHandler(t *testing.T) (*Handler, *planstate.Store) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.NewZapAdapter(zaptest.NewLogger(t))
	plans := planstate.NewStore(client, time.Hour, log)

	return NewHandler(createTestConfig(), plans, assessor.New(), log), plans
}

func savedPlan(t *testing.T, plans *planstate.Store, completed ...string) {
	t.Helper()
	profile := models.Profile{
		Age:             40,
		EnglishLevel:    models.EnglishBasic,
		EducationLevel:  models.EducationHighSchool,
		CurrentJobTitle: "Unemployed",
	}
	require.NoError(t, plans.Save(context.Background(), models.PlanState{
		PlanID:           "plan-1",
		Profile:          &profile,
		Pathway:          models.StepsFromSlugs([]string{"Accredited Employer Work Visa"}),
		CompletedTaskIDs: completed,
	}))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestExecute_ToggleAddsTask(t *testing.T) {
	handler, plans := newTestHandler(t)
	ctx := context.Background()
	savedPlan(t, plans)

	output, err := handler.Execute(ctx, &Input{PlanID: "plan-1", ToggleTaskID: "improve-english-advanced"})

	require.NoError(t, err)
	assert.Equal(t, []string{"improve-english-advanced"}, output.CompletedTaskIDs)
	require.Len(t, output.Scores, 1)
	assert.True(t, output.Scores[0].Improved)
	assert.Greater(t, output.Scores[0].Score, output.Scores[0].PreviousScore)

	state, err := plans.Get(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"improve-english-advanced"}, state.CompletedTaskIDs)
	require.NotNil(t, state.ModifiedProfile)
	assert.Equal(t, models.EnglishAdvanced, state.ModifiedProfile.EnglishLevel)
	require.NotNil(t, state.Profile)
	assert.Equal(t, models.EnglishBasic, state.Profile.EnglishLevel, "the base profile is untouched")
}

func TestExecute_ToggleRemovesTask(t *testing.T) {
	handler, plans := newTestHandler(t)
	ctx := context.Background()
	savedPlan(t, plans, "improve-english-advanced")

	output, err := handler.Execute(ctx, &Input{PlanID: "plan-1", ToggleTaskID: "improve-english-advanced"})

	require.NoError(t, err)
	assert.Empty(t, output.CompletedTaskIDs)
	require.Len(t, output.Scores, 1)
	assert.False(t, output.Scores[0].Improved)
	assert.Less(t, output.Scores[0].Score, output.Scores[0].PreviousScore)
}

func TestExecute_WholesaleReplacement(t *testing.T) {
	handler, plans := newTestHandler(t)
	ctx := context.Background()
	savedPlan(t, plans, "improve-english-advanced")

	output, err := handler.Execute(ctx, &Input{
		PlanID:           "plan-1",
		CompletedTaskIDs: []string{"get-job-offer", "improve-english-fluent"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"get-job-offer", "improve-english-fluent"}, output.CompletedTaskIDs)

	state, err := plans.Get(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"get-job-offer", "improve-english-fluent"}, state.CompletedTaskIDs)
}

func TestExecute_NoChangeKeepsStoredSet(t *testing.T) {
	handler, plans := newTestHandler(t)
	ctx := context.Background()
	savedPlan(t, plans, "improve-english-advanced")

	output, err := handler.Execute(ctx, &Input{PlanID: "plan-1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"improve-english-advanced"}, output.CompletedTaskIDs)
	require.Len(t, output.Scores, 1)
	assert.False(t, output.Scores[0].Improved, "identical sets compare equal")
}

func TestExecute_RequestProfileOverridesStored(t *testing.T) {
	handler, plans := newTestHandler(t)
	ctx := context.Background()
	savedPlan(t, plans)

	strong := models.Profile{
		Age:             30,
		EnglishLevel:    models.EnglishFluent,
		EducationLevel:  models.EducationMaster,
		CurrentJobTitle: "Nurse",
	}

	output, err := handler.Execute(ctx, &Input{PlanID: "plan-1", Profile: &strong})

	require.NoError(t, err)
	require.Len(t, output.Scores, 1)
	assert.Greater(t, output.Scores[0].Score, 0)
}

// ==========================
// Error Handling Tests
// ==========================

func TestExecute_Errors(t *testing.T) {
	handler, plans := newTestHandler(t)
	ctx := context.Background()

	_, err := handler.Execute(ctx, &Input{PlanID: "ghost"})
	assert.ErrorIs(t, err, planstate.ErrPlanNotFound)

	require.NoError(t, plans.Save(ctx, models.PlanState{PlanID: "no-pathway"}))
	_, err = handler.Execute(ctx, &Input{PlanID: "no-pathway"})
	assert.ErrorIs(t, err, ErrNoPathway)

	require.NoError(t, plans.Save(ctx, models.PlanState{
		PlanID:  "no-profile",
		Pathway: models.StepsFromSlugs([]string{"Student Visa"}),
	}))
	_, err = handler.Execute(ctx, &Input{PlanID: "no-profile"})
	assert.ErrorIs(t, err, ErrNoProfile)

	_, err = handler.Execute(ctx, nil)
	assert.Error(t, err)
}
