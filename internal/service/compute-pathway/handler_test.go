package computepathway

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/AirieImmigration/pathway-engine/internal/catalog"
	"github.com/AirieImmigration/pathway-engine/internal/common/logger"
	"github.com/AirieImmigration/pathway-engine/internal/models"
	"github.com/AirieImmigration/pathway-engine/internal/planstate"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *planstate.Store) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := createTestLogger(t)
	repo := catalog.NewRepository(db, log)
	plans := planstate.NewStore(client, time.Hour, log)

	return NewHandler(createTestConfig(), repo, plans, log), mock, plans
}

func visaColumns() []string {
	return []string{"id", "slug", "name", "type", "stage", "short_description", "eligibility_criteria"}
}

func stepColumns() []string {
	return []string{"step_id", "visa_name", "step_name", "step_order", "duration", "eligibility", "timeframe_until_next"}
}

func catalogRows() *sqlmock.Rows {
	return sqlmock.NewRows(visaColumns()).
		AddRow("id-1", "residence", "Residence Visa", "residence", "FirstResidence", "", "{}").
		AddRow("id-2", "visitor", "Visitor Visa", "temporary", "NotInNZ", "", "{}")
}

func pathwayRows() *sqlmock.Rows {
	return sqlmock.NewRows(stepColumns()).
		AddRow("step-1", "Main Pathway", "visitor", 1, nil, nil, nil).
		AddRow("step-2", "Main Pathway", "work", 2, nil, nil, nil).
		AddRow("step-3", "Main Pathway", "residence", 3, nil, nil, nil)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestExecute_ComputesPathway(t *testing.T) {
	handler, mock, plans := newTestHandler(t)

	mock.ExpectQuery(`FROM visas`).WillReturnRows(catalogRows())
	mock.ExpectQuery(`FROM visa_residence_pathway`).WillReturnRows(pathwayRows())
	// Resolving the result path reads the catalog again.
	mock.ExpectQuery(`FROM visas`).WillReturnRows(catalogRows())

	input := &Input{
		PlanID:       "plan-1",
		Profile:      models.Profile{Slug: "susan", Name: "Susan"},
		JourneyStage: "not-in-nz",
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.True(t, output.Reachable)
	assert.Equal(t, []string{"visitor", "work", "residence"}, output.Path)
	assert.Equal(t, float64(2), output.TotalWeight)
	assert.Equal(t, "visitor", output.StartVisaSlug)
	assert.Equal(t, []string{"residence"}, output.GoalVisaSlugs)

	require.Len(t, output.Visas, 3)
	assert.Equal(t, "Visitor Visa", output.Visas[0].Name)
	assert.Equal(t, "unknown", output.Visas[1].Type, "missing catalog record resolves to a placeholder")

	state, err := plans.Get(context.Background(), "plan-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"visitor", "work", "residence"}, state.PathwaySlugs())
	require.NotNil(t, state.Profile)
	assert.Equal(t, "susan", state.Profile.Slug)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_ExplicitGoalWins(t *testing.T) {
	handler, mock, _ := newTestHandler(t)

	mock.ExpectQuery(`FROM visas`).WillReturnRows(catalogRows())
	mock.ExpectQuery(`FROM visa_residence_pathway`).WillReturnRows(pathwayRows())
	mock.ExpectQuery(`FROM visas`).WillReturnRows(catalogRows())

	input := &Input{
		Profile:      models.Profile{},
		JourneyStage: "not-in-nz",
		GoalVisaSlug: "work",
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, []string{"visitor", "work"}, output.Path)
	assert.Equal(t, []string{"work"}, output.GoalVisaSlugs)
}

func TestExecute_UnreachableIsNotAnError(t *testing.T) {
	handler, mock, plans := newTestHandler(t)

	// A one-step pathway yields no edges, so the residence goal is an
	// isolated node.
	steps := sqlmock.NewRows(stepColumns()).
		AddRow("step-1", "Main Pathway", "visitor", 1, nil, nil, nil)
	mock.ExpectQuery(`FROM visas`).WillReturnRows(catalogRows())
	mock.ExpectQuery(`FROM visa_residence_pathway`).WillReturnRows(steps)

	input := &Input{
		PlanID:       "plan-unreachable",
		Profile:      models.Profile{},
		JourneyStage: "not-in-nz",
	}

	output, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.False(t, output.Reachable)
	assert.Empty(t, output.Path)
	assert.Equal(t, "visitor", output.StartVisaSlug)

	// Nothing is persisted for an unreachable pathway.
	_, err = plans.Get(context.Background(), "plan-unreachable")
	assert.ErrorIs(t, err, planstate.ErrPlanNotFound)
}

func TestExecute_EmptyCatalog(t *testing.T) {
	handler, mock, _ := newTestHandler(t)

	mock.ExpectQuery(`FROM visas`).WillReturnRows(sqlmock.NewRows(visaColumns()))
	mock.ExpectQuery(`FROM visa_residence_pathway`).WillReturnRows(sqlmock.NewRows(stepColumns()))

	_, err := handler.Execute(context.Background(), &Input{JourneyStage: "pathway"})
	assert.ErrorIs(t, err, ErrStartVisaUnresolved)
}

func TestExecute_NilInput(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	_, err := handler.Execute(context.Background(), nil)
	assert.Error(t, err)
}

func TestExecute_FoldsStepNamesOntoCatalogSlugs(t *testing.T) {
	handler, mock, _ := newTestHandler(t)

	// Steps stored with display names reach the same visas the catalog
	// knows by slug.
	steps := sqlmock.NewRows(stepColumns()).
		AddRow("step-1", "Arrival Route", "Visitor Visa", 1, nil, nil, nil).
		AddRow("step-2", "Arrival Route", "Residence Visa", 2, nil, nil, nil)
	mock.ExpectQuery(`FROM visas`).WillReturnRows(catalogRows())
	mock.ExpectQuery(`FROM visa_residence_pathway`).WillReturnRows(steps)
	mock.ExpectQuery(`FROM visas`).WillReturnRows(catalogRows())

	output, err := handler.Execute(context.Background(), &Input{
		Profile:      models.Profile{},
		JourneyStage: "not-in-nz",
	})

	require.NoError(t, err)
	assert.True(t, output.Reachable)
	assert.Equal(t, []string{"visitor", "residence"}, output.Path)
	assert.Equal(t, "Residence Visa", output.Visas[1].Name)
}

func TestExecute_RejectsInvalidProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile models.Profile
	}{
		{"negative age", models.Profile{Age: -3}},
		{"age over ceiling", models.Profile{Age: 130}},
		{"unknown english level", models.Profile{EnglishLevel: "native"}},
		{"unknown education level", models.Profile{EducationLevel: "diploma"}},
		{"negative salary", models.Profile{YearlySalaryNZD: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, _ := newTestHandler(t)

			_, err := handler.Execute(context.Background(), &Input{Profile: tt.profile})
			assert.ErrorIs(t, err, ErrProfileInvalid)
		})
	}
}
