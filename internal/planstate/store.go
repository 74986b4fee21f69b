// internal/planstate/store.go

// Package planstate persists the per-plan wizard snapshot in Redis. Each
// plan is one JSON blob, read and written wholesale.
package planstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AirieImmigration/pathway-engine/internal/common/logger"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

var ErrPlanNotFound = errors.New("PLAN_NOT_FOUND")

// Store reads and writes plan snapshots.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewStore(client *redis.Client, ttl time.Duration, log logger.Logger) *Store {
	return &Store{
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "planstate"}),
	}
}

func planKey(planID string) string {
	return "plan:" + planID
}

// Get loads one plan snapshot, or ErrPlanNotFound.
func (s *Store) Get(ctx context.Context, planID string) (models.PlanState, error) {
	val, err := s.redis.Get(ctx, planKey(planID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.PlanState{}, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
		}
		return models.PlanState{}, fmt.Errorf("get plan %s: %w", planID, err)
	}

	var state models.PlanState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return models.PlanState{}, fmt.Errorf("unmarshal plan %s: %w", planID, err)
	}
	return state, nil
}

// Save writes the whole snapshot under the plan's key.
func (s *Store) Save(ctx context.Context, state models.PlanState) error {
	if state.PlanID == "" {
		return errors.New("plan id is required")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal plan %s: %w", state.PlanID, err)
	}

	if err := s.redis.Set(ctx, planKey(state.PlanID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set plan %s: %w", state.PlanID, err)
	}

	s.logger.Debug("plan saved", map[string]interface{}{
		"planId": state.PlanID,
	})
	return nil
}

// Update applies fn to the stored snapshot and writes the result back.
// A missing plan starts from an empty snapshot with the given id, so the
// first mutation creates the plan.
func (s *Store) Update(ctx context.Context, planID string, fn func(*models.PlanState)) (models.PlanState, error) {
	state, err := s.Get(ctx, planID)
	if err != nil {
		if !errors.Is(err, ErrPlanNotFound) {
			return models.PlanState{}, err
		}
		state = models.PlanState{PlanID: planID}
	}

	fn(&state)
	state.PlanID = planID

	if err := s.Save(ctx, state); err != nil {
		return models.PlanState{}, err
	}
	return state, nil
}

// Reset deletes a plan snapshot. Deleting a missing plan is not an error.
func (s *Store) Reset(ctx context.Context, planID string) error {
	if err := s.redis.Del(ctx, planKey(planID)).Err(); err != nil {
		return fmt.Errorf("delete plan %s: %w", planID, err)
	}
	return nil
}
