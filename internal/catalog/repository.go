// internal/catalog/repository.go

// Package catalog provides access to the visa catalog: visas, precomputed
// residence-pathway steps and typed requirement tables. Postgres is the
// source of truth; Elasticsearch serves free-text visa search.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/AirieImmigration/pathway-engine/internal/common/logger"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

var ErrVisaNotFound = errors.New("VISA_NOT_FOUND")

// Repository reads the visa catalog from Postgres.
type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

// GetVisas returns every visa in the catalog.
func (r *Repository) GetVisas(ctx context.Context) ([]models.Visa, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slug, name, type, stage, short_description, eligibility_criteria
		FROM visas
		ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("query visas: %w", err)
	}
	defer rows.Close()

	var visas []models.Visa
	for rows.Next() {
		var v models.Visa
		var visaType, stage, shortDescription sql.NullString
		if err := rows.Scan(&v.ID, &v.Slug, &v.Name, &visaType, &stage, &shortDescription, pq.Array(&v.EligibilityCriteria)); err != nil {
			return nil, fmt.Errorf("scan visa: %w", err)
		}
		v.Type = visaType.String
		v.Stage = models.Stage(stage.String)
		v.ShortDescription = shortDescription.String
		visas = append(visas, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visas: %w", err)
	}

	return visas, nil
}

// GetVisaBySlug returns one visa, or ErrVisaNotFound.
func (r *Repository) GetVisaBySlug(ctx context.Context, slug string) (models.Visa, error) {
	var v models.Visa
	var visaType, stage, shortDescription sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, slug, name, type, stage, short_description, eligibility_criteria
		FROM visas
		WHERE slug = $1`, slug).Scan(
		&v.ID, &v.Slug, &v.Name, &visaType, &stage, &shortDescription, pq.Array(&v.EligibilityCriteria),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Visa{}, fmt.Errorf("%w: %s", ErrVisaNotFound, slug)
		}
		return models.Visa{}, fmt.Errorf("query visa %s: %w", slug, err)
	}

	v.Type = visaType.String
	v.Stage = models.Stage(stage.String)
	v.ShortDescription = shortDescription.String
	return v, nil
}

// GetPathwaySteps returns the residence-pathway step table ordered by
// step_order.
func (r *Repository) GetPathwaySteps(ctx context.Context) ([]models.PathwayStep, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT step_id, visa_name, step_name, step_order, duration, eligibility, timeframe_until_next
		FROM visa_residence_pathway
		ORDER BY step_order`)
	if err != nil {
		return nil, fmt.Errorf("query pathway steps: %w", err)
	}
	defer rows.Close()

	var steps []models.PathwayStep
	for rows.Next() {
		var s models.PathwayStep
		var duration, eligibility, timeframe sql.NullString
		if err := rows.Scan(&s.ID, &s.VisaName, &s.StepName, &s.StepOrder, &duration, &eligibility, &timeframe); err != nil {
			return nil, fmt.Errorf("scan pathway step: %w", err)
		}
		s.Duration = duration.String
		s.Eligibility = eligibility.String
		s.TimeframeUntilNext = timeframe.String
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pathway steps: %w", err)
	}

	return steps, nil
}

// ResolveVisas returns a visa per requested slug, substituting a
// placeholder for slugs the catalog does not know. One missing record
// never fails a whole pathway computation.
func (r *Repository) ResolveVisas(ctx context.Context, slugs []string) ([]models.Visa, error) {
	all, err := r.GetVisas(ctx)
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string]models.Visa, len(all))
	for _, v := range all {
		bySlug[v.Slug] = v
	}

	resolved := make([]models.Visa, 0, len(slugs))
	for _, slug := range slugs {
		if v, ok := bySlug[slug]; ok {
			resolved = append(resolved, v)
			continue
		}
		r.logger.Warn("visa missing from catalog, using placeholder", map[string]interface{}{
			"visaSlug": slug,
		})
		resolved = append(resolved, models.PlaceholderVisa(slug))
	}
	return resolved, nil
}
