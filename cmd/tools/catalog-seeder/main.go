// cmd/tools/catalog-seeder/main.go
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	intcatalog "github.com/AirieImmigration/pathway-engine/internal/catalog"
	"github.com/AirieImmigration/pathway-engine/internal/common/config"
	"github.com/AirieImmigration/pathway-engine/internal/common/database"
	"github.com/AirieImmigration/pathway-engine/internal/common/logger"
	"github.com/AirieImmigration/pathway-engine/internal/models"
	"github.com/AirieImmigration/pathway-engine/pkg/catalog"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validatePath := validateCmd.String("path", "configs/visa-catalog.json", "Path to the seed file")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedPath := seedCmd.String("path", "", "Path to the seed file (defaults to catalog.seed_path)")
	seedIndex := seedCmd.Bool("index", false, "Also index visas into Elasticsearch")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		seed, err := catalog.LoadSeedFile(*validatePath)
		if err != nil {
			fmt.Printf("Seed validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Seed validation passed: %d visas, %d pathway steps (version %s)\n",
			len(seed.Visas), len(seed.Pathway), seed.Version)

	case "seed":
		seedCmd.Parse(os.Args[2:])
		if err := runSeed(*seedPath, *seedIndex); err != nil {
			fmt.Printf("Seeding failed: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func runSeed(path string, index bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if path == "" {
		path = cfg.Catalog.SeedPath
	}
	if path == "" {
		return fmt.Errorf("no seed file path given and catalog.seed_path is unset")
	}

	seed, err := catalog.LoadSeedFile(path)
	if err != nil {
		return fmt.Errorf("seed file invalid: %w", err)
	}

	pgClient, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return fmt.Errorf("postgres connection failed: %w", err)
	}
	defer pgClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tx, err := pgClient.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, visa := range seed.Visas {
		if err := upsertVisa(ctx, tx, visa); err != nil {
			return fmt.Errorf("visa %s: %w", visa.Slug, err)
		}
	}
	for _, step := range seed.Pathway {
		if err := upsertStep(ctx, tx, step); err != nil {
			return fmt.Errorf("pathway step %d (%s): %w", step.StepOrder, step.StepName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	fmt.Printf("Seeded %d visas and %d pathway steps from %s\n", len(seed.Visas), len(seed.Pathway), path)

	if !index {
		return nil
	}

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return fmt.Errorf("elasticsearch connection failed: %w", err)
	}

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	search := intcatalog.NewSearch(esClient.Client, cfg.Database.Elasticsearch.VisaIndex, logger.NewZapAdapter(zapLog))

	for _, visa := range seed.Visas {
		doc := models.Visa{
			Slug:                visa.Slug,
			Name:                visa.Name,
			Type:                visa.Type,
			Stage:               models.Stage(visa.Stage),
			ShortDescription:    visa.ShortDescription,
			EligibilityCriteria: visa.EligibilityCriteria,
		}
		if err := search.IndexVisa(ctx, doc); err != nil {
			return fmt.Errorf("indexing visa %s: %w", visa.Slug, err)
		}
	}
	fmt.Printf("Indexed %d visas into %q\n", len(seed.Visas), cfg.Database.Elasticsearch.VisaIndex)
	return nil
}

func upsertVisa(ctx context.Context, tx *sql.Tx, visa catalog.SeedVisa) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO visas (id, slug, name, type, stage, short_description, eligibility_criteria)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			stage = EXCLUDED.stage,
			short_description = EXCLUDED.short_description,
			eligibility_criteria = EXCLUDED.eligibility_criteria`,
		uuid.New().String(), visa.Slug, visa.Name, visa.Type, visa.Stage,
		visa.ShortDescription, pq.Array(visa.EligibilityCriteria))
	return err
}

func upsertStep(ctx context.Context, tx *sql.Tx, step catalog.SeedStep) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO visa_residence_pathway
			(step_id, visa_name, step_name, step_order, duration, eligibility, timeframe_until_next)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (step_order) DO UPDATE SET
			visa_name = EXCLUDED.visa_name,
			step_name = EXCLUDED.step_name,
			duration = EXCLUDED.duration,
			eligibility = EXCLUDED.eligibility,
			timeframe_until_next = EXCLUDED.timeframe_until_next`,
		uuid.New().String(), step.VisaName, step.StepName, step.StepOrder,
		step.Duration, step.Eligibility, step.TimeframeUntilNext)
	return err
}

func help() {
	fmt.Println(`catalog-seeder manages the visa catalog tables and search index.

Usage:
  catalog-seeder validate -path <seed.json>
  catalog-seeder seed [-path <seed.json>] [-index]

The seed command reads connection settings from the standard configuration
(configs/config.yaml plus environment overrides).`)
}
