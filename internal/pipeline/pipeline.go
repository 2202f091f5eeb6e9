// Package pipeline runs one catalog generation: sample theme assignments,
// synthesize the new records, merge them after the existing catalog and write
// the result.
package pipeline

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"nmcatalog/internal/catalog"
	"nmcatalog/internal/config"
	"nmcatalog/internal/database"
	"nmcatalog/internal/distribution"
	apperrors "nmcatalog/internal/errors"
	"nmcatalog/internal/synth"
	"nmcatalog/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Result describes a completed run.
type Result struct {
	Run       models.GenerationRun
	Existing  []models.Track
	Generated []models.Track
	Merged    []models.Track
}

// Generator wires the configuration to each stage of a run.
type Generator struct {
	cfg    *config.Config
	logger logrus.FieldLogger
	now    func() time.Time
}

// New creates a generator for cfg.
func New(cfg *config.Config, logger logrus.FieldLogger) *Generator {
	return &Generator{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Run executes the whole pipeline. The output file is only written once every
// record exists; on error it is left untouched.
func (g *Generator) Run() (*Result, error) {
	seed := g.cfg.Catalog.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	runID := uuid.New().String()
	log := g.logger.WithFields(logrus.Fields{"run_id": runID, "seed": seed})

	assignments, err := distribution.Sample(g.cfg.Themes, distribution.NewRand(seed))
	if err != nil {
		return nil, fmt.Errorf("sample theme assignments: %w", err)
	}
	if n := g.cfg.Catalog.EndIndex - g.cfg.Catalog.StartIndex + 1; n != len(assignments) {
		return nil, apperrors.Configuration("themes add up to %d tracks but index range %d-%d holds %d",
			len(assignments), g.cfg.Catalog.StartIndex, g.cfg.Catalog.EndIndex, n)
	}
	log.WithField("assignments", len(assignments)).Debug("Sampled theme assignments")

	existing, err := catalog.Load(g.cfg.Catalog.InputPath)
	if err != nil {
		return nil, fmt.Errorf("load existing catalog: %w", err)
	}
	log.WithFields(logrus.Fields{
		"input_path": g.cfg.Catalog.InputPath,
		"tracks":     len(existing),
	}).Debug("Loaded existing catalog")

	start, end := g.cfg.IndexRange(catalog.MaxIndex(existing, g.cfg.Catalog.IDPrefix))
	generated, err := synth.Synthesize(start, end, g.cfg.Catalog.IDPrefix, assignments)
	if err != nil {
		return nil, fmt.Errorf("synthesize tracks: %w", err)
	}

	merged, err := catalog.Merge(existing, generated)
	if err != nil {
		return nil, fmt.Errorf("merge catalogs: %w", err)
	}

	if err := catalog.Write(g.cfg.Catalog.OutputPath, merged); err != nil {
		return nil, fmt.Errorf("write catalog: %w", err)
	}

	result := &Result{
		Run: models.GenerationRun{
			ID:            runID,
			Seed:          seed,
			StartIndex:    start,
			EndIndex:      end,
			ExistingCount: len(existing),
			NewCount:      len(generated),
			OutputPath:    g.cfg.Catalog.OutputPath,
			CreatedAt:     g.now(),
		},
		Existing:  existing,
		Generated: generated,
		Merged:    merged,
	}

	for _, c := range catalog.ComputeStats(generated).Themes {
		log.WithFields(logrus.Fields{"theme": c.Name, "tracks": c.Count}).Info("Generated theme tracks")
	}
	log.WithFields(logrus.Fields{
		"start_index": start,
		"end_index":   end,
		"output_path": g.cfg.Catalog.OutputPath,
	}).Info("Catalog written")

	return result, nil
}

// Mirror stores a completed run in the catalog database.
func (g *Generator) Mirror(db *database.Database, result *Result) error {
	generated := make(map[string]bool, len(result.Generated))
	for _, t := range result.Generated {
		generated[t.ID] = true
	}
	if err := db.SyncCatalog(result.Run, result.Merged, generated); err != nil {
		return fmt.Errorf("mirror catalog to database: %w", err)
	}
	g.logger.WithFields(logrus.Fields{
		"run_id": result.Run.ID,
		"tracks": len(result.Merged),
	}).Info("Catalog mirrored to database")
	return nil
}

// PrintSummary writes the run totals to w.
func PrintSummary(w io.Writer, result *Result) error {
	_, err := fmt.Fprintf(w, "Complete! Generated %d tracks total\n"+
		"   - Existing tracks: %d\n"+
		"   - New tracks: %d\n"+
		"   - Output: %s\n",
		len(result.Merged), len(result.Existing), len(result.Generated), result.Run.OutputPath)
	return err
}
