package platform

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"harmonia/internal/evo"
	"harmonia/internal/genotype"
	"harmonia/internal/melody"
	"harmonia/internal/model"
	"harmonia/internal/storage"
	"harmonia/internal/theory"
)

type Config struct {
	Store storage.Store
}

// Conductor wires a melody, a key and the evolutionary search together
// and persists what a run produces.
type Conductor struct {
	mu      sync.Mutex
	store   storage.Store
	started bool
}

func NewConductor(cfg Config) (*Conductor, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Conductor{store: cfg.Store}, nil
}

func (c *Conductor) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.started = true
	return nil
}

func (c *Conductor) Reset(ctx context.Context) error {
	if resetter, ok := c.store.(storage.Resetter); ok {
		if err := resetter.Reset(ctx); err != nil {
			return err
		}
	}
	return c.Init(ctx)
}

type ArrangementConfig struct {
	RunID          string
	Profile        melody.Profile
	Key            theory.Key
	PopulationSize int
	Generations    int
	MutationRate   float64
	Workers        int
	Seed           int64
	Octaves        genotype.OctaveRange
	Weights        evo.Weights
}

type ArrangementResult struct {
	RunID            string
	Best             evo.ScoredIndividual
	BestByGeneration []float64
	Diagnostics      []model.GenerationDiagnostics
	Arrangement      model.Arrangement
}

// RunArrangement derives slot targets and the key's chord set from the
// configuration, evolves an accompaniment, and persists the fitness
// history, diagnostics and winning arrangement under the run ID.
func (c *Conductor) RunArrangement(ctx context.Context, cfg ArrangementConfig) (ArrangementResult, error) {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()
	if !started {
		return ArrangementResult{}, fmt.Errorf("conductor is not initialized")
	}

	targets, err := melody.Targets(cfg.Profile)
	if err != nil {
		return ArrangementResult{}, fmt.Errorf("%w: %w", evo.ErrConfig, err)
	}

	evaluator, err := evo.NewEvaluator(targets, theory.NewKeyChordSet(cfg.Key), cfg.Weights)
	if err != nil {
		return ArrangementResult{}, err
	}
	monitor, err := evo.NewPopulationMonitor(evo.MonitorConfig{
		Evaluator:      evaluator,
		PopulationSize: cfg.PopulationSize,
		Generations:    cfg.Generations,
		MutationRate:   cfg.MutationRate,
		Workers:        cfg.Workers,
		Seed:           cfg.Seed,
		Octaves:        cfg.Octaves,
	})
	if err != nil {
		return ArrangementResult{}, err
	}

	result, err := monitor.Run(ctx)
	if err != nil {
		return ArrangementResult{}, err
	}

	runID := cfg.RunID
	if runID == "" {
		runID = fmt.Sprintf("arr-%s-%d", strings.ReplaceAll(cfg.Key.String(), " ", "-"), cfg.Seed)
	}

	diagnostics := toModelDiagnostics(result.GenerationDiagnostics)
	arrangement := model.Arrangement{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:      "arrangement-" + runID,
		RunID:   runID,
		Tonic:   cfg.Key.Tonic,
		Mode:    cfg.Key.Mode.String(),
		Slots:   cfg.Profile.SlotCount(),
		Fitness: result.Best.Fitness,
		Chords:  ChordRecords(result.Best.Individual),
	}

	if err := c.store.SaveFitnessHistory(ctx, runID, result.BestByGeneration); err != nil {
		return ArrangementResult{}, fmt.Errorf("save fitness history: %w", err)
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, runID, diagnostics); err != nil {
		return ArrangementResult{}, fmt.Errorf("save generation diagnostics: %w", err)
	}
	if err := c.store.SaveArrangement(ctx, arrangement); err != nil {
		return ArrangementResult{}, fmt.Errorf("save arrangement: %w", err)
	}

	return ArrangementResult{
		RunID:            runID,
		Best:             result.Best,
		BestByGeneration: result.BestByGeneration,
		Diagnostics:      diagnostics,
		Arrangement:      arrangement,
	}, nil
}

func (c *Conductor) Store() storage.Store {
	return c.store
}

// ChordRecords converts an individual to its persistence form.
func ChordRecords(individual genotype.Individual) []model.ChordRecord {
	records := make([]model.ChordRecord, len(individual))
	for i, chord := range individual {
		notes := chord.Notes()
		records[i] = model.ChordRecord{
			Shape: chord.Shape.String(),
			Root:  int(chord.Root),
			Notes: [3]int{int(notes[0]), int(notes[1]), int(notes[2])},
		}
	}
	return records
}

func toModelDiagnostics(diagnostics []evo.GenerationDiagnostics) []model.GenerationDiagnostics {
	out := make([]model.GenerationDiagnostics, len(diagnostics))
	for i, d := range diagnostics {
		out[i] = model.GenerationDiagnostics{
			Generation:        d.Generation,
			BestFitness:       d.BestFitness,
			MeanFitness:       d.MeanFitness,
			MinFitness:        d.MinFitness,
			UniqueIndividuals: d.UniqueIndividuals,
		}
	}
	return out
}
