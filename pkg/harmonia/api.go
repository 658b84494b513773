package harmonia

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"harmonia/internal/melody"
	"harmonia/internal/midifile"
	"harmonia/internal/model"
	"harmonia/internal/platform"
	"harmonia/internal/stats"
	"harmonia/internal/storage"
)

const (
	defaultArtifactsDir = "arrangements"
	defaultExportsDir   = "exports"
	defaultDBPath       = "harmonia.db"

	// DefaultPopulation and DefaultGenerations reproduce the search
	// budget the accompaniment quality was calibrated with.
	DefaultPopulation   = 1024
	DefaultGenerations  = 5000
	DefaultMutationRate = 0.05
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
}

// Client is the embedding-friendly entry point: it owns a store and a
// conductor and turns melody files into arrangement files plus run
// artifacts.
type Client struct {
	store     storage.Store
	conductor *platform.Conductor

	artifactsDir string
	exportsDir   string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	conductor, err := platform.NewConductor(platform.Config{Store: store})
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		conductor:    conductor,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.conductor.Init(ctx)
}

func (c *Client) Reset(ctx context.Context) error {
	return c.conductor.Reset(ctx)
}

type ArrangeRequest struct {
	RunID       string
	InputPath   string
	OutputPath  string
	Population  int
	Generations int
	// MutationRate left nil selects DefaultMutationRate. A pointer to
	// zero disables mutation entirely.
	MutationRate *float64
	Seed         int64
	Workers      int
}

type ArrangeSummary struct {
	RunID            string
	InputPath        string
	OutputPath       string
	Key              string
	Slots            int
	ArtifactsDir     string
	FinalBestFitness float64
	BestByGeneration []float64
	Chords           []model.ChordRecord
}

// Arrange runs the whole pipeline: read the melody, profile it, detect
// its key, evolve an accompaniment, write the arranged file and the
// run artifacts, and index the run.
func (c *Client) Arrange(ctx context.Context, req ArrangeRequest) (ArrangeSummary, error) {
	if req.InputPath == "" {
		return ArrangeSummary{}, errors.New("input path is required")
	}
	if req.Population <= 0 {
		req.Population = DefaultPopulation
	}
	if req.Generations <= 0 {
		req.Generations = DefaultGenerations
	}
	mutationRate := DefaultMutationRate
	if req.MutationRate != nil {
		mutationRate = *req.MutationRate
	}
	if mutationRate < 0 || mutationRate > 1 {
		return ArrangeSummary{}, fmt.Errorf("mutation rate %v outside [0,1]", mutationRate)
	}
	if req.Workers <= 0 {
		req.Workers = 4
	}
	if req.OutputPath == "" {
		req.OutputPath = defaultOutputPath(req.InputPath)
	}
	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	if err := c.Init(ctx); err != nil {
		return ArrangeSummary{}, err
	}

	melodyFile, err := midifile.ReadMelody(req.InputPath)
	if err != nil {
		return ArrangeSummary{}, err
	}
	profile := melody.BuildProfile(melodyFile.Events, melodyFile.TicksPerQuarter)
	key, err := melody.DetectKey(profile)
	if err != nil {
		return ArrangeSummary{}, fmt.Errorf("detect key of %s: %w", req.InputPath, err)
	}

	result, err := c.conductor.RunArrangement(ctx, platform.ArrangementConfig{
		RunID:          runID,
		Profile:        profile,
		Key:            key,
		PopulationSize: req.Population,
		Generations:    req.Generations,
		MutationRate:   mutationRate,
		Workers:        req.Workers,
		Seed:           req.Seed,
	})
	if err != nil {
		return ArrangeSummary{}, err
	}

	if err := midifile.WriteArrangement(req.OutputPath, melodyFile, result.Best.Individual); err != nil {
		return ArrangeSummary{}, err
	}

	artifactsDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:          runID,
			InputPath:      req.InputPath,
			OutputPath:     req.OutputPath,
			Tonic:          key.Tonic,
			Mode:           key.Mode.String(),
			Slots:          profile.SlotCount(),
			PopulationSize: req.Population,
			Generations:    req.Generations,
			MutationRate:   mutationRate,
			Seed:           req.Seed,
			Workers:        req.Workers,
		},
		BestByGeneration:      result.BestByGeneration,
		GenerationDiagnostics: result.Diagnostics,
		FinalBestFitness:      result.Best.Fitness,
		BestChords:            result.Arrangement.Chords,
	})
	if err != nil {
		return ArrangeSummary{}, err
	}

	if err := stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
		RunID:            runID,
		InputPath:        req.InputPath,
		OutputPath:       req.OutputPath,
		Key:              key.String(),
		Slots:            profile.SlotCount(),
		PopulationSize:   req.Population,
		Generations:      req.Generations,
		Seed:             req.Seed,
		Workers:          req.Workers,
		FinalBestFitness: result.Best.Fitness,
		CreatedAtUTC:     time.Now().UTC().Format(time.RFC3339Nano),
	}); err != nil {
		return ArrangeSummary{}, err
	}

	return ArrangeSummary{
		RunID:            runID,
		InputPath:        req.InputPath,
		OutputPath:       req.OutputPath,
		Key:              key.String(),
		Slots:            profile.SlotCount(),
		ArtifactsDir:     artifactsDir,
		FinalBestFitness: result.Best.Fitness,
		BestByGeneration: result.BestByGeneration,
		Chords:           result.Arrangement.Chords,
	}, nil
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID            string
	CreatedAtUTC     string
	InputPath        string
	Key              string
	Slots            int
	Population       int
	Generations      int
	Seed             int64
	FinalBestFitness float64
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	items := make([]RunItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, RunItem{
			RunID:            entry.RunID,
			CreatedAtUTC:     entry.CreatedAtUTC,
			InputPath:        entry.InputPath,
			Key:              entry.Key,
			Slots:            entry.Slots,
			Population:       entry.PopulationSize,
			Generations:      entry.Generations,
			Seed:             entry.Seed,
			FinalBestFitness: entry.FinalBestFitness,
		})
	}
	return items, nil
}

type FitnessHistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

func (c *Client) FitnessHistory(ctx context.Context, req FitnessHistoryRequest) ([]float64, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, req.Limit)
	if err != nil {
		return nil, err
	}

	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fitness history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return append([]float64(nil), history...), nil
}

type DiagnosticsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

func (c *Client) Diagnostics(ctx context.Context, req DiagnosticsRequest) ([]model.GenerationDiagnostics, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, req.Limit)
	if err != nil {
		return nil, err
	}

	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("diagnostics not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(diagnostics) > req.Limit {
		diagnostics = diagnostics[:req.Limit]
	}
	out := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(out, diagnostics)
	return out, nil
}

type ArrangementRequest struct {
	RunID  string
	Latest bool
}

func (c *Client) Arrangement(ctx context.Context, req ArrangementRequest) (model.Arrangement, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, 0)
	if err != nil {
		return model.Arrangement{}, err
	}

	arrangement, ok, err := c.store.GetArrangement(ctx, runID)
	if err != nil {
		return model.Arrangement{}, err
	}
	if !ok {
		return model.Arrangement{}, fmt.Errorf("arrangement not found for run id: %s", runID)
	}
	return arrangement, nil
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, 0)
	if err != nil {
		return ExportSummary{}, err
	}
	outDir := req.OutDir
	if outDir == "" {
		outDir = c.exportsDir
	}

	dst, err := stats.ExportRunArtifacts(c.artifactsDir, runID, outDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: dst}, nil
}

func (c *Client) resolveRunID(runID string, latest bool, limit int) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if limit < 0 {
		return "", errors.New("limit must be >= 0")
	}
	if latest {
		entries, err := stats.ListRunIndex(c.artifactsDir)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "", errors.New("no runs available")
		}
		return entries[0].RunID, nil
	}
	if runID == "" {
		return "", errors.New("run id or latest is required")
	}
	return runID, nil
}

func defaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".harmonized.mid"
}
