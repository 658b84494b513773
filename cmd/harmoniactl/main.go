package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"harmonia/internal/platform"
	"harmonia/internal/stats"
	"harmonia/internal/storage"
	"harmonia/pkg/harmonia"
)

const (
	artifactsDir = "arrangements"
	exportsDir   = "exports"
	dbPath       = "harmonia.db"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "arrange":
		return runArrange(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "chords":
		return runChords(ctx, args[1:])
	case "summary":
		return runSummary(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPathFlag := fs.String("db-path", dbPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPathFlag)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	conductor, err := platform.NewConductor(platform.Config{Store: store})
	if err != nil {
		return err
	}
	if err := conductor.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPathFlag := fs.String("db-path", dbPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPathFlag)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	conductor, err := platform.NewConductor(platform.Config{Store: store})
	if err != nil {
		return err
	}
	if err := conductor.Init(ctx); err != nil {
		return err
	}
	if err := conductor.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runArrange(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("arrange", flag.ContinueOnError)
	input := fs.String("input", "", "melody midi file to accompany")
	output := fs.String("output", "", "arranged midi output path (default: input with .harmonized.mid)")
	population := fs.Int("population", harmonia.DefaultPopulation, "population size (even, >= 2)")
	generations := fs.Int("generations", harmonia.DefaultGenerations, "generation budget")
	mutationRate := fs.Float64("mutation-rate", harmonia.DefaultMutationRate, "per-slot reset mutation probability")
	seed := fs.Int64("seed", 1, "random seed")
	workers := fs.Int("workers", 4, "parallel fitness workers")
	runID := fs.String("run-id", "", "run identifier (default: random uuid)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPathFlag := fs.String("db-path", dbPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return errors.New("arrange requires -input")
	}

	client, err := harmonia.New(harmonia.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPathFlag,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Arrange(ctx, harmonia.ArrangeRequest{
		RunID:        *runID,
		InputPath:    *input,
		OutputPath:   *output,
		Population:   *population,
		Generations:  *generations,
		MutationRate: mutationRate,
		Seed:         *seed,
		Workers:      *workers,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run_id=%s\n", summary.RunID)
	fmt.Printf("key=%s slots=%d\n", summary.Key, summary.Slots)
	fmt.Printf("final_best_fitness=%.2f\n", summary.FinalBestFitness)
	fmt.Printf("output=%s\n", summary.OutputPath)
	fmt.Printf("artifacts=%s\n", summary.ArtifactsDir)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := harmonia.New(harmonia.Options{ArtifactsDir: artifactsDir, ExportsDir: exportsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, harmonia.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	if *jsonOut {
		return printJSON(runs)
	}
	for _, item := range runs {
		fmt.Printf("%s\t%s\t%s\tslots=%d\tpop=%d\tgens=%d\tseed=%d\tbest=%.2f\n",
			item.RunID, item.CreatedAtUTC, item.Key, item.Slots, item.Population, item.Generations, item.Seed, item.FinalBestFitness)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", 0, "max generations to print (0 = all)")
	jsonOut := fs.Bool("json", false, "emit history as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPathFlag := fs.String("db-path", dbPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := harmonia.New(harmonia.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPathFlag,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	history, err := client.FitnessHistory(ctx, harmonia.FitnessHistoryRequest{RunID: *runID, Latest: *latest, Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(history)
	}
	for i, best := range history {
		fmt.Printf("%d\t%.2f\n", i+1, best)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", 0, "max generations to print (0 = all)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPathFlag := fs.String("db-path", dbPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := harmonia.New(harmonia.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPathFlag,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	diagnostics, err := client.Diagnostics(ctx, harmonia.DiagnosticsRequest{RunID: *runID, Latest: *latest, Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(diagnostics)
	}
	for _, d := range diagnostics {
		fmt.Printf("gen=%d\tbest=%.2f\tmean=%.2f\tmin=%.2f\tunique=%d\n",
			d.Generation, d.BestFitness, d.MeanFitness, d.MinFitness, d.UniqueIndividuals)
	}
	return nil
}

func runChords(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chords", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	latest := fs.Bool("latest", false, "use the most recent run")
	jsonOut := fs.Bool("json", false, "emit arrangement as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPathFlag := fs.String("db-path", dbPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := harmonia.New(harmonia.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPathFlag,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	arrangement, err := client.Arrangement(ctx, harmonia.ArrangementRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(arrangement)
	}
	fmt.Printf("run_id=%s key=%d %s fitness=%.2f\n", arrangement.RunID, arrangement.Tonic, arrangement.Mode, arrangement.Fitness)
	for i, chord := range arrangement.Chords {
		fmt.Printf("%d\t%s\troot=%d\tnotes=%v\n", i+1, chord.Shape, chord.Root, chord.Notes)
	}
	return nil
}

func runSummary(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	latest := fs.Bool("latest", false, "use the most recent run")
	jsonOut := fs.Bool("json", false, "emit summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id := *runID
	if id == "" {
		if !*latest {
			return errors.New("summary requires -run-id or -latest")
		}
		entries, err := stats.ListRunIndex(artifactsDir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return errors.New("no runs available")
		}
		id = entries[0].RunID
	}

	series, ok, err := stats.ReadFitnessSeries(artifactsDir, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("fitness series not found for run id: %s", id)
	}
	summary, err := stats.SummarizeSeries(series)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(summary)
	}
	fmt.Printf("run_id=%s generations=%d\n", id, summary.Generations)
	fmt.Printf("initial=%.2f final=%.2f improvement=%.2f\n", summary.InitialBest, summary.FinalBest, summary.Improvement)
	fmt.Printf("mean=%.2f std=%.2f min=%.2f max=%.2f\n", summary.Mean, summary.Std, summary.Min, summary.Max)
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	latest := fs.Bool("latest", false, "use the most recent run")
	outDir := fs.String("out", exportsDir, "export destination directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := harmonia.New(harmonia.Options{ArtifactsDir: artifactsDir, ExportsDir: exportsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, harmonia.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s to %s\n", summary.RunID, summary.Directory)
	return nil
}

func printJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: harmoniactl <init|reset|arrange|runs|fitness|diagnostics|chords|summary|export> [flags]", msg)
}
