package evo

import (
	"context"
	"errors"
	"testing"

	"harmonia/internal/genotype"
)

func testMonitorConfig(t *testing.T, targets []float64) MonitorConfig {
	t.Helper()
	evaluator, err := NewEvaluator(targets, cMajorSet(), Weights{})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	return MonitorConfig{
		Evaluator:      evaluator,
		PopulationSize: 8,
		Generations:    20,
		MutationRate:   0.05,
		Workers:        2,
		Seed:           1,
	}
}

func TestNewPopulationMonitorConfig(t *testing.T) {
	base := testMonitorConfig(t, []float64{36, 36, 40, 43})

	cases := []struct {
		name   string
		mutate func(*MonitorConfig)
	}{
		{"missing evaluator", func(c *MonitorConfig) { c.Evaluator = nil }},
		{"odd population", func(c *MonitorConfig) { c.PopulationSize = 7 }},
		{"population too small", func(c *MonitorConfig) { c.PopulationSize = 0 }},
		{"zero generations", func(c *MonitorConfig) { c.Generations = 0 }},
		{"negative rate", func(c *MonitorConfig) { c.MutationRate = -0.5 }},
		{"rate above one", func(c *MonitorConfig) { c.MutationRate = 1.5 }},
	}
	for _, tc := range cases {
		cfg := base
		tc.mutate(&cfg)
		if _, err := NewPopulationMonitor(cfg); !errors.Is(err, ErrConfig) {
			t.Fatalf("%s: error = %v, want ErrConfig", tc.name, err)
		}
	}

	if _, err := NewPopulationMonitor(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestRunFourSlotMelody(t *testing.T) {
	// C5 C5 E5 G5 transposed down two octaves.
	cfg := testMonitorConfig(t, []float64{36, 36, 40, 43})
	monitor, err := NewPopulationMonitor(cfg)
	if err != nil {
		t.Fatalf("NewPopulationMonitor: %v", err)
	}

	result, err := monitor.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.BestByGeneration) != cfg.Generations {
		t.Fatalf("best history length = %d, want %d", len(result.BestByGeneration), cfg.Generations)
	}
	if len(result.GenerationDiagnostics) != cfg.Generations {
		t.Fatalf("diagnostics length = %d, want %d", len(result.GenerationDiagnostics), cfg.Generations)
	}
	if len(result.FinalPopulation) != cfg.PopulationSize {
		t.Fatalf("final population size = %d, want %d", len(result.FinalPopulation), cfg.PopulationSize)
	}
	if err := genotype.Validate(result.Best.Individual, 4); err != nil {
		t.Fatalf("best individual invalid: %v", err)
	}
	for i, item := range result.FinalPopulation {
		if err := genotype.Validate(item.Individual, 4); err != nil {
			t.Fatalf("final individual %d invalid: %v", i, err)
		}
		if item.Fitness > result.Best.Fitness {
			t.Fatalf("Best is not the fittest of the final generation")
		}
	}
	if last := result.BestByGeneration[len(result.BestByGeneration)-1]; last != result.Best.Fitness {
		t.Fatalf("final history entry %v != best fitness %v", last, result.Best.Fitness)
	}
}

func TestRunMinimumPopulation(t *testing.T) {
	// Population 2 halves to a single survivor, which must still be
	// able to breed the next generation.
	cfg := testMonitorConfig(t, []float64{36, 40, 43})
	cfg.PopulationSize = 2
	cfg.Generations = 3
	monitor, err := NewPopulationMonitor(cfg)
	if err != nil {
		t.Fatalf("NewPopulationMonitor: %v", err)
	}

	result, err := monitor.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.BestByGeneration) != cfg.Generations {
		t.Fatalf("best history length = %d, want %d", len(result.BestByGeneration), cfg.Generations)
	}
	if len(result.FinalPopulation) != cfg.PopulationSize {
		t.Fatalf("final population size = %d, want %d", len(result.FinalPopulation), cfg.PopulationSize)
	}
	for i, item := range result.FinalPopulation {
		if err := genotype.Validate(item.Individual, 3); err != nil {
			t.Fatalf("final individual %d invalid: %v", i, err)
		}
	}
}

func TestRunBestNeverRegresses(t *testing.T) {
	// Survivors carry into the next generation unmutated, so the best
	// fitness is monotone across generations.
	cfg := testMonitorConfig(t, []float64{36, 36, 40, 43, 41, 40, 38, 36})
	cfg.PopulationSize = 32
	cfg.Generations = 40
	monitor, err := NewPopulationMonitor(cfg)
	if err != nil {
		t.Fatalf("NewPopulationMonitor: %v", err)
	}

	result, err := monitor.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	history := result.BestByGeneration
	for i := 1; i < len(history); i++ {
		if history[i] < history[i-1] {
			t.Fatalf("best fitness regressed at generation %d: %v -> %v", i, history[i-1], history[i])
		}
	}
	if history[len(history)-1] <= history[0] {
		t.Fatalf("no improvement over %d generations: %v -> %v", cfg.Generations, history[0], history[len(history)-1])
	}
}

func TestRunDeterministicForSeed(t *testing.T) {
	run := func(workers int) RunResult {
		cfg := testMonitorConfig(t, []float64{36, 40, 43, 36})
		cfg.Workers = workers
		monitor, err := NewPopulationMonitor(cfg)
		if err != nil {
			t.Fatalf("NewPopulationMonitor: %v", err)
		}
		result, err := monitor.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return result
	}

	a := run(1)
	b := run(4)
	if len(a.BestByGeneration) != len(b.BestByGeneration) {
		t.Fatalf("history lengths differ across worker counts")
	}
	for i := range a.BestByGeneration {
		if a.BestByGeneration[i] != b.BestByGeneration[i] {
			t.Fatalf("generation %d best differs across worker counts: %v vs %v", i, a.BestByGeneration[i], b.BestByGeneration[i])
		}
	}
	for i := range a.Best.Individual {
		if a.Best.Individual[i] != b.Best.Individual[i] {
			t.Fatalf("best individual differs across worker counts at slot %d", i)
		}
	}
}

func TestRunHonorsContext(t *testing.T) {
	cfg := testMonitorConfig(t, []float64{36})
	cfg.Generations = 100000
	monitor, err := NewPopulationMonitor(cfg)
	if err != nil {
		t.Fatalf("NewPopulationMonitor: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := monitor.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled run error = %v, want context.Canceled", err)
	}
}
