package storage

import (
	"context"

	"harmonia/internal/model"
)

// Store defines persistence for arrangement runs. Implementations are
// safe for concurrent use.
type Store interface {
	Init(ctx context.Context) error
	SaveArrangement(ctx context.Context, arrangement model.Arrangement) error
	GetArrangement(ctx context.Context, runID string) (model.Arrangement, bool, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
}

// Resetter is implemented by stores that can drop all persisted data.
type Resetter interface {
	Reset(ctx context.Context) error
}
