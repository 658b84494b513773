package storage

import (
	"context"
	"sync"

	"harmonia/internal/model"
)

type MemoryStore struct {
	mu           sync.RWMutex
	arrangements map[string]model.Arrangement
	history      map[string][]float64
	diagnostics  map[string][]model.GenerationDiagnostics
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.arrangements = make(map[string]model.Arrangement)
	s.history = make(map[string][]float64)
	s.diagnostics = make(map[string][]model.GenerationDiagnostics)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}

func (s *MemoryStore) SaveArrangement(_ context.Context, arrangement model.Arrangement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	arrangement.Chords = append([]model.ChordRecord(nil), arrangement.Chords...)
	s.arrangements[arrangement.RunID] = arrangement
	return nil
}

func (s *MemoryStore) GetArrangement(_ context.Context, runID string) (model.Arrangement, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	arrangement, ok := s.arrangements[runID]
	if !ok {
		return model.Arrangement{}, false, nil
	}
	arrangement.Chords = append([]model.ChordRecord(nil), arrangement.Chords...)
	return arrangement, true, nil
}

func (s *MemoryStore) SaveFitnessHistory(_ context.Context, runID string, history []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[runID] = append([]float64(nil), history...)
	return nil
}

func (s *MemoryStore) GetFitnessHistory(_ context.Context, runID string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), history...), true, nil
}

func (s *MemoryStore) SaveGenerationDiagnostics(_ context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	s.diagnostics[runID] = copied
	return nil
}

func (s *MemoryStore) GetGenerationDiagnostics(_ context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnostics, ok := s.diagnostics[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	return copied, true, nil
}
