package storage

import (
	"errors"
	"testing"

	"harmonia/internal/model"
)

func TestArrangementCodecRoundTrip(t *testing.T) {
	arrangement := testArrangement("run-1")
	payload, err := EncodeArrangement(arrangement)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeArrangement(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.RunID != arrangement.RunID || decoded.Chords[0] != arrangement.Chords[0] {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestDecodeArrangementVersionMismatch(t *testing.T) {
	arrangement := testArrangement("run-1")
	arrangement.SchemaVersion = CurrentSchemaVersion + 1
	payload, err := EncodeArrangement(arrangement)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeArrangement(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("decode error = %v, want ErrVersionMismatch", err)
	}
}

func TestDecodeArrangementRejectsGarbage(t *testing.T) {
	if _, err := DecodeArrangement([]byte("not json")); err == nil {
		t.Fatalf("expected decode error for malformed payload")
	}
}

func TestGenerationDiagnosticsCodec(t *testing.T) {
	diagnostics := []model.GenerationDiagnostics{
		{Generation: 1, BestFitness: 10, MeanFitness: 4, MinFitness: -3, UniqueIndividuals: 7},
		{Generation: 2, BestFitness: 12, MeanFitness: 6, MinFitness: -1, UniqueIndividuals: 5},
	}
	payload, err := EncodeGenerationDiagnostics(diagnostics)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeGenerationDiagnostics(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[1] != diagnostics[1] {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}
