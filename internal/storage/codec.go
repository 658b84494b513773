package storage

import (
	"encoding/json"
	"errors"

	"harmonia/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeArrangement(a model.Arrangement) ([]byte, error) {
	return json.Marshal(a)
}

func DecodeArrangement(data []byte) (model.Arrangement, error) {
	var arrangement model.Arrangement
	if err := json.Unmarshal(data, &arrangement); err != nil {
		return model.Arrangement{}, err
	}
	if err := checkVersion(arrangement.VersionedRecord); err != nil {
		return model.Arrangement{}, err
	}
	return arrangement, nil
}

func EncodeFitnessHistory(history []float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeFitnessHistory(data []byte) ([]float64, error) {
	var history []float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func EncodeGenerationDiagnostics(diagnostics []model.GenerationDiagnostics) ([]byte, error) {
	return json.Marshal(diagnostics)
}

func DecodeGenerationDiagnostics(data []byte) ([]model.GenerationDiagnostics, error) {
	var diagnostics []model.GenerationDiagnostics
	if err := json.Unmarshal(data, &diagnostics); err != nil {
		return nil, err
	}
	return diagnostics, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
