package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// ChordRecord is one slot of an arrangement in persistence form. Notes
// are MIDI numbers; a rest chord carries -1 in every field but Shape.
type ChordRecord struct {
	Shape string `json:"shape"`
	Root  int    `json:"root"`
	Notes [3]int `json:"notes"`
}

// Arrangement is the best chord sequence a run produced, together with
// the key it was searched in.
type Arrangement struct {
	VersionedRecord
	ID      string        `json:"id"`
	RunID   string        `json:"run_id"`
	Tonic   int           `json:"tonic"`
	Mode    string        `json:"mode"`
	Slots   int           `json:"slots"`
	Fitness float64       `json:"fitness"`
	Chords  []ChordRecord `json:"chords"`
}

type GenerationDiagnostics struct {
	Generation        int     `json:"generation"`
	BestFitness       float64 `json:"best_fitness"`
	MeanFitness       float64 `json:"mean_fitness"`
	MinFitness        float64 `json:"min_fitness"`
	UniqueIndividuals int     `json:"unique_individuals"`
}
