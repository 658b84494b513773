package stats

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SeriesSummary condenses a best-by-generation series.
type SeriesSummary struct {
	Generations int     `json:"generations"`
	InitialBest float64 `json:"initial_best"`
	FinalBest   float64 `json:"final_best"`
	Mean        float64 `json:"mean"`
	Std         float64 `json:"std"`
	Max         float64 `json:"max"`
	Min         float64 `json:"min"`
	Improvement float64 `json:"improvement"`
}

func SummarizeSeries(series []float64) (SeriesSummary, error) {
	if len(series) == 0 {
		return SeriesSummary{}, fmt.Errorf("empty fitness series")
	}

	summary := SeriesSummary{
		Generations: len(series),
		InitialBest: series[0],
		FinalBest:   series[len(series)-1],
		Mean:        stat.Mean(series, nil),
		Max:         floats.Max(series),
		Min:         floats.Min(series),
		Improvement: series[len(series)-1] - series[0],
	}
	if len(series) > 1 {
		summary.Std = stat.StdDev(series, nil)
	}
	return summary, nil
}
