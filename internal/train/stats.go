package train

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// costSummary returns the mean and population standard deviation of per-sample costs.
// An empty training pass has zero cost.
func costSummary(costs []float64) (mean, stddev float64, err error) {
	if len(costs) == 0 {
		return 0, 0, nil
	}
	if mean, err = stats.Mean(costs); err != nil {
		return 0, 0, fmt.Errorf("cost mean: %w", err)
	}
	if stddev, err = stats.StandardDeviationPopulation(costs); err != nil {
		return 0, 0, fmt.Errorf("cost stddev: %w", err)
	}
	return mean, stddev, nil
}

// Summary aggregates validation accuracy over several epochs.
type Summary struct {
	Best   EpochResult // Epoch with the highest validation accuracy (earliest on ties)
	Mean   float64     // Mean validation accuracy in percent
	StdDev float64     // Population standard deviation of validation accuracy
	Median float64     // Median validation accuracy
}

// Summarize aggregates epoch results. It returns false for an empty slice.
func Summarize(results []EpochResult) (Summary, bool, error) {
	if len(results) == 0 {
		return Summary{}, false, nil
	}

	acc := validationAccuracies(results)
	s := Summary{Best: results[0]}
	for _, r := range results[1:] {
		if r.ValidationAccuracy() > s.Best.ValidationAccuracy() {
			s.Best = r
		}
	}

	var err error
	if s.Mean, err = stats.Mean(acc); err != nil {
		return Summary{}, false, fmt.Errorf("accuracy mean: %w", err)
	}
	if s.StdDev, err = stats.StandardDeviationPopulation(acc); err != nil {
		return Summary{}, false, fmt.Errorf("accuracy stddev: %w", err)
	}
	if s.Median, err = stats.Median(acc); err != nil {
		return Summary{}, false, fmt.Errorf("accuracy median: %w", err)
	}
	return s, true, nil
}

func validationAccuracies(results []EpochResult) []float64 {
	acc := make([]float64, len(results))
	for i, r := range results {
		acc[i] = r.ValidationAccuracy()
	}
	return acc
}

func trainAccuracies(results []EpochResult) []float64 {
	acc := make([]float64, len(results))
	for i, r := range results {
		acc[i] = r.TrainAccuracy()
	}
	return acc
}
