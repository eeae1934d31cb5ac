package train

import (
	"fmt"
	"time"
)

// EpochResult summarizes one epoch.
type EpochResult struct {
	Epoch             int
	TrainCorrect      int
	TrainTotal        int
	ValidationCorrect int
	ValidationTotal   int
	MeanCost          float64 // Mean per-sample cost over the training pass
	CostStdDev        float64 // Population standard deviation of the per-sample cost
	Duration          time.Duration
}

// TrainAccuracy returns the training accuracy in percent.
func (r EpochResult) TrainAccuracy() float64 {
	return percent(r.TrainCorrect, r.TrainTotal)
}

// ValidationAccuracy returns the validation accuracy in percent.
func (r EpochResult) ValidationAccuracy() float64 {
	return percent(r.ValidationCorrect, r.ValidationTotal)
}

// String formats the result as "Epoch e: c/n<TAB>c/n<TAB>train%<TAB>validation%".
func (r EpochResult) String() string {
	return fmt.Sprintf("Epoch %d: %d/%d\t%d/%d\t%.6g\t%.6g",
		r.Epoch, r.TrainCorrect, r.TrainTotal, r.ValidationCorrect, r.ValidationTotal,
		r.TrainAccuracy(), r.ValidationAccuracy())
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
