package training

import (
	"math"

	"github.com/okian/pathwise/internal/domain/model"
	"github.com/okian/pathwise/internal/domain/scaler"
)

// FitScaler computes per-feature mean and population standard deviation.
// A zero deviation is replaced by 1 so constant features pass through.
func FitScaler(samples []Sample) (*scaler.Scaler, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyDataset
	}
	mean := make([]float64, model.NumFeatures)
	scale := make([]float64, model.NumFeatures)
	n := float64(len(samples))

	for _, s := range samples {
		for i, v := range s.X {
			mean[i] += v
		}
	}
	for i := range mean {
		mean[i] /= n
	}
	for _, s := range samples {
		for i, v := range s.X {
			d := v - mean[i]
			scale[i] += d * d
		}
	}
	for i := range scale {
		scale[i] = math.Sqrt(scale[i] / n)
		if scale[i] == 0 {
			scale[i] = 1
		}
	}
	return scaler.New(scaler.State{Mean: mean, Scale: scale})
}
