package framework

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DistanceFunc measures the distance between two feature vectors of equal length.
type DistanceFunc func(a, b []float64) float64

// Euclidean is the default DistanceFunc.
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// Individual is a feature vector with an identity.
//
// Identity is the pointer: two *Individual values are the same entity only when
// they are the same pointer, regardless of their features. Individuals are
// shared between community snapshots and must not be modified once placed,
// except through Randomize before they are handed to a community.
type Individual struct {
	ID       string
	Features []float64
}

func NewIndividual(id string, features []float64) *Individual {
	if features == nil {
		features = []float64{}
	}
	return &Individual{
		ID:       id,
		Features: features,
	}
}

// NewRandomIndividual creates an individual with featureCount random features in [minValue, maxValue].
func NewRandomIndividual(rng Rand, id string, featureCount int, minValue, maxValue float64) *Individual {
	ind := NewIndividual(id, nil)
	ind.Randomize(rng, featureCount, minValue, maxValue)
	return ind
}

// Randomize replaces the features with featureCount uniform values in
// [minValue, maxValue]. Whole-number bounds yield whole-number features;
// fractional bounds yield real values. A reversed range is swapped.
func (ind *Individual) Randomize(rng Rand, featureCount int, minValue, maxValue float64) {
	if minValue > maxValue {
		minValue, maxValue = maxValue, minValue
	}
	whole := minValue == math.Trunc(minValue) && maxValue == math.Trunc(maxValue)
	features := make([]float64, featureCount)
	for i := range features {
		if whole {
			features[i] = minValue + float64(rng.IntN(int(maxValue-minValue)+1))
		} else {
			features[i] = minValue + rng.Float64()*(maxValue-minValue)
		}
	}
	ind.Features = features
}

func (ind *Individual) FeatureCount() int {
	return len(ind.Features)
}

// Distance is the Euclidean distance to other.
func (ind *Individual) Distance(other *Individual) float64 {
	return Euclidean(ind.Features, other.Features)
}
