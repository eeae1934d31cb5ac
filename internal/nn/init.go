package nn

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer fills the input weights of one neuron and returns its bias.
type Initializer func(weights []float32) (bias float32)

// NormalInitializer draws every weight and the bias independently from N(0, 1).
//
// The bias is drawn once per neuron, after its weights. Given the same source state
// the produced network is identical.
func NormalInitializer(src rand.Source) Initializer {
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	return func(weights []float32) float32 {
		for i := range weights {
			weights[i] = float32(dist.Rand())
		}
		return float32(dist.Rand())
	}
}

// Zeros sets every weight and the bias to zero.
func Zeros(weights []float32) float32 {
	for i := range weights {
		weights[i] = 0
	}
	return 0
}

// Constant sets every weight to w and the bias to b.
func Constant(w, b float32) Initializer {
	return func(weights []float32) float32 {
		for i := range weights {
			weights[i] = w
		}
		return b
	}
}
