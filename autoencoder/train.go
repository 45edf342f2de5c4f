package autoencoder

import (
	"math"
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
)

// DefaultRate is the learning rate used by a Trainer with
// no explicit rate.
const DefaultRate = 0.05

// A Trainer trains a Net with mini-batch stochastic
// gradient descent.
//
// The update rule is a plain gradient step with no
// internal optimizer state, so a Trainer can be discarded
// and recreated between calls without changing the
// result.
type Trainer struct {
	Net *Net

	// Rate is the learning rate.
	//
	// If 0, DefaultRate is used.
	Rate float64

	// BatchSize is the number of rows per mini-batch.
	BatchSize int

	// Gen, if non-nil, is used to shuffle the sample order
	// each epoch, making training reproducible.
	Gen *rand.Rand

	// StatusFunc, if non-nil, is called with the cost of
	// each mini-batch.
	StatusFunc func(cost float64)
}

// Train runs mini-batch gradient descent over the data
// for the given number of epochs, minimizing the mean
// squared reconstruction error.
//
// Each row of data is one sample.
// The sample order is reshuffled at every epoch.
//
// The returned slice contains the cost of every
// mini-batch, in order.
// If the cost ever becomes NaN or infinite, training
// stops and a *DivergenceError is returned along with the
// history up to that point.
func (t *Trainer) Train(data *anyvec.Matrix, epochs int) ([]float64, error) {
	if data.Cols != t.Net.In {
		panic("incorrect input size")
	}
	if err := t.checkConfig(data.Rows, epochs); err != nil {
		return nil, err
	}
	rate := t.Rate
	if rate == 0 {
		rate = DefaultRate
	}
	c := t.Net.Encoder.Vector.Creator()

	perm := make([]int, data.Rows)
	for i := range perm {
		perm[i] = i
	}

	var history []float64
	for epoch := 0; epoch < epochs; epoch++ {
		t.shuffle(perm)
		for batch := 0; batch*t.BatchSize < data.Rows; batch++ {
			start := batch * t.BatchSize
			end := start + t.BatchSize
			if end > data.Rows {
				end = data.Rows
			}
			n := end - start
			in := anydiff.NewConst(t.gatherRows(data, perm[start:end]))

			out := t.Net.Apply(in, n)
			cost := batchCost(out, in, n, t.Net.In)

			costVal := numToFloat(anyvec.Sum(cost.Output()))
			history = append(history, costVal)
			if t.StatusFunc != nil {
				t.StatusFunc(costVal)
			}
			if math.IsNaN(costVal) || math.IsInf(costVal, 0) {
				return history, &DivergenceError{
					Epoch: epoch,
					Batch: batch,
					Cost:  costVal,
				}
			}

			upstream := c.MakeVector(1)
			upstream.AddScalar(c.MakeNumeric(1))
			grad := anydiff.NewGrad(t.Net.Encoder, t.Net.Decoder)
			cost.Propagate(upstream, grad)

			for _, param := range []*anydiff.Var{t.Net.Encoder, t.Net.Decoder} {
				g := grad[param]
				g.Scale(c.MakeNumeric(rate))
				param.Vector.Sub(g)
			}
		}
	}
	return history, nil
}

// MeanSquaredError computes the mean, over all of the
// components, of the squared difference between two
// vectors of the same length.
func MeanSquaredError(actual, desired anyvec.Vector) float64 {
	if actual.Len() != desired.Len() {
		panic("incorrect vector length")
	}
	diff := actual.Copy()
	diff.Sub(desired)
	diff.Mul(diff.Copy())
	return numToFloat(anyvec.Sum(diff)) / float64(diff.Len())
}

func (t *Trainer) checkConfig(numSamples, epochs int) error {
	if epochs <= 0 {
		return &ConfigError{Param: "epochs", Message: "must be positive"}
	}
	if t.BatchSize <= 0 {
		return &ConfigError{Param: "batch size", Message: "must be positive"}
	}
	if t.BatchSize > numSamples {
		return &ConfigError{Param: "batch size",
			Message: "exceeds the number of samples"}
	}
	if t.Rate < 0 {
		return &ConfigError{Param: "rate", Message: "must not be negative"}
	}
	return nil
}

func (t *Trainer) shuffle(perm []int) {
	swap := func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	}
	if t.Gen != nil {
		t.Gen.Shuffle(len(perm), swap)
	} else {
		rand.Shuffle(len(perm), swap)
	}
}

func (t *Trainer) gatherRows(data *anyvec.Matrix, ids []int) anyvec.Vector {
	rows := make([]anyvec.Vector, len(ids))
	for i, id := range ids {
		rows[i] = data.Data.Slice(id*data.Cols, (id+1)*data.Cols)
	}
	return data.Data.Creator().Concat(rows...)
}

// batchCost is the mean squared error over all of the
// n*dim components, as a single-component Res.
func batchCost(actual, desired anydiff.Res, n, dim int) anydiff.Res {
	c := actual.Output().Creator()
	return anydiff.Scale(
		anydiff.Sum(anydiff.Square(anydiff.Sub(actual, desired))),
		c.MakeNumeric(1/float64(n*dim)),
	)
}

func numToFloat(num anyvec.Numeric) float64 {
	switch num := num.(type) {
	case float32:
		return float64(num)
	case float64:
		return num
	default:
		panic("unsupported numeric type")
	}
}
