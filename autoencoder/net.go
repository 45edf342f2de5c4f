// Package autoencoder implements a linear autoencoder
// for dimensionality reduction.
package autoencoder

import (
	"math"
	"math/rand"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	serializer.RegisterTypedDeserializer((&Net{}).SerializerType(), DeserializeNet)
}

// A Net is a linear encoder/decoder pair.
//
// There are no biases and no non-linearities, so the
// learned codes preserve linear relationships between
// inputs.
type Net struct {
	In     int
	Hidden int

	// Encoder is the row-major In by Hidden matrix.
	Encoder *anydiff.Var

	// Decoder is the row-major Hidden by In matrix.
	Decoder *anydiff.Var
}

// NewNet creates a new, randomized network.
//
// Both matrices are initialized from a normal
// distribution scaled down by the square root of the
// fan-in, which keeps gradient magnitudes stable at the
// start of training.
// If gen is non-nil, it is used as the source of
// randomness, making the initialization reproducible.
//
// Since the network is meant for dimensionality
// reduction, hidden must be less than in.
// If it is not, or if either dimension is non-positive,
// the error is a *ConfigError.
func NewNet(c anyvec.Creator, in, hidden int, gen *rand.Rand) (*Net, error) {
	if in <= 0 {
		return nil, &ConfigError{Param: "in", Message: "must be positive"}
	}
	if hidden <= 0 {
		return nil, &ConfigError{Param: "hidden", Message: "must be positive"}
	}
	if hidden >= in {
		return nil, &ConfigError{Param: "hidden", Message: "must be less than in"}
	}
	res := &Net{
		In:      in,
		Hidden:  hidden,
		Encoder: anydiff.NewVar(c.MakeVector(in * hidden)),
		Decoder: anydiff.NewVar(c.MakeVector(hidden * in)),
	}
	anyvec.Rand(res.Encoder.Vector, anyvec.Normal, gen)
	anyvec.Rand(res.Decoder.Vector, anyvec.Normal, gen)
	res.Encoder.Vector.Scale(c.MakeNumeric(math.Sqrt(1 / float64(in))))
	res.Decoder.Vector.Scale(c.MakeNumeric(math.Sqrt(1 / float64(hidden))))
	return res, nil
}

// DeserializeNet deserializes a Net.
func DeserializeNet(d []byte) (*Net, error) {
	var in, hidden int
	var enc, dec *anyvecsave.S
	if err := serializer.DeserializeAny(d, &in, &hidden, &enc, &dec); err != nil {
		return nil, essentials.AddCtx("deserialize Net", err)
	}
	return &Net{
		In:      in,
		Hidden:  hidden,
		Encoder: anydiff.NewVar(enc.Vector),
		Decoder: anydiff.NewVar(dec.Vector),
	}, nil
}

// Encode applies the encoder to a batch of batchSize row
// vectors, producing a batch of codes.
//
// This is the reduced representation; after training, the
// decoder can be discarded and Encode used on its own.
func (n *Net) Encode(in anydiff.Res, batchSize int) anydiff.Res {
	if in.Output().Len() != batchSize*n.In {
		panic("incorrect input size")
	}
	inMat := &anydiff.Matrix{Data: in, Rows: batchSize, Cols: n.In}
	encMat := &anydiff.Matrix{Data: n.Encoder, Rows: n.In, Cols: n.Hidden}
	return anydiff.MatMul(false, false, inMat, encMat).Data
}

// Apply encodes and then decodes a batch of batchSize row
// vectors, producing reconstructions with the same shape
// as the input.
func (n *Net) Apply(in anydiff.Res, batchSize int) anydiff.Res {
	hidden := &anydiff.Matrix{
		Data: n.Encode(in, batchSize),
		Rows: batchSize,
		Cols: n.Hidden,
	}
	decMat := &anydiff.Matrix{Data: n.Decoder, Rows: n.Hidden, Cols: n.In}
	return anydiff.MatMul(false, false, hidden, decMat).Data
}

// EncodeBatch is like Encode, but it takes a matrix of
// row vectors and does not build a gradient graph.
// It is meant for inference, e.g. producing 2-D codes for
// a plotting tool.
func (n *Net) EncodeBatch(mat *anyvec.Matrix) *anyvec.Matrix {
	if mat.Cols != n.In {
		panic("incorrect input size")
	}
	c := n.Encoder.Vector.Creator()
	enc := &anyvec.Matrix{Data: n.Encoder.Vector, Rows: n.In, Cols: n.Hidden}
	out := &anyvec.Matrix{
		Data: c.MakeVector(mat.Rows * n.Hidden),
		Rows: mat.Rows,
		Cols: n.Hidden,
	}
	out.Product(false, false, c.MakeNumeric(1), mat, enc, c.MakeNumeric(0))
	return out
}

// ReconstructBatch is like Apply, but it takes a matrix
// of row vectors and does not build a gradient graph.
func (n *Net) ReconstructBatch(mat *anyvec.Matrix) *anyvec.Matrix {
	hidden := n.EncodeBatch(mat)
	c := n.Decoder.Vector.Creator()
	dec := &anyvec.Matrix{Data: n.Decoder.Vector, Rows: n.Hidden, Cols: n.In}
	out := &anyvec.Matrix{
		Data: c.MakeVector(mat.Rows * n.In),
		Rows: mat.Rows,
		Cols: n.In,
	}
	out.Product(false, false, c.MakeNumeric(1), hidden, dec, c.MakeNumeric(0))
	return out
}

// SerializerType returns the unique ID used to serialize
// a Net with the serializer package.
func (n *Net) SerializerType() string {
	return "github.com/unixpickle/linearembed/autoencoder.Net"
}

// Serialize serializes the Net.
func (n *Net) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		n.In,
		n.Hidden,
		&anyvecsave.S{Vector: n.Encoder.Vector},
		&anyvecsave.S{Vector: n.Decoder.Vector},
	)
}
