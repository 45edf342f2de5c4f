package autoencoder

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/unixpickle/anydiff"
	"github.com/unixpickle/anydiff/anydifftest"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/anyvec/anyvec64"
	"github.com/unixpickle/serializer"
)

func TestNewNetConfig(t *testing.T) {
	c := anyvec64.CurrentCreator()
	bad := [][2]int{{4, 4}, {4, 5}, {0, 1}, {3, 0}}
	for _, dims := range bad {
		_, err := NewNet(c, dims[0], dims[1], nil)
		if err == nil {
			t.Errorf("dims %v: expected error", dims)
			continue
		}
		var config *ConfigError
		if !errors.As(err, &config) {
			t.Errorf("dims %v: expected *ConfigError but got %T", dims, err)
		}
	}
	if _, err := NewNet(c, 4, 2, nil); err != nil {
		t.Error("valid dims gave error:", err)
	}
}

func TestNetShapes(t *testing.T) {
	c := anyvec64.CurrentCreator()
	net, err := NewNet(c, 4, 2, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatal(err)
	}
	inVec := c.MakeVector(3 * 4)
	anyvec.Rand(inVec, anyvec.Normal, nil)
	in := anydiff.NewConst(inVec)

	if out := net.Apply(in, 3); out.Output().Len() != 3*4 {
		t.Errorf("reconstruction length should be 12 but got %d", out.Output().Len())
	}
	if enc := net.Encode(in, 3); enc.Output().Len() != 3*2 {
		t.Errorf("code length should be 6 but got %d", enc.Output().Len())
	}

	mat := &anyvec.Matrix{Data: inVec, Rows: 3, Cols: 4}
	if enc := net.EncodeBatch(mat); enc.Rows != 3 || enc.Cols != 2 {
		t.Errorf("code shape should be (3, 2) but got (%d, %d)", enc.Rows, enc.Cols)
	}
	if rec := net.ReconstructBatch(mat); rec.Rows != 3 || rec.Cols != 4 {
		t.Errorf("reconstruction shape should be (3, 4) but got (%d, %d)",
			rec.Rows, rec.Cols)
	}
}

func TestNetApplyMatchesBatch(t *testing.T) {
	c := anyvec64.CurrentCreator()
	net, err := NewNet(c, 5, 3, rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatal(err)
	}
	inVec := c.MakeVector(4 * 5)
	anyvec.Rand(inVec, anyvec.Normal, nil)

	graphOut := net.Apply(anydiff.NewConst(inVec), 4).Output().Data().([]float64)
	mat := &anyvec.Matrix{Data: inVec, Rows: 4, Cols: 5}
	batchOut := net.ReconstructBatch(mat).Data.Data().([]float64)

	if len(graphOut) != len(batchOut) {
		t.Fatal("length mismatch")
	}
	for i, x := range graphOut {
		if math.Abs(x-batchOut[i]) > 1e-9 {
			t.Errorf("component %d: %v != %v", i, x, batchOut[i])
		}
	}
}

func TestNetProp(t *testing.T) {
	c := anyvec32.CurrentCreator()
	net, err := NewNet(c, 5, 2, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	inVec := c.MakeVector(3 * 5)
	anyvec.Rand(inVec, anyvec.Normal, nil)
	in := anydiff.NewConst(inVec)
	checker := anydifftest.ResChecker{
		F: func() anydiff.Res {
			return batchCost(net.Apply(in, 3), in, 3, net.In)
		},
		V:     []*anydiff.Var{net.Encoder, net.Decoder},
		Delta: 1e-2,
		Prec:  1e-3,
	}
	checker.FullCheck(t)
}

func TestNetSerialize(t *testing.T) {
	c := anyvec64.CurrentCreator()
	net, err := NewNet(c, 6, 2, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	data, err := serializer.SerializeAny(net)
	if err != nil {
		t.Fatal(err)
	}
	var net1 *Net
	if err := serializer.DeserializeAny(data, &net1); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(net, net1) {
		t.Error("invalid result")
	}
}
