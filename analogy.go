package linearembed

import (
	"errors"
	"fmt"

	"github.com/unixpickle/anyvec"
)

// An UnknownTokenError indicates that a token is not in
// an embedding's vocabulary.
type UnknownTokenError struct {
	Token string
}

// Error returns a message naming the missing token.
func (u *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token: %q", u.Token)
}

// Analogy computes a query vector for an analogy by
// adding the vectors of the positive tokens and
// subtracting the vectors of the negative tokens.
//
// The result can be passed to Lookup to complete the
// analogy.
// Callers will typically want to pass the query tokens
// themselves as Lookup exclusions, since they tend to be
// trivially close to the query vector.
//
// If any token is missing from the table, the error is an
// *UnknownTokenError.
func (e *Embedding) Analogy(positive, negative []string) (anyvec.Vector, error) {
	if len(positive) == 0 && len(negative) == 0 {
		return nil, errors.New("analogy: no query tokens")
	}
	res := e.Vectors.Data.Creator().MakeVector(e.Dim())
	for _, tok := range positive {
		vec, err := e.Embed(tok)
		if err != nil {
			return nil, err
		}
		res.Add(vec)
	}
	for _, tok := range negative {
		vec, err := e.Embed(tok)
		if err != nil {
			return nil, err
		}
		res.Sub(vec)
	}
	return res, nil
}

// Cosine computes the cosine similarity between two
// vectors of the same length.
//
// The similarity is symmetric and does not depend on the
// magnitudes of the vectors.
func Cosine(u, v anyvec.Vector) anyvec.Numeric {
	if u.Len() != v.Len() {
		panic("incorrect vector length")
	}
	ops := u.Creator().NumOps()
	return ops.Div(u.Dot(v), ops.Mul(anyvec.Norm(u), anyvec.Norm(v)))
}
