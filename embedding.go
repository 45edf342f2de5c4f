// Package linearembed provides tools for querying word
// embeddings, such as analogy solving and cosine
// similarity lookups.
package linearembed

import (
	"errors"
	"fmt"
	"sort"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvecsave"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	serializer.RegisterTypedDeserializer((&Embedding{}).SerializerType(),
		DeserializeEmbedding)
}

// An Embedding is a table of token vectors.
//
// An Embedding should not be modified while queries are
// being made against it.
type Embedding struct {
	// Tokens is the list of available tokens.
	Tokens TokenSet

	// Vectors contains one row per token ID.
	Vectors *anyvec.Matrix
}

// NewEmbedding builds an embedding table from a map of
// token vectors, such as one produced by an external
// embedding loader.
//
// All vectors must have the same, non-zero length.
// The tokens are sorted, so the resulting token IDs (and
// the tie-breaking order of Lookup) do not depend on the
// map's iteration order.
func NewEmbedding(c anyvec.Creator, vectors map[string][]float64) (*Embedding, error) {
	if len(vectors) == 0 {
		return nil, errors.New("new embedding: no vectors")
	}
	var tokens TokenSet
	for tok := range vectors {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	dim := len(vectors[tokens[0]])
	if dim == 0 {
		return nil, fmt.Errorf("new embedding: token %q has an empty vector", tokens[0])
	}
	joined := make([]float64, 0, len(tokens)*dim)
	for _, tok := range tokens {
		vec := vectors[tok]
		if len(vec) != dim {
			return nil, fmt.Errorf("new embedding: token %q has dimension %d "+
				"(expected %d)", tok, len(vec), dim)
		}
		joined = append(joined, vec...)
	}

	return &Embedding{
		Tokens: tokens,
		Vectors: &anyvec.Matrix{
			Data: c.MakeVectorData(c.MakeNumericList(joined)),
			Rows: len(tokens),
			Cols: dim,
		},
	}, nil
}

// DeserializeEmbedding deserializes an Embedding.
func DeserializeEmbedding(d []byte) (*Embedding, error) {
	var res Embedding
	var rows, cols int
	var data *anyvecsave.S
	if err := serializer.DeserializeAny(d, &res.Tokens, &rows, &cols, &data); err != nil {
		return nil, essentials.AddCtx("deserialize Embedding", err)
	}
	res.Vectors = &anyvec.Matrix{
		Data: data.Vector,
		Rows: rows,
		Cols: cols,
	}
	return &res, nil
}

// Dim returns the dimensionality of the embedding.
func (e *Embedding) Dim() int {
	return e.Vectors.Cols
}

// Len returns the number of tokens in the table.
func (e *Embedding) Len() int {
	return e.Vectors.Rows
}

// Embed returns a copy of the embedding for the token.
//
// If the token is not in the table, the error is an
// *UnknownTokenError.
func (e *Embedding) Embed(token string) (anyvec.Vector, error) {
	id, ok := e.Tokens.ID(token)
	if !ok {
		return nil, &UnknownTokenError{Token: token}
	}
	return e.EmbedID(id), nil
}

// EmbedID returns a copy of the embedding for the token
// ID.
func (e *Embedding) EmbedID(id int) anyvec.Vector {
	return extractRow(e.Vectors, id).Copy()
}

// Normalize makes all the vectors have the same
// magnitude.
// This may improve performance on certain tasks.
func (e *Embedding) Normalize() {
	c := e.Vectors.Data.Creator()
	squares := e.Vectors.Data.Copy()
	anyvec.Pow(squares, c.MakeNumeric(2))
	normalizers := anyvec.SumCols(squares, e.Vectors.Rows)
	anyvec.Pow(normalizers, c.MakeNumeric(-0.5))
	anyvec.ScaleChunks(e.Vectors.Data, normalizers)
}

// Lookup finds the n closest tokens to the given vector,
// using cosine similarity.
// For each token, it also returns the similarity.
// The results are sorted from most to least similar.
//
// Tokens listed in exclude are never returned.
// If n is greater than the number of non-excluded tokens,
// then there will be fewer than n results.
func (e *Embedding) Lookup(vec anyvec.Vector, n int,
	exclude ...string) ([]string, []anyvec.Numeric) {
	if vec.Len() != e.Vectors.Cols {
		panic("incorrect vector length")
	}

	c := e.Vectors.Data.Creator()
	squares := e.Vectors.Data.Copy()
	anyvec.Pow(squares, c.MakeNumeric(2))
	normalizers := anyvec.SumCols(squares, e.Vectors.Rows)
	anyvec.Pow(normalizers, c.MakeNumeric(-0.5))

	masked := e.Vectors.Data.Copy()
	anyvec.ScaleChunks(masked, normalizers)
	normVec := vec.Copy()
	normVec.Scale(c.NumOps().Div(c.MakeNumeric(1), anyvec.Norm(vec)))
	anyvec.ScaleRepeated(masked, normVec)

	dots := anyvec.SumCols(masked, e.Vectors.Rows)

	// Cosine similarities are in [-1, 1], so an excluded or
	// already-taken entry can never win another MaxIndex.
	remaining := e.Vectors.Rows
	excluded := map[int]bool{}
	for _, tok := range exclude {
		if id, ok := e.Tokens.ID(tok); ok && !excluded[id] {
			excluded[id] = true
			maskEntry(dots, id, c)
			remaining--
		}
	}

	var tokens []string
	var sims []anyvec.Numeric
	for i := 0; i < n && i < remaining; i++ {
		idx := anyvec.MaxIndex(dots)
		tokens = append(tokens, e.Tokens.Token(idx))
		sims = append(sims, anyvec.Sum(dots.Slice(idx, idx+1)))
		maskEntry(dots, idx, c)
	}
	return tokens, sims
}

// SerializerType returns the unique ID used to serialize
// an Embedding with the serializer package.
func (e *Embedding) SerializerType() string {
	return "github.com/unixpickle/linearembed.Embedding"
}

// Serialize serializes the Embedding.
func (e *Embedding) Serialize() ([]byte, error) {
	return serializer.SerializeAny(
		e.Tokens,
		e.Vectors.Rows,
		e.Vectors.Cols,
		&anyvecsave.S{Vector: e.Vectors.Data},
	)
}

func maskEntry(dots anyvec.Vector, idx int, c anyvec.Creator) {
	entry := dots.Slice(idx, idx+1)
	entry.AddScalar(c.MakeNumeric(-4))
	dots.Slice(idx, idx+1).SetData(entry.Data())
}

func extractRow(mat *anyvec.Matrix, row int) anyvec.Vector {
	idx := mat.Cols * row
	return mat.Data.Slice(idx, idx+mat.Cols)
}
