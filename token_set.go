package linearembed

import (
	"encoding/json"
	"sort"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/serializer"
)

func init() {
	serializer.RegisterTypedDeserializer(TokenSet{}.SerializerType(), DeserializeTokenSet)
}

// A TokenSet is a set of tokens which can translate
// between token IDs and tokens.
//
// A TokenSet is represented as a sorted list of tokens.
// Each token's index corresponds to that token's ID.
type TokenSet []string

// DeserializeTokenSet deserializes a TokenSet.
func DeserializeTokenSet(d []byte) (TokenSet, error) {
	var res TokenSet
	if err := json.Unmarshal(d, &res); err != nil {
		return nil, essentials.AddCtx("deserialize TokenSet", err)
	}
	return res, nil
}

// ID gets an ID for the token.
//
// The second return value is false if the token is not in
// the set.
func (t TokenSet) ID(token string) (int, bool) {
	idx := sort.SearchStrings(t, token)
	if idx == len(t) || t[idx] != token {
		return 0, false
	}
	return idx, true
}

// Token gets the token for the given ID.
//
// If the ID is out of range, then "" is returned.
func (t TokenSet) Token(id int) string {
	if id < 0 || id >= len(t) {
		return ""
	}
	return t[id]
}

// SerializerType returns the unique ID used to serialize
// a TokenSet with the serializer package.
func (t TokenSet) SerializerType() string {
	return "github.com/unixpickle/linearembed.TokenSet"
}

// Serialize serializes the TokenSet.
func (t TokenSet) Serialize() ([]byte, error) {
	return json.Marshal(t)
}
