package hashx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcbit/ledger/foundation/blockchain/hashx"
)

func TestCanonicalSortsKeysRegardlessOfInputOrder(t *testing.T) {
	a := map[string]any{"b": 2, "a": 1, "c": 3}
	b := map[string]any{"c": 3, "a": 1, "b": 2}

	encA, err := hashx.Canonical(a)
	require.NoError(t, err)

	encB, err := hashx.Canonical(b)
	require.NoError(t, err)

	assert.Equal(t, string(encA), string(encB))
	assert.Equal(t, `{"a":1,"b":2,"c":3}`, string(encA))
}

func TestCanonicalSortsNestedStructFields(t *testing.T) {
	type inner struct {
		Zeta  int `json:"zeta"`
		Alpha int `json:"alpha"`
	}
	type outer struct {
		Inner inner `json:"inner"`
		Name  string `json:"name"`
	}

	enc, err := hashx.Canonical(outer{Inner: inner{Zeta: 1, Alpha: 2}, Name: "x"})
	require.NoError(t, err)

	assert.Equal(t, `{"inner":{"alpha":2,"zeta":1},"name":"x"}`, string(enc))
}

func TestHIsDoubleSHA256(t *testing.T) {
	h1 := hashx.H([]byte("hello"))
	h2 := hashx.H([]byte("hello"))
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	assert.NotEqual(t, hashx.H([]byte("hello")), hashx.Single([]byte("hello")))
}

func TestHashValueRoundTripsCanonicalForm(t *testing.T) {
	v1, err := hashx.HashValue(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)

	v2, err := hashx.HashValue(map[string]any{"b": 2, "a": 1})
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
}
