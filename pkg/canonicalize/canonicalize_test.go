package canonicalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJCSSortsKeys(t *testing.T) {
	input := map[string]any{"c": 3, "a": 1, "b": 2}

	out, err := JCS(input)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2,"c":3}`, string(out))
}

func TestJCSIsStableAcrossEquivalentInputs(t *testing.T) {
	var fromJSON any
	require.NoError(t, json.Unmarshal([]byte(`{"b":2,"a":1}`), &fromJSON))

	a, err := JCS(fromJSON)
	require.NoError(t, err)
	b, err := JCS(map[string]any{"a": 1.0, "b": 2.0})
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestJCSHonorsStructTags(t *testing.T) {
	type payload struct {
		Zulu  string `json:"zulu"`
		Alpha string `json:"alpha"`
	}
	out, err := JCS(payload{Zulu: "z", Alpha: "a"})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"a","zulu":"z"}`, string(out))
}

func TestCanonicalHashDeterminism(t *testing.T) {
	first, err := CanonicalHash(map[string]any{"x": 1, "y": "two"})
	require.NoError(t, err)
	second, err := CanonicalHash(map[string]any{"y": "two", "x": 1})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	other, err := CanonicalHash(map[string]any{"x": 2, "y": "two"})
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestJCSRejectsUnmarshalableValue(t *testing.T) {
	_, err := JCS(make(chan int))
	assert.Error(t, err)
}

func FuzzJCS(f *testing.F) {
	f.Add([]byte(`{"a":1,"b":2}`))
	f.Add([]byte(`{"z":{"y":"foo","x":"bar"},"a":1}`))
	f.Add([]byte(`{"num":123.456,"bool":true,"null":null}`))
	f.Add([]byte(`["mixed",1,{"k":"v"}]`))

	f.Fuzz(func(t *testing.T, data []byte) {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			t.Skip()
		}
		first, err := JCS(v)
		if err != nil {
			t.Skip()
		}
		// Canonical output must be a fixed point.
		var reparsed any
		require.NoError(t, json.Unmarshal(first, &reparsed))
		second, err := JCS(reparsed)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	})
}
