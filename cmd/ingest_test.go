package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewkit/brewcat/internal/model"
)

func writeFactsFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFacts_JSONArray(t *testing.T) {
	path := writeFactsFile(t, "facts.json", `[
		{"ingredient_kind":"hop","name":"Citra","parameter_name":"alpha_acid","value_min":11,"value_max":13},
		{"ingredient_kind":"hop","name":"Citra","parameter_name":"purpose","text_value":"dual"}
	]`)

	facts, err := readFacts(path)
	require.NoError(t, err)
	require.Len(t, facts, 2)
	assert.Equal(t, model.KindHop, facts[0].Kind)
	assert.InDelta(t, 11, *facts[0].ValueMin, 1e-9)
	assert.Equal(t, "dual", facts[1].Text)
}

func TestReadFacts_NDJSON(t *testing.T) {
	path := writeFactsFile(t, "facts.ndjson",
		`{"ingredient_kind":"malt","name":"Pilsner","parameter_name":"color","value_min":3,"value_max":4.9,"detected_unit":"EBC"}

{"ingredient_kind":"yeast","name":"US-05","parameter_name":"attenuation","value_min":78,"value_max":82}
`)

	facts, err := readFacts(path)
	require.NoError(t, err)
	require.Len(t, facts, 2)
	assert.Equal(t, model.KindMalt, facts[0].Kind)
	assert.Equal(t, "EBC", facts[0].Unit)
	assert.Equal(t, model.KindYeast, facts[1].Kind)
}

func TestReadFacts_BadLineReportsPosition(t *testing.T) {
	path := writeFactsFile(t, "facts.ndjson",
		`{"ingredient_kind":"hop","name":"Citra","parameter_name":"purpose","text_value":"dual"}
{not json}`)

	_, err := readFacts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestConversionsTable(t *testing.T) {
	fn, ok := conversions["lovibond:ebc"]
	require.True(t, ok)
	assert.InDelta(t, 6.5, fn(2), 0.01)

	fn, ok = conversions["f:c"]
	require.True(t, ok)
	assert.InDelta(t, 20, fn(68), 1e-9)

	_, ok = conversions["ebc:plato"]
	assert.False(t, ok)
}
