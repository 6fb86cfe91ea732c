package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewkit/brewcat/internal/model"
	"github.com/brewkit/brewcat/internal/units"
)

func TestNormalize_HopNumericPair(t *testing.T) {
	rec, err := Normalize(&model.Fact{
		Kind:       model.KindHop,
		Name:       "Citra",
		Producer:   "Yakima Chief",
		Parameter:  "alpha_acid",
		ValueMin:   model.Float(11),
		ValueMax:   model.Float(13),
		SourceType: model.SourceCanonical,
		SourceURL:  "https://example.com/citra.pdf",
	})
	require.NoError(t, err)
	require.NotNil(t, rec.Hop)
	assert.False(t, rec.Uncertain)
	assert.InDelta(t, 11, *rec.Hop.AlphaAcidMin, 1e-9)
	assert.InDelta(t, 13, *rec.Hop.AlphaAcidMax, 1e-9)
	assert.Equal(t, model.SourceCanonical, rec.Hop.SourceType)
	assert.Equal(t, []string{"https://example.com/citra.pdf"}, rec.Hop.Sources)
}

func TestNormalize_HopPointValueWidens(t *testing.T) {
	rec, err := Normalize(&model.Fact{
		Kind:      model.KindHop,
		Name:      "Magnum",
		Parameter: "total_oil",
		ValueMin:  model.Float(2.0),
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, *rec.Hop.TotalOilMin, 1e-9)
	assert.InDelta(t, 2.0, *rec.Hop.TotalOilMax, 1e-9)
}

func TestNormalize_HopTextParameters(t *testing.T) {
	rec, err := Normalize(&model.Fact{
		Kind: model.KindHop, Name: "Citra", Parameter: "flavor",
		Text: "citrus,mango,lychee",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"citrus", "mango", "lychee"}, rec.Hop.FlavorProfile)

	rec, err = Normalize(&model.Fact{
		Kind: model.KindHop, Name: "Citra", Parameter: "year_released", Text: "2008",
	})
	require.NoError(t, err)
	require.NotNil(t, rec.Hop.YearReleased)
	assert.Equal(t, 2008, *rec.Hop.YearReleased)

	_, err = Normalize(&model.Fact{
		Kind: model.KindHop, Name: "Citra", Parameter: "year_released", Text: "recently",
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestNormalize_UnknownParameterRejected(t *testing.T) {
	_, err := Normalize(&model.Fact{
		Kind: model.KindHop, Name: "Citra", Parameter: "bitterness_units", Text: "40",
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestNormalize_NumericParameterNeedsValue(t *testing.T) {
	_, err := Normalize(&model.Fact{
		Kind: model.KindHop, Name: "Citra", Parameter: "alpha_acid", Text: "high",
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestNormalize_MaltColorUnitResolution(t *testing.T) {
	// Weyermann quotes EBC by region; the values pass through unchanged.
	rec, err := Normalize(&model.Fact{
		Kind: model.KindMalt, Name: "Pilsner", Producer: "Weyermann",
		Parameter: "color", ValueMin: model.Float(3), ValueMax: model.Float(4.9),
	})
	require.NoError(t, err)
	assert.False(t, rec.Uncertain)
	assert.True(t, rec.Malt.ColorUnitCertain)
	assert.InDelta(t, 3, *rec.Malt.ColorEBCMin, 1e-9)

	// Briess quotes Lovibond; the values are converted.
	rec, err = Normalize(&model.Fact{
		Kind: model.KindMalt, Name: "Brewers Malt", Producer: "Briess",
		Parameter: "color", ValueMin: model.Float(1.8), ValueMax: model.Float(2.2),
	})
	require.NoError(t, err)
	assert.False(t, rec.Uncertain)
	assert.InDelta(t, units.EBCFromLovibond(1.8), *rec.Malt.ColorEBCMin, 1e-9)

	// Unknown producer, ambiguous magnitude: best guess, flagged.
	rec, err = Normalize(&model.Fact{
		Kind: model.KindMalt, Name: "Mystery", Parameter: "color",
		ValueMin: model.Float(10), ValueMax: model.Float(20),
	})
	require.NoError(t, err)
	assert.True(t, rec.Uncertain)
	assert.False(t, rec.Malt.ColorUnitCertain)
	assert.InDelta(t, 10, *rec.Malt.ColorEBCMin, 1e-9)
}

func TestNormalize_MaltDiastaticPowerSyncsScales(t *testing.T) {
	rec, err := Normalize(&model.Fact{
		Kind: model.KindMalt, Name: "Pale Ale", Producer: "Weyermann",
		Parameter: "diastatic_power", Unit: "WK",
		ValueMin: model.Float(250), ValueMax: model.Float(280),
	})
	require.NoError(t, err)
	assert.False(t, rec.Uncertain)
	require.NotNil(t, rec.Malt.DiastaticPowerMin)
	assert.InDelta(t, units.LintnerFromWK(250), *rec.Malt.DiastaticPowerMin, 1e-9)
	require.NotNil(t, rec.Malt.DiastaticPowerWKMin)
	assert.InDelta(t, 250, *rec.Malt.DiastaticPowerWKMin, 0.01)
}

func TestNormalize_MaltRequiresMashing(t *testing.T) {
	rec, err := Normalize(&model.Fact{
		Kind: model.KindMalt, Name: "Carapils", Parameter: "requires_mashing", Text: "no",
	})
	require.NoError(t, err)
	require.NotNil(t, rec.Malt.RequiresMashing)
	assert.False(t, *rec.Malt.RequiresMashing)

	_, err = Normalize(&model.Fact{
		Kind: model.KindMalt, Name: "Carapils", Parameter: "requires_mashing", Text: "sometimes",
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestNormalize_YeastTemperature(t *testing.T) {
	// Fahrenheit range recognized by magnitude and converted.
	rec, err := Normalize(&model.Fact{
		Kind: model.KindYeast, Name: "US-05", Producer: "Fermentis",
		Parameter: "temperature", ValueMin: model.Float(64), ValueMax: model.Float(72),
	})
	require.NoError(t, err)
	assert.False(t, rec.Uncertain)
	assert.InDelta(t, units.CelsiusFromFahrenheit(64), *rec.Yeast.TempMin, 1e-9)
	assert.True(t, rec.Yeast.TempUnitCertain)

	rec, err = Normalize(&model.Fact{
		Kind: model.KindYeast, Name: "US-05", Parameter: "temperature_ideal",
		Unit: "°C", ValueMin: model.Float(18), ValueMax: model.Float(22),
	})
	require.NoError(t, err)
	assert.InDelta(t, 18, *rec.Yeast.TempIdealMin, 1e-9)

	// Straddling range stays a flagged best guess.
	rec, err = Normalize(&model.Fact{
		Kind: model.KindYeast, Name: "Kveik", Parameter: "temperature",
		ValueMin: model.Float(35), ValueMax: model.Float(75),
	})
	require.NoError(t, err)
	assert.True(t, rec.Uncertain)
	assert.False(t, rec.Yeast.TempUnitCertain)
}

func TestNormalize_YeastTextParameters(t *testing.T) {
	rec, err := Normalize(&model.Fact{
		Kind: model.KindYeast, Name: "WLP001", Parameter: "flocculation", Text: "Medium High",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Flocculation("medium_high"), rec.Yeast.Flocculation)

	rec, err = Normalize(&model.Fact{
		Kind: model.KindYeast, Name: "WLP565", Parameter: "sta1", Text: "positive",
	})
	require.NoError(t, err)
	require.NotNil(t, rec.Yeast.STA1Positive)
	assert.True(t, *rec.Yeast.STA1Positive)

	rec, err = Normalize(&model.Fact{
		Kind: model.KindYeast, Name: "WLP001", Parameter: "beer_styles",
		Text: "American Pale Ale,American IPA",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"American Pale Ale", "American IPA"}, rec.Yeast.BeerStyles)
}

func TestNormalize_InvalidFact(t *testing.T) {
	_, err := Normalize(&model.Fact{Kind: "grain", Name: "x", Parameter: "p", Text: "v"})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = Normalize(&model.Fact{Kind: model.KindHop, Parameter: "alpha_acid", ValueMin: model.Float(1)})
	assert.ErrorIs(t, err, model.ErrValidation)
}
