package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewkit/brewcat/internal/model"
)

func TestToleranceDiffers(t *testing.T) {
	tol := DefaultTolerance

	assert.False(t, tol.Differs(11.0, 11.05))
	assert.False(t, tol.Differs(11.0, 11.5)) // exactly at the absolute threshold
	assert.True(t, tol.Differs(11.0, 11.51))

	// Relative threshold dominates for large magnitudes: 2% of 300 is 6.
	assert.False(t, tol.Differs(300, 305))
	assert.True(t, tol.Differs(300, 307))
}

func storedCitra() *model.Hop {
	return &model.Hop{
		Name:         "Citra",
		Producer:     "Yakima Chief",
		AlphaAcidMin: model.Float(11),
		AlphaAcidMax: model.Float(13),
		Purpose:      model.PurposeDual,
		SourceType:   model.SourceComposed,
	}
}

func TestMergeHop_NoiseIsNoop(t *testing.T) {
	stored := storedCitra()
	incoming := &model.Hop{
		Name:         "Citra",
		Producer:     "Yakima Chief",
		AlphaAcidMin: model.Float(11.05),
		AlphaAcidMax: model.Float(12.95),
		SourceType:   model.SourceComposed,
	}
	res := mergeHop(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeNoop, res.Outcome)
	assert.Empty(t, res.Changed)
	assert.InDelta(t, 11, *stored.AlphaAcidMin, 1e-9)
}

func TestMergeHop_RealChangeUpdates(t *testing.T) {
	stored := storedCitra()
	incoming := &model.Hop{
		Name:         "Citra",
		Producer:     "Yakima Chief",
		AlphaAcidMin: model.Float(12),
		AlphaAcidMax: model.Float(14),
		SourceType:   model.SourceComposed,
	}
	res := mergeHop(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	assert.Contains(t, res.Changed, "alpha_acid_min")
	assert.InDelta(t, 12, *stored.AlphaAcidMin, 1e-9)
}

func TestMergeHop_FillsNilWithoutTouchingRest(t *testing.T) {
	stored := storedCitra()
	incoming := &model.Hop{
		Name:        "Citra",
		Producer:    "Yakima Chief",
		BetaAcidMin: model.Float(3.5),
		BetaAcidMax: model.Float(4.5),
		SourceType:  model.SourceComposed,
	}
	res := mergeHop(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	assert.InDelta(t, 3.5, *stored.BetaAcidMin, 1e-9)
	assert.InDelta(t, 11, *stored.AlphaAcidMin, 1e-9)
	assert.Equal(t, model.PurposeDual, stored.Purpose)
}

func TestMergeHop_CanonicalOverridesComposed(t *testing.T) {
	stored := storedCitra()
	incoming := &model.Hop{
		Name:         "Citra",
		Producer:     "Yakima Chief",
		AlphaAcidMin: model.Float(12),
		AlphaAcidMax: model.Float(14),
		SourceType:   model.SourceCanonical,
	}
	res := mergeHop(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	assert.InDelta(t, 12, *stored.AlphaAcidMin, 1e-9)
	assert.Equal(t, model.SourceCanonical, stored.SourceType)
	assert.Contains(t, res.Changed, "source_type")
	assert.Empty(t, res.Conflicts)
}

func TestMergeHop_ComposedConflictsWithCanonical(t *testing.T) {
	stored := storedCitra()
	stored.SourceType = model.SourceCanonical

	incoming := &model.Hop{
		Name:         "Citra",
		Producer:     "Yakima Chief",
		AlphaAcidMin: model.Float(9),
		AlphaAcidMax: model.Float(10),
		SourceType:   model.SourceComposed,
	}
	res := mergeHop(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeNoop, res.Outcome)
	require.NotEmpty(t, res.Conflicts)
	assert.Equal(t, "alpha_acid_min", res.Conflicts[0].Field)
	// Canonical value untouched, classification untouched.
	assert.InDelta(t, 11, *stored.AlphaAcidMin, 1e-9)
	assert.Equal(t, model.SourceCanonical, stored.SourceType)
}

func TestMergeHop_ComposedFillsCanonicalGaps(t *testing.T) {
	stored := storedCitra()
	stored.SourceType = model.SourceCanonical

	incoming := &model.Hop{
		Name:        "Citra",
		Producer:    "Yakima Chief",
		TotalOilMin: model.Float(2.2),
		TotalOilMax: model.Float(2.8),
		SourceType:  model.SourceComposed,
	}
	res := mergeHop(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	assert.InDelta(t, 2.2, *stored.TotalOilMin, 1e-9)
	assert.Equal(t, model.SourceCanonical, stored.SourceType)
}

func TestMergeHop_TagsUnion(t *testing.T) {
	stored := storedCitra()
	stored.FlavorProfile = []string{"citrus", "mango"}

	incoming := &model.Hop{
		Name:          "Citra",
		Producer:      "Yakima Chief",
		FlavorProfile: []string{"Citrus", "lychee"},
		SourceType:    model.SourceComposed,
	}
	res := mergeHop(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	assert.Equal(t, []string{"citrus", "mango", "lychee"}, stored.FlavorProfile)
}

func TestMergeHop_SourcesAccumulate(t *testing.T) {
	stored := storedCitra()
	stored.Sources = []string{"https://a.example/citra"}

	incoming := &model.Hop{
		Name:       "Citra",
		Producer:   "Yakima Chief",
		Sources:    []string{"https://b.example/citra", "https://a.example/citra"},
		SourceType: model.SourceComposed,
	}
	res := mergeHop(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	assert.Len(t, stored.Sources, 2)
}

func TestMergeMalt_CertaintyFlagFollowsValues(t *testing.T) {
	stored := model.NewMalt("Pale Ale")
	stored.Producer = "Crisp"
	stored.SourceType = model.SourceComposed
	stored.ColorEBCMin = model.Float(5)
	stored.ColorEBCMax = model.Float(7)
	stored.ColorUnitCertain = false

	// A certain source corroborating the stored values upgrades the flag.
	incoming := model.NewMalt("Pale Ale")
	incoming.Producer = "Crisp"
	incoming.SourceType = model.SourceComposed
	incoming.ColorEBCMin = model.Float(5)
	incoming.ColorEBCMax = model.Float(7)

	res := mergeMalt(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	assert.Contains(t, res.Changed, "color_unit_certain")
	assert.True(t, stored.ColorUnitCertain)
}

func TestMergeMalt_UncertainOverwriteClearsFlag(t *testing.T) {
	stored := model.NewMalt("Pale Ale")
	stored.Producer = "Crisp"
	stored.SourceType = model.SourceComposed
	stored.ColorEBCMin = model.Float(5)
	stored.ColorEBCMax = model.Float(7)

	incoming := model.NewMalt("Pale Ale")
	incoming.Producer = "Crisp"
	incoming.SourceType = model.SourceComposed
	incoming.ColorEBCMin = model.Float(12)
	incoming.ColorEBCMax = model.Float(15)
	incoming.ColorUnitCertain = false

	res := mergeMalt(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	assert.False(t, stored.ColorUnitCertain)
	assert.InDelta(t, 12, *stored.ColorEBCMin, 1e-9)
}

func TestMergeMalt_TriStateBoolNeverCleared(t *testing.T) {
	stored := model.NewMalt("Carapils")
	stored.SourceType = model.SourceComposed
	stored.RequiresMashing = model.Bool(false)

	// Incoming record that says nothing about mashing.
	incoming := model.NewMalt("Carapils")
	incoming.SourceType = model.SourceComposed
	incoming.ExtractMin = model.Float(75)
	incoming.ExtractMax = model.Float(78)

	res := mergeMalt(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	require.NotNil(t, stored.RequiresMashing)
	assert.False(t, *stored.RequiresMashing)
}

func TestMergeMalt_SyncsDiastaticScales(t *testing.T) {
	stored := model.NewMalt("Pilsner")
	stored.SourceType = model.SourceComposed

	incoming := model.NewMalt("Pilsner")
	incoming.SourceType = model.SourceComposed
	incoming.DiastaticPowerMin = model.Float(100)
	incoming.DiastaticPowerMax = model.Float(110)

	res := mergeMalt(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	require.NotNil(t, stored.DiastaticPowerWKMin)
	assert.InDelta(t, 334, *stored.DiastaticPowerWKMin, 0.01)
}

func TestMergeYeast_BoolConflictUnderCanonical(t *testing.T) {
	stored := model.NewYeast("BRY-97")
	stored.Producer = "Lallemand"
	stored.SourceType = model.SourceCanonical
	stored.ProducesPhenols = model.Bool(false)

	incoming := model.NewYeast("BRY-97")
	incoming.Producer = "Lallemand"
	incoming.SourceType = model.SourceComposed
	incoming.ProducesPhenols = model.Bool(true)

	res := mergeYeast(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeNoop, res.Outcome)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "produces_phenols", res.Conflicts[0].Field)
	assert.False(t, *stored.ProducesPhenols)
}

func TestMergeYeast_TextFillOnly(t *testing.T) {
	stored := model.NewYeast("WLP001")
	stored.Producer = "White Labs"
	stored.SourceType = model.SourceCanonical
	stored.Description = "Clean American ale strain."

	incoming := model.NewYeast("WLP001")
	incoming.Producer = "White Labs"
	incoming.SourceType = model.SourceComposed
	incoming.Description = "A different description."
	incoming.Species = "Saccharomyces cerevisiae"

	res := mergeYeast(stored, incoming, DefaultTolerance)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	// Weaker source fills the empty field but cannot replace the set one;
	// the disagreement is reported like any other field.
	assert.Equal(t, "Clean American ale strain.", stored.Description)
	assert.Equal(t, "Saccharomyces cerevisiae", stored.Species)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "description", res.Conflicts[0].Field)
	assert.Equal(t, "Clean American ale strain.", res.Conflicts[0].Stored)
	assert.Equal(t, "A different description.", res.Conflicts[0].Incoming)
}

func TestPrecedence(t *testing.T) {
	assert.Equal(t, modeNormal, precedence(model.SourceComposed, model.SourceComposed))
	assert.Equal(t, modeNormal, precedence(model.SourceCanonical, model.SourceCanonical))
	assert.Equal(t, modeOverride, precedence(model.SourceComposed, model.SourceCanonical))
	assert.Equal(t, modeWeaker, precedence(model.SourceCanonical, model.SourceComposed))
	// Unclassified data is treated as composed.
	assert.Equal(t, modeWeaker, precedence(model.SourceCanonical, ""))
	assert.Equal(t, modeOverride, precedence("", model.SourceCanonical))
}
