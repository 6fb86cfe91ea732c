package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHopValidate(t *testing.T) {
	h := &Hop{Name: "Citra", AlphaAcidMin: Float(11), AlphaAcidMax: Float(13), Purpose: PurposeDual}
	require.NoError(t, h.Validate())

	h = &Hop{Name: ""}
	err := h.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	h = &Hop{Name: "Citra", AlphaAcidMin: Float(13), AlphaAcidMax: Float(11)}
	err = h.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "alpha_acid")

	h = &Hop{Name: "Citra", Purpose: "flavoring"}
	assert.Error(t, h.Validate())
}

func TestMaltValidate(t *testing.T) {
	m := NewMalt("Pilsner")
	m.Category = MaltBase
	m.ColorEBCMin = Float(2.5)
	m.ColorEBCMax = Float(4.5)
	require.NoError(t, m.Validate())
	assert.True(t, m.ColorUnitCertain)
	assert.True(t, m.DiastaticPowerUnitCertain)

	m.ColorEBCMin, m.ColorEBCMax = Float(5), Float(3)
	assert.ErrorIs(t, m.Validate(), ErrValidation)

	bad := NewMalt("Mystery")
	bad.Category = "chocolatey"
	assert.ErrorIs(t, bad.Validate(), ErrValidation)
}

func TestYeastValidate(t *testing.T) {
	y := NewYeast("US-05")
	y.Type = YeastAle
	y.Form = FormDry
	y.Flocculation = FlocMedium
	y.AttenuationMin = Float(78)
	y.AttenuationMax = Float(82)
	require.NoError(t, y.Validate())

	y.Flocculation = "sticky"
	assert.ErrorIs(t, y.Validate(), ErrValidation)

	y.Flocculation = FlocMedium
	y.TempMin, y.TempMax = Float(25), Float(15)
	assert.ErrorIs(t, y.Validate(), ErrValidation)
}

func TestFactValidate(t *testing.T) {
	f := &Fact{Kind: KindHop, Name: "Citra", Parameter: "alpha_acid", ValueMin: Float(11)}
	require.NoError(t, f.Validate())

	assert.ErrorIs(t, (&Fact{Kind: "grain", Name: "x", Parameter: "p", Text: "v"}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&Fact{Kind: KindHop, Name: "", Parameter: "p", Text: "v"}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&Fact{Kind: KindHop, Name: "Citra", Parameter: "alpha_acid"}).Validate(), ErrValidation)
}

func TestFactRange(t *testing.T) {
	f := &Fact{ValueMin: Float(10)}
	min, max := f.Range()
	assert.Equal(t, 10.0, *min)
	assert.Equal(t, 10.0, *max)

	f = &Fact{ValueMax: Float(12)}
	min, max = f.Range()
	assert.Equal(t, 12.0, *min)
	assert.Equal(t, 12.0, *max)
}

func TestTags(t *testing.T) {
	tags := NormalizeTags([]string{" citrus", "Citrus", "", "tropical", "citrus "})
	assert.Equal(t, []string{"citrus", "tropical"}, tags)

	assert.Equal(t, "citrus,tropical", JoinTags(tags))
	assert.Equal(t, []string{"citrus", "tropical"}, SplitTags("citrus,tropical"))
	assert.Nil(t, SplitTags(""))

	merged := MergeTags([]string{"citrus"}, []string{"Tropical", "citrus", "mango"})
	assert.Equal(t, []string{"citrus", "Tropical", "mango"}, merged)
}

func TestMidpointHelpers(t *testing.T) {
	h := &Hop{Name: "Citra", AlphaAcidMin: Float(11), AlphaAcidMax: Float(13)}
	assert.InDelta(t, 12, *h.AlphaAcidTypical(), 1e-9)

	h = &Hop{Name: "Citra", AlphaAcidMin: Float(11)}
	assert.InDelta(t, 11, *h.AlphaAcidTypical(), 1e-9)

	assert.Nil(t, (&Hop{Name: "Citra"}).AlphaAcidTypical())
}

func TestMaltSyncDiastaticPower(t *testing.T) {
	m := NewMalt("Pale Ale")
	m.DiastaticPowerMin = Float(70)
	m.DiastaticPowerMax = Float(80)
	m.SyncDiastaticPower()
	require.NotNil(t, m.DiastaticPowerWKMin)
	assert.InDelta(t, 229, *m.DiastaticPowerWKMin, 0.01)
	assert.InDelta(t, 264, *m.DiastaticPowerWKMax, 0.01)

	m = NewMalt("Wiener")
	m.DiastaticPowerWKMin = Float(250)
	m.SyncDiastaticPower()
	require.NotNil(t, m.DiastaticPowerMin)
	assert.InDelta(t, 76, *m.DiastaticPowerMin, 0.01)
	assert.Nil(t, m.DiastaticPowerMax)
}

func TestColorTypicalLovibond(t *testing.T) {
	m := NewMalt("Crystal 60")
	m.ColorEBCMin = Float(110)
	m.ColorEBCMax = Float(130)
	lov := m.ColorTypicalLovibond()
	require.NotNil(t, lov)
	assert.InDelta(t, (120-1.2)/2.65, *lov, 1e-9)

	assert.Nil(t, NewMalt("Unknown").ColorTypicalLovibond())
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("adjunct")
	assert.ErrorIs(t, err, ErrValidation)
}
