package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorConversions(t *testing.T) {
	// Pilsner malt: ~2 °L is ~6.5 EBC.
	assert.InDelta(t, 6.5, EBCFromLovibond(2), 0.01)
	assert.InDelta(t, 2, LovibondFromEBC(6.5), 0.01)

	assert.InDelta(t, 9.85, EBCFromSRM(5), 0.001)
	assert.InDelta(t, 5, SRMFromEBC(9.85), 0.001)
}

func TestColorRoundTrips(t *testing.T) {
	for _, v := range []float64{1.5, 10, 120, 600} {
		assert.InDelta(t, v, LovibondFromEBC(EBCFromLovibond(v)), 1e-9)
		assert.InDelta(t, v, SRMFromEBC(EBCFromSRM(v)), 1e-9)
	}
}

func TestTemperatureConversions(t *testing.T) {
	assert.InDelta(t, 0, CelsiusFromFahrenheit(32), 1e-9)
	assert.InDelta(t, 20, CelsiusFromFahrenheit(68), 1e-9)
	assert.InDelta(t, 68, FahrenheitFromCelsius(20), 1e-9)

	for _, v := range []float64{-10, 0, 18.5, 37} {
		assert.InDelta(t, v, CelsiusFromFahrenheit(FahrenheitFromCelsius(v)), 1e-9)
	}
}

func TestDiastaticPowerConversions(t *testing.T) {
	// Weyermann pale ale malt: ~250 WK is ~76 °L.
	assert.InDelta(t, 76, LintnerFromWK(250), 0.01)
	assert.InDelta(t, 250, WKFromLintner(76), 0.01)

	for _, v := range []float64{30, 105, 160} {
		assert.InDelta(t, v, LintnerFromWK(WKFromLintner(v)), 1e-9)
	}
}

func TestMassAndVolumeConversions(t *testing.T) {
	assert.InDelta(t, 28.3495, GramsFromOunces(1), 1e-9)
	assert.InDelta(t, 453.592, GramsFromPounds(1), 1e-9)
	assert.InDelta(t, 18.92706, LitersFromUSGallons(5), 1e-5)
	assert.InDelta(t, 0.946353, LitersFromUSQuarts(1), 1e-9)
	assert.InDelta(t, 4.54609, LitersFromImperialGallons(1), 1e-9)
}

func TestExtractPotentialConversions(t *testing.T) {
	// Two-row base malt: ~37 PPG is ~309 PKL.
	assert.InDelta(t, 308.78, PKLFromPPG(37), 0.01)
	assert.InDelta(t, 37, PPGFromPKL(PKLFromPPG(37)), 1e-9)
}
