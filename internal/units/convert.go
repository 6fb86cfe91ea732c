// Package units converts between the regionally-divergent measurement
// scales found in producer spec sheets. Conversion functions are pure and
// total; deciding which formula applies to an ambiguous value is the
// resolver's job (resolve.go), not theirs.
package units

const (
	gramsPerOunce   = 28.3495
	gramsPerPound   = 453.592
	litersPerUSGal  = 3.78541
	litersPerUSQt   = 0.946353
	litersPerImpGal = 4.54609
	pklPerPPG       = 8.3454
)

// EBCFromLovibond converts malt color from degrees Lovibond to EBC.
func EBCFromLovibond(l float64) float64 { return l*2.65 + 1.2 }

// LovibondFromEBC converts malt color from EBC to degrees Lovibond.
func LovibondFromEBC(ebc float64) float64 { return (ebc - 1.2) / 2.65 }

// EBCFromSRM converts malt color from SRM to EBC.
func EBCFromSRM(srm float64) float64 { return srm * 1.97 }

// SRMFromEBC converts malt color from EBC to SRM.
func SRMFromEBC(ebc float64) float64 { return ebc / 1.97 }

// CelsiusFromFahrenheit converts a temperature to Celsius.
func CelsiusFromFahrenheit(f float64) float64 { return (f - 32) * 5 / 9 }

// FahrenheitFromCelsius converts a temperature to Fahrenheit.
func FahrenheitFromCelsius(c float64) float64 { return c*9/5 + 32 }

// LintnerFromWK converts diastatic power from Windisch-Kolbach to Lintner.
func LintnerFromWK(wk float64) float64 { return (wk + 16) / 3.5 }

// WKFromLintner converts diastatic power from Lintner to Windisch-Kolbach.
func WKFromLintner(l float64) float64 { return l*3.5 - 16 }

// GramsFromOunces converts mass from avoirdupois ounces to grams.
func GramsFromOunces(oz float64) float64 { return oz * gramsPerOunce }

// GramsFromPounds converts mass from pounds to grams.
func GramsFromPounds(lb float64) float64 { return lb * gramsPerPound }

// LitersFromUSGallons converts volume from US gallons to liters.
func LitersFromUSGallons(gal float64) float64 { return gal * litersPerUSGal }

// LitersFromUSQuarts converts volume from US quarts to liters.
func LitersFromUSQuarts(qt float64) float64 { return qt * litersPerUSQt }

// LitersFromImperialGallons converts volume from imperial gallons to liters.
func LitersFromImperialGallons(gal float64) float64 { return gal * litersPerImpGal }

// PKLFromPPG converts extract potential from points/pound/gallon to
// points/kilogram/liter.
func PKLFromPPG(ppg float64) float64 { return ppg * pklPerPPG }

// PPGFromPKL converts extract potential from points/kilogram/liter to
// points/pound/gallon.
func PPGFromPKL(pkl float64) float64 { return pkl / pklPerPPG }
