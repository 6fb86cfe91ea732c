package units

import (
	"sort"
	"strings"
)

// Region is the home region of a producer, used as a unit-convention
// heuristic when a source omits unit labels.
type Region string

const (
	RegionUnknown Region = ""
	RegionEurope  Region = "europe"
	RegionUK      Region = "uk"
	RegionUS      Region = "us"
)

// producerRegions maps well-known producers to their home region. Matched
// case-insensitively by substring so "Weyermann®" and "Weyermann Malting"
// both hit.
var producerRegions = map[string]Region{
	"weyermann":      RegionEurope,
	"bestmalz":       RegionEurope,
	"ireks":          RegionEurope,
	"castle":         RegionEurope,
	"dingemans":      RegionEurope,
	"fermentis":      RegionEurope,
	"mangrove jack":  RegionEurope,
	"crisp":          RegionUK,
	"simpsons":       RegionUK,
	"muntons":        RegionUK,
	"thomas fawcett": RegionUK,
	"briess":         RegionUS,
	"rahr":           RegionUS,
	"great western":  RegionUS,
	"yakima chief":   RegionUS,
	"hop breeding":   RegionUS,
	"hbc":            RegionUS,
	"white labs":     RegionUS,
	"wyeast":         RegionUS,
	"omega":          RegionUS,
	"imperial":       RegionUS,
	"lallemand":      RegionUS,
}

// producerRegionKeys is checked in sorted order so a producer matching
// more than one key resolves the same way every run.
var producerRegionKeys = func() []string {
	keys := make([]string, 0, len(producerRegions))
	for k := range producerRegions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// RegionOf looks up a producer's home region, RegionUnknown when the
// producer is absent or unrecognized.
func RegionOf(producer string) Region {
	p := strings.ToLower(producer)
	if p == "" {
		return RegionUnknown
	}
	for _, key := range producerRegionKeys {
		if strings.Contains(p, key) {
			return producerRegions[key]
		}
	}
	return RegionUnknown
}

// Resolution is a normalized numeric range plus the unit-certainty verdict.
// Certain is false only when no policy step could disambiguate the source
// unit; the value then carries the best-guess conversion. Ambiguity never
// blocks ingestion, it only degrades confidence.
type Resolution struct {
	Min     float64
	Max     float64
	Certain bool
}

func resolved(min, max float64) Resolution  { return Resolution{Min: min, Max: max, Certain: true} }
func uncertain(min, max float64) Resolution { return Resolution{Min: min, Max: max, Certain: false} }

// Plausible magnitude bounds per scale. A value matching exactly one
// scale's range resolves the unit on its own.
const (
	maxPlausibleLovibond   = 650 // darkest roasted malts top out near 600 °L
	maxPlausibleCelsius    = 40  // kveik ceiling; °F sheets start above this
	maxPlausibleFahrenheit = 110
	maxPlausibleLintner    = 250 // WK sheets exceed this for every base malt
)

// ResolveColorEBC normalizes a malt color range to EBC. Policy order:
// explicit unit label, producer region convention, plausible magnitude.
// A region verdict that puts the value outside the implied scale's
// plausible range is discarded rather than trusted.
func ResolveColorEBC(min, max float64, unitLabel string, region Region) Resolution {
	switch normalizeColorUnit(unitLabel) {
	case "ebc":
		return resolved(min, max)
	case "lovibond":
		return resolved(EBCFromLovibond(min), EBCFromLovibond(max))
	case "srm":
		return resolved(EBCFromSRM(min), EBCFromSRM(max))
	}

	switch region {
	case RegionEurope:
		return resolved(min, max)
	case RegionUS, RegionUK:
		if max <= maxPlausibleLovibond {
			return resolved(EBCFromLovibond(min), EBCFromLovibond(max))
		}
	}

	// Nothing darker than ~650 °L exists, so larger values can only be EBC.
	if min > maxPlausibleLovibond {
		return resolved(min, max)
	}
	return uncertain(min, max)
}

// ResolveTempC normalizes a fermentation temperature range to Celsius.
func ResolveTempC(min, max float64, unitLabel string, region Region) Resolution {
	switch normalizeTempUnit(unitLabel) {
	case "c":
		return resolved(min, max)
	case "f":
		return resolved(CelsiusFromFahrenheit(min), CelsiusFromFahrenheit(max))
	}

	switch region {
	case RegionUS:
		if min > maxPlausibleCelsius && max <= maxPlausibleFahrenheit {
			return resolved(CelsiusFromFahrenheit(min), CelsiusFromFahrenheit(max))
		}
	case RegionEurope, RegionUK:
		if max <= maxPlausibleCelsius {
			return resolved(min, max)
		}
	}

	// Fermentation ranges in °C and °F barely overlap: anything above 40
	// must be °F, anything at or below can only be °C.
	if min > maxPlausibleCelsius && max <= maxPlausibleFahrenheit {
		return resolved(CelsiusFromFahrenheit(min), CelsiusFromFahrenheit(max))
	}
	if max <= maxPlausibleCelsius {
		return resolved(min, max)
	}
	return uncertain(min, max)
}

// ResolveDiastaticLintner normalizes diastatic power to degrees Lintner.
func ResolveDiastaticLintner(min, max float64, unitLabel string, region Region) Resolution {
	switch normalizeDiastaticUnit(unitLabel) {
	case "lintner":
		return resolved(min, max)
	case "wk":
		return resolved(LintnerFromWK(min), LintnerFromWK(max))
	}

	switch region {
	case RegionEurope:
		return resolved(LintnerFromWK(min), LintnerFromWK(max))
	case RegionUS, RegionUK:
		if max <= maxPlausibleLintner {
			return resolved(min, max)
		}
	}

	if min > maxPlausibleLintner {
		return resolved(LintnerFromWK(min), LintnerFromWK(max))
	}
	return uncertain(min, max)
}

func normalizeColorUnit(label string) string {
	switch clean(label) {
	case "ebc":
		return "ebc"
	case "lovibond", "lov", "l", "degl":
		return "lovibond"
	case "srm":
		return "srm"
	}
	return ""
}

func normalizeTempUnit(label string) string {
	switch clean(label) {
	case "c", "celsius", "degc":
		return "c"
	case "f", "fahrenheit", "degf":
		return "f"
	}
	return ""
}

func normalizeDiastaticUnit(label string) string {
	switch clean(label) {
	case "lintner", "l", "degl":
		return "lintner"
	case "wk", "degwk", "windischkolbach", "windisch-kolbach":
		return "wk"
	}
	return ""
}

// clean lowercases a unit label and strips degree signs and whitespace so
// "°L", "deg L" and "l" compare equal.
func clean(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, "°", "deg")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSuffix(s, ".")
	return s
}
