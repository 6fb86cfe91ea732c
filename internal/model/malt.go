package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/brewkit/brewcat/internal/units"
)

// MaltCategory is the closed set of malt classifications.
type MaltCategory string

const (
	MaltBase       MaltCategory = "base"
	MaltCaramel    MaltCategory = "caramel"
	MaltCrystal    MaltCategory = "crystal"
	MaltRoasted    MaltCategory = "roasted"
	MaltSpecialty  MaltCategory = "specialty"
	MaltSmoked     MaltCategory = "smoked"
	MaltAcidulated MaltCategory = "acidulated"
	MaltWheat      MaltCategory = "wheat"
	MaltRye        MaltCategory = "rye"
	MaltOats       MaltCategory = "oats"
	MaltOther      MaltCategory = "other"
)

var maltCategories = map[MaltCategory]bool{
	MaltBase: true, MaltCaramel: true, MaltCrystal: true, MaltRoasted: true,
	MaltSpecialty: true, MaltSmoked: true, MaltAcidulated: true,
	MaltWheat: true, MaltRye: true, MaltOats: true, MaltOther: true,
}

// Malt is a malt variety. Color is stored in EBC, extract as % dry basis,
// diastatic power in both Lintner and Windisch-Kolbach when derivable.
type Malt struct {
	Name     string `json:"name" yaml:"name"`
	Producer string `json:"producer,omitempty" yaml:"producer,omitempty"`
	Origin   string `json:"origin,omitempty" yaml:"origin,omitempty"`

	Category  MaltCategory `json:"category,omitempty" yaml:"category,omitempty"`
	GrainType string       `json:"grain_type,omitempty" yaml:"grain_type,omitempty"`

	ColorEBCMin      *float64 `json:"color_ebc_min,omitempty" yaml:"color_ebc_min,omitempty"`
	ColorEBCMax      *float64 `json:"color_ebc_max,omitempty" yaml:"color_ebc_max,omitempty"`
	ColorUnitCertain bool     `json:"color_unit_certain" yaml:"color_unit_certain"`

	ExtractMin            *float64 `json:"extract_min,omitempty" yaml:"extract_min,omitempty"`
	ExtractMax            *float64 `json:"extract_max,omitempty" yaml:"extract_max,omitempty"`
	ExtractFineCoarseDiff *float64 `json:"extract_fine_coarse_diff,omitempty" yaml:"extract_fine_coarse_diff,omitempty"`

	MoistureMin *float64 `json:"moisture_min,omitempty" yaml:"moisture_min,omitempty"`
	MoistureMax *float64 `json:"moisture_max,omitempty" yaml:"moisture_max,omitempty"`
	ProteinMin  *float64 `json:"protein_min,omitempty" yaml:"protein_min,omitempty"`
	ProteinMax  *float64 `json:"protein_max,omitempty" yaml:"protein_max,omitempty"`

	KolbachIndexMin *float64 `json:"kolbach_index_min,omitempty" yaml:"kolbach_index_min,omitempty"`
	KolbachIndexMax *float64 `json:"kolbach_index_max,omitempty" yaml:"kolbach_index_max,omitempty"`

	DiastaticPowerMin         *float64 `json:"diastatic_power_min,omitempty" yaml:"diastatic_power_min,omitempty"`
	DiastaticPowerMax         *float64 `json:"diastatic_power_max,omitempty" yaml:"diastatic_power_max,omitempty"`
	DiastaticPowerWKMin       *float64 `json:"diastatic_power_wk_min,omitempty" yaml:"diastatic_power_wk_min,omitempty"`
	DiastaticPowerWKMax       *float64 `json:"diastatic_power_wk_max,omitempty" yaml:"diastatic_power_wk_max,omitempty"`
	DiastaticPowerUnitCertain bool     `json:"diastatic_power_unit_certain" yaml:"diastatic_power_unit_certain"`

	FriabilityMin *float64 `json:"friability_min,omitempty" yaml:"friability_min,omitempty"`
	FriabilityMax *float64 `json:"friability_max,omitempty" yaml:"friability_max,omitempty"`
	BetaGlucanMax *float64 `json:"beta_glucan_max,omitempty" yaml:"beta_glucan_max,omitempty"`

	MaxPercentage *float64 `json:"max_percentage,omitempty" yaml:"max_percentage,omitempty"`
	// RequiresMashing is tri-state: nil when no source stated it. Treated
	// as true for display purposes since only a handful of malts steep.
	RequiresMashing *bool `json:"requires_mashing,omitempty" yaml:"requires_mashing,omitempty"`

	FlavorProfile []string `json:"flavor_profile,omitempty" yaml:"flavor_profile,omitempty"`
	Substitutes   []string `json:"substitutes,omitempty" yaml:"substitutes,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Notes       string `json:"notes,omitempty" yaml:"notes,omitempty"`

	Sources     []string   `json:"sources,omitempty" yaml:"sources,omitempty"`
	SourceType  SourceType `json:"source_type,omitempty" yaml:"source_type,omitempty"`
	LastUpdated time.Time  `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
}

// NewMalt returns a malt with the uncertainty flags defaulted to true.
func NewMalt(name string) *Malt {
	return &Malt{
		Name:                      name,
		ColorUnitCertain:          true,
		DiastaticPowerUnitCertain: true,
	}
}

// Validate rejects malformed malts before they can reach storage.
func (m *Malt) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return eris.Wrap(ErrValidation, "malt: name is required")
	}
	if m.Category != "" && !maltCategories[m.Category] {
		return eris.Wrapf(ErrValidation, "malt %s: unknown category %q", m.Name, m.Category)
	}
	if !m.SourceType.valid() {
		return eris.Wrapf(ErrValidation, "malt %s: unknown source type %q", m.Name, m.SourceType)
	}
	pairs := []struct {
		field    string
		min, max *float64
	}{
		{"color_ebc", m.ColorEBCMin, m.ColorEBCMax},
		{"extract", m.ExtractMin, m.ExtractMax},
		{"moisture", m.MoistureMin, m.MoistureMax},
		{"protein", m.ProteinMin, m.ProteinMax},
		{"kolbach_index", m.KolbachIndexMin, m.KolbachIndexMax},
		{"diastatic_power", m.DiastaticPowerMin, m.DiastaticPowerMax},
		{"diastatic_power_wk", m.DiastaticPowerWKMin, m.DiastaticPowerWKMax},
		{"friability", m.FriabilityMin, m.FriabilityMax},
	}
	for _, p := range pairs {
		if err := checkPair("malt "+m.Name+": "+p.field, p.min, p.max); err != nil {
			return err
		}
	}
	return nil
}

// SyncDiastaticPower fills whichever diastatic power scale is missing from
// the other. Denormalized on purpose: both columns persist so repeated
// ingestion never round-trips through a lossy conversion.
func (m *Malt) SyncDiastaticPower() {
	if m.DiastaticPowerMin != nil && m.DiastaticPowerWKMin == nil {
		m.DiastaticPowerWKMin = Float(units.WKFromLintner(*m.DiastaticPowerMin))
	}
	if m.DiastaticPowerMax != nil && m.DiastaticPowerWKMax == nil {
		m.DiastaticPowerWKMax = Float(units.WKFromLintner(*m.DiastaticPowerMax))
	}
	if m.DiastaticPowerWKMin != nil && m.DiastaticPowerMin == nil {
		m.DiastaticPowerMin = Float(units.LintnerFromWK(*m.DiastaticPowerWKMin))
	}
	if m.DiastaticPowerWKMax != nil && m.DiastaticPowerMax == nil {
		m.DiastaticPowerMax = Float(units.LintnerFromWK(*m.DiastaticPowerWKMax))
	}
}

// ColorTypicalEBC returns the midpoint color, or nil when unknown.
func (m *Malt) ColorTypicalEBC() *float64 {
	return midpoint(m.ColorEBCMin, m.ColorEBCMax)
}

// ColorTypicalLovibond converts the midpoint color to Lovibond.
func (m *Malt) ColorTypicalLovibond() *float64 {
	ebc := m.ColorTypicalEBC()
	if ebc == nil {
		return nil
	}
	return Float(units.LovibondFromEBC(*ebc))
}
