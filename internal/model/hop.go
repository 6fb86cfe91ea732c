package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// HopPurpose is the closed set of hop usage classifications.
type HopPurpose string

const (
	PurposeAroma     HopPurpose = "aroma"
	PurposeBittering HopPurpose = "bittering"
	PurposeDual      HopPurpose = "dual"
)

func (p HopPurpose) valid() bool {
	return p == "" || p == PurposeAroma || p == PurposeBittering || p == PurposeDual
}

// Hop is a hop variety. Acid and oil-component percentages are stored as
// min/max pairs; total oil is mL/100g.
type Hop struct {
	Name         string `json:"name" yaml:"name"`
	Producer     string `json:"producer,omitempty" yaml:"producer,omitempty"`
	Origin       string `json:"origin,omitempty" yaml:"origin,omitempty"`
	YearReleased *int   `json:"year_released,omitempty" yaml:"year_released,omitempty"`

	AlphaAcidMin  *float64 `json:"alpha_acid_min,omitempty" yaml:"alpha_acid_min,omitempty"`
	AlphaAcidMax  *float64 `json:"alpha_acid_max,omitempty" yaml:"alpha_acid_max,omitempty"`
	BetaAcidMin   *float64 `json:"beta_acid_min,omitempty" yaml:"beta_acid_min,omitempty"`
	BetaAcidMax   *float64 `json:"beta_acid_max,omitempty" yaml:"beta_acid_max,omitempty"`
	CoHumuloneMin *float64 `json:"co_humulone_min,omitempty" yaml:"co_humulone_min,omitempty"`
	CoHumuloneMax *float64 `json:"co_humulone_max,omitempty" yaml:"co_humulone_max,omitempty"`

	TotalOilMin      *float64 `json:"total_oil_min,omitempty" yaml:"total_oil_min,omitempty"`
	TotalOilMax      *float64 `json:"total_oil_max,omitempty" yaml:"total_oil_max,omitempty"`
	MyrceneMin       *float64 `json:"myrcene_min,omitempty" yaml:"myrcene_min,omitempty"`
	MyrceneMax       *float64 `json:"myrcene_max,omitempty" yaml:"myrcene_max,omitempty"`
	HumuleneMin      *float64 `json:"humulene_min,omitempty" yaml:"humulene_min,omitempty"`
	HumuleneMax      *float64 `json:"humulene_max,omitempty" yaml:"humulene_max,omitempty"`
	CaryophylleneMin *float64 `json:"caryophyllene_min,omitempty" yaml:"caryophyllene_min,omitempty"`
	CaryophylleneMax *float64 `json:"caryophyllene_max,omitempty" yaml:"caryophyllene_max,omitempty"`
	FarneseneMin     *float64 `json:"farnesene_min,omitempty" yaml:"farnesene_min,omitempty"`
	FarneseneMax     *float64 `json:"farnesene_max,omitempty" yaml:"farnesene_max,omitempty"`
	LinaloolMin      *float64 `json:"linalool_min,omitempty" yaml:"linalool_min,omitempty"`
	LinaloolMax      *float64 `json:"linalool_max,omitempty" yaml:"linalool_max,omitempty"`
	GeraniolMin      *float64 `json:"geraniol_min,omitempty" yaml:"geraniol_min,omitempty"`
	GeraniolMax      *float64 `json:"geraniol_max,omitempty" yaml:"geraniol_max,omitempty"`

	Purpose       HopPurpose `json:"purpose,omitempty" yaml:"purpose,omitempty"`
	FlavorProfile []string   `json:"flavor_profile,omitempty" yaml:"flavor_profile,omitempty"`
	AromaProfile  []string   `json:"aroma_profile,omitempty" yaml:"aroma_profile,omitempty"`
	Substitutes   []string   `json:"substitutes,omitempty" yaml:"substitutes,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Notes       string `json:"notes,omitempty" yaml:"notes,omitempty"`

	Sources     []string   `json:"sources,omitempty" yaml:"sources,omitempty"`
	SourceType  SourceType `json:"source_type,omitempty" yaml:"source_type,omitempty"`
	LastUpdated time.Time  `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
}

// Validate rejects malformed hops before they can reach storage.
func (h *Hop) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return eris.Wrap(ErrValidation, "hop: name is required")
	}
	if !h.Purpose.valid() {
		return eris.Wrapf(ErrValidation, "hop %s: unknown purpose %q", h.Name, h.Purpose)
	}
	if !h.SourceType.valid() {
		return eris.Wrapf(ErrValidation, "hop %s: unknown source type %q", h.Name, h.SourceType)
	}
	pairs := []struct {
		field    string
		min, max *float64
	}{
		{"alpha_acid", h.AlphaAcidMin, h.AlphaAcidMax},
		{"beta_acid", h.BetaAcidMin, h.BetaAcidMax},
		{"co_humulone", h.CoHumuloneMin, h.CoHumuloneMax},
		{"total_oil", h.TotalOilMin, h.TotalOilMax},
		{"myrcene", h.MyrceneMin, h.MyrceneMax},
		{"humulene", h.HumuleneMin, h.HumuleneMax},
		{"caryophyllene", h.CaryophylleneMin, h.CaryophylleneMax},
		{"farnesene", h.FarneseneMin, h.FarneseneMax},
		{"linalool", h.LinaloolMin, h.LinaloolMax},
		{"geraniol", h.GeraniolMin, h.GeraniolMax},
	}
	for _, p := range pairs {
		if err := checkPair("hop "+h.Name+": "+p.field, p.min, p.max); err != nil {
			return err
		}
	}
	return nil
}

// AlphaAcidTypical returns the midpoint alpha acid, or nil when unknown.
func (h *Hop) AlphaAcidTypical() *float64 {
	return midpoint(h.AlphaAcidMin, h.AlphaAcidMax)
}
