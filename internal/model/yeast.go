package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Flocculation is the closed ordinal scale of yeast settling behavior.
type Flocculation string

const (
	FlocVeryLow    Flocculation = "very_low"
	FlocLow        Flocculation = "low"
	FlocMediumLow  Flocculation = "medium_low"
	FlocMedium     Flocculation = "medium"
	FlocMediumHigh Flocculation = "medium_high"
	FlocHigh       Flocculation = "high"
	FlocVeryHigh   Flocculation = "very_high"
)

var flocculations = map[Flocculation]bool{
	FlocVeryLow: true, FlocLow: true, FlocMediumLow: true, FlocMedium: true,
	FlocMediumHigh: true, FlocHigh: true, FlocVeryHigh: true,
}

// YeastForm is the closed set of product forms.
type YeastForm string

const (
	FormDry    YeastForm = "dry"
	FormLiquid YeastForm = "liquid"
)

// YeastType is the closed set of fermentation classifications.
type YeastType string

const (
	YeastAle     YeastType = "ale"
	YeastLager   YeastType = "lager"
	YeastWheat   YeastType = "wheat"
	YeastBelgian YeastType = "belgian"
	YeastKveik   YeastType = "kveik"
	YeastWild    YeastType = "wild"
	YeastBrett   YeastType = "brettanomyces"
	YeastHybrid  YeastType = "hybrid"
	YeastWine    YeastType = "wine"
	YeastOther   YeastType = "other"
)

var yeastTypes = map[YeastType]bool{
	YeastAle: true, YeastLager: true, YeastWheat: true, YeastBelgian: true,
	YeastKveik: true, YeastWild: true, YeastBrett: true, YeastHybrid: true,
	YeastWine: true, YeastOther: true,
}

// Yeast is a yeast strain. Temperatures are stored in Celsius, attenuation
// as % apparent, alcohol tolerance as % ABV.
type Yeast struct {
	Name        string `json:"name" yaml:"name"`
	ProductCode string `json:"product_code,omitempty" yaml:"product_code,omitempty"`
	Producer    string `json:"producer,omitempty" yaml:"producer,omitempty"`

	Type    YeastType `json:"yeast_type,omitempty" yaml:"yeast_type,omitempty"`
	Form    YeastForm `json:"form,omitempty" yaml:"form,omitempty"`
	Species string    `json:"species,omitempty" yaml:"species,omitempty"`

	AttenuationMin *float64     `json:"attenuation_min,omitempty" yaml:"attenuation_min,omitempty"`
	AttenuationMax *float64     `json:"attenuation_max,omitempty" yaml:"attenuation_max,omitempty"`
	Flocculation   Flocculation `json:"flocculation,omitempty" yaml:"flocculation,omitempty"`

	TempMin         *float64 `json:"temp_min,omitempty" yaml:"temp_min,omitempty"`
	TempMax         *float64 `json:"temp_max,omitempty" yaml:"temp_max,omitempty"`
	TempIdealMin    *float64 `json:"temp_ideal_min,omitempty" yaml:"temp_ideal_min,omitempty"`
	TempIdealMax    *float64 `json:"temp_ideal_max,omitempty" yaml:"temp_ideal_max,omitempty"`
	TempUnitCertain bool     `json:"temp_unit_certain" yaml:"temp_unit_certain"`

	AlcoholToleranceMin *float64 `json:"alcohol_tolerance_min,omitempty" yaml:"alcohol_tolerance_min,omitempty"`
	AlcoholToleranceMax *float64 `json:"alcohol_tolerance_max,omitempty" yaml:"alcohol_tolerance_max,omitempty"`

	CellCountBillion *float64 `json:"cell_count_billion,omitempty" yaml:"cell_count_billion,omitempty"`

	FlavorProfile []string `json:"flavor_profile,omitempty" yaml:"flavor_profile,omitempty"`
	// Tri-state characteristics: nil when no source stated either way.
	ProducesPhenols *bool `json:"produces_phenols,omitempty" yaml:"produces_phenols,omitempty"`
	ProducesSulfur  *bool `json:"produces_sulfur,omitempty" yaml:"produces_sulfur,omitempty"`
	STA1Positive    *bool `json:"sta1_positive,omitempty" yaml:"sta1_positive,omitempty"`

	BeerStyles  []string `json:"beer_styles,omitempty" yaml:"beer_styles,omitempty"`
	Equivalents []string `json:"equivalents,omitempty" yaml:"equivalents,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Notes       string `json:"notes,omitempty" yaml:"notes,omitempty"`

	Sources     []string   `json:"sources,omitempty" yaml:"sources,omitempty"`
	SourceType  SourceType `json:"source_type,omitempty" yaml:"source_type,omitempty"`
	LastUpdated time.Time  `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
}

// NewYeast returns a yeast with flag defaults applied.
func NewYeast(name string) *Yeast {
	return &Yeast{Name: name, TempUnitCertain: true}
}

// Validate rejects malformed yeasts before they can reach storage.
func (y *Yeast) Validate() error {
	if strings.TrimSpace(y.Name) == "" {
		return eris.Wrap(ErrValidation, "yeast: name is required")
	}
	if y.Type != "" && !yeastTypes[y.Type] {
		return eris.Wrapf(ErrValidation, "yeast %s: unknown type %q", y.Name, y.Type)
	}
	if y.Form != "" && y.Form != FormDry && y.Form != FormLiquid {
		return eris.Wrapf(ErrValidation, "yeast %s: unknown form %q", y.Name, y.Form)
	}
	if y.Flocculation != "" && !flocculations[y.Flocculation] {
		return eris.Wrapf(ErrValidation, "yeast %s: unknown flocculation %q", y.Name, y.Flocculation)
	}
	if !y.SourceType.valid() {
		return eris.Wrapf(ErrValidation, "yeast %s: unknown source type %q", y.Name, y.SourceType)
	}
	pairs := []struct {
		field    string
		min, max *float64
	}{
		{"attenuation", y.AttenuationMin, y.AttenuationMax},
		{"temp", y.TempMin, y.TempMax},
		{"temp_ideal", y.TempIdealMin, y.TempIdealMax},
		{"alcohol_tolerance", y.AlcoholToleranceMin, y.AlcoholToleranceMax},
	}
	for _, p := range pairs {
		if err := checkPair("yeast "+y.Name+": "+p.field, p.min, p.max); err != nil {
			return err
		}
	}
	return nil
}

// AttenuationTypical returns the midpoint attenuation, or nil when unknown.
func (y *Yeast) AttenuationTypical() *float64 {
	return midpoint(y.AttenuationMin, y.AttenuationMax)
}
