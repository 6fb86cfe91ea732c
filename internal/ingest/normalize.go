// Package ingest turns raw extracted facts into normalized catalog
// records and replays them through the store's merge-on-upsert path.
package ingest

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/brewkit/brewcat/internal/model"
	"github.com/brewkit/brewcat/internal/units"
)

// Record is one fact lifted into a sparse catalog record, plus whether a
// unit had to be guessed along the way.
type Record struct {
	Hop       *model.Hop
	Malt      *model.Malt
	Yeast     *model.Yeast
	Uncertain bool
}

// Normalize converts a single fact into a sparse record of its kind.
// Numeric parameters land as min/max pairs (point values widen to an
// equal pair), color/temperature/diastatic-power go through the unit
// resolution policy, text parameters map onto their fields.
func Normalize(f *model.Fact) (*Record, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	switch f.Kind {
	case model.KindHop:
		return hopFromFact(f)
	case model.KindMalt:
		return maltFromFact(f)
	case model.KindYeast:
		return yeastFromFact(f)
	}
	return nil, eris.Wrapf(model.ErrValidation, "unknown ingredient kind %q", f.Kind)
}

func numericRange(f *model.Fact) (*float64, *float64, error) {
	min, max := f.Range()
	if min == nil {
		return nil, nil, eris.Wrapf(model.ErrValidation,
			"fact %s/%s: numeric value required", f.Name, f.Parameter)
	}
	return min, max, nil
}

func parseBoolText(f *model.Fact) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(f.Text)) {
	case "true", "yes", "y", "1", "positive":
		return model.Bool(true), nil
	case "false", "no", "n", "0", "negative":
		return model.Bool(false), nil
	}
	if v, err := strconv.ParseBool(f.Text); err == nil {
		return model.Bool(v), nil
	}
	return nil, eris.Wrapf(model.ErrValidation,
		"fact %s/%s: boolean value required, got %q", f.Name, f.Parameter, f.Text)
}

func hopFromFact(f *model.Fact) (*Record, error) {
	h := &model.Hop{
		Name:       f.Name,
		Producer:   f.Producer,
		SourceType: f.SourceType,
	}
	if f.SourceURL != "" {
		h.Sources = []string{f.SourceURL}
	}

	type pair struct{ min, max **float64 }
	numeric := map[string]pair{
		"alpha_acid":    {&h.AlphaAcidMin, &h.AlphaAcidMax},
		"beta_acid":     {&h.BetaAcidMin, &h.BetaAcidMax},
		"co_humulone":   {&h.CoHumuloneMin, &h.CoHumuloneMax},
		"total_oil":     {&h.TotalOilMin, &h.TotalOilMax},
		"myrcene":       {&h.MyrceneMin, &h.MyrceneMax},
		"humulene":      {&h.HumuleneMin, &h.HumuleneMax},
		"caryophyllene": {&h.CaryophylleneMin, &h.CaryophylleneMax},
		"farnesene":     {&h.FarneseneMin, &h.FarneseneMax},
		"linalool":      {&h.LinaloolMin, &h.LinaloolMax},
		"geraniol":      {&h.GeraniolMin, &h.GeraniolMax},
	}
	if p, ok := numeric[f.Parameter]; ok {
		min, max, err := numericRange(f)
		if err != nil {
			return nil, err
		}
		*p.min, *p.max = min, max
		return &Record{Hop: h}, nil
	}

	switch f.Parameter {
	case "purpose":
		h.Purpose = model.HopPurpose(strings.ToLower(f.Text))
	case "origin":
		h.Origin = f.Text
	case "year_released":
		year, err := strconv.Atoi(strings.TrimSpace(f.Text))
		if err != nil {
			return nil, eris.Wrapf(model.ErrValidation,
				"fact %s/year_released: %q is not a year", f.Name, f.Text)
		}
		h.YearReleased = &year
	case "flavor":
		h.FlavorProfile = model.SplitTags(f.Text)
	case "aroma":
		h.AromaProfile = model.SplitTags(f.Text)
	case "substitutes":
		h.Substitutes = model.SplitTags(f.Text)
	case "description":
		h.Description = f.Text
	case "notes":
		h.Notes = f.Text
	default:
		return nil, eris.Wrapf(model.ErrValidation,
			"fact %s: unknown hop parameter %q", f.Name, f.Parameter)
	}
	return &Record{Hop: h}, nil
}

func maltFromFact(f *model.Fact) (*Record, error) {
	m := model.NewMalt(f.Name)
	m.Producer = f.Producer
	m.SourceType = f.SourceType
	if f.SourceURL != "" {
		m.Sources = []string{f.SourceURL}
	}
	region := units.RegionOf(f.Producer)

	type pair struct{ min, max **float64 }
	numeric := map[string]pair{
		"extract":       {&m.ExtractMin, &m.ExtractMax},
		"moisture":      {&m.MoistureMin, &m.MoistureMax},
		"protein":       {&m.ProteinMin, &m.ProteinMax},
		"kolbach_index": {&m.KolbachIndexMin, &m.KolbachIndexMax},
		"friability":    {&m.FriabilityMin, &m.FriabilityMax},
	}
	if p, ok := numeric[f.Parameter]; ok {
		min, max, err := numericRange(f)
		if err != nil {
			return nil, err
		}
		*p.min, *p.max = min, max
		return &Record{Malt: m}, nil
	}

	switch f.Parameter {
	case "color":
		min, max, err := numericRange(f)
		if err != nil {
			return nil, err
		}
		res := units.ResolveColorEBC(*min, *max, f.Unit, region)
		m.ColorEBCMin = model.Float(res.Min)
		m.ColorEBCMax = model.Float(res.Max)
		m.ColorUnitCertain = res.Certain
		return &Record{Malt: m, Uncertain: !res.Certain}, nil
	case "diastatic_power":
		min, max, err := numericRange(f)
		if err != nil {
			return nil, err
		}
		res := units.ResolveDiastaticLintner(*min, *max, f.Unit, region)
		m.DiastaticPowerMin = model.Float(res.Min)
		m.DiastaticPowerMax = model.Float(res.Max)
		m.DiastaticPowerUnitCertain = res.Certain
		m.SyncDiastaticPower()
		return &Record{Malt: m, Uncertain: !res.Certain}, nil
	case "extract_fine_coarse_diff":
		min, _, err := numericRange(f)
		if err != nil {
			return nil, err
		}
		m.ExtractFineCoarseDiff = min
	case "beta_glucan":
		_, max, err := numericRange(f)
		if err != nil {
			return nil, err
		}
		m.BetaGlucanMax = max
	case "max_percentage":
		_, max, err := numericRange(f)
		if err != nil {
			return nil, err
		}
		m.MaxPercentage = max
	case "requires_mashing":
		v, err := parseBoolText(f)
		if err != nil {
			return nil, err
		}
		m.RequiresMashing = v
	case "category":
		m.Category = model.MaltCategory(strings.ToLower(f.Text))
	case "grain_type":
		m.GrainType = f.Text
	case "origin":
		m.Origin = f.Text
	case "flavor":
		m.FlavorProfile = model.SplitTags(f.Text)
	case "substitutes":
		m.Substitutes = model.SplitTags(f.Text)
	case "description":
		m.Description = f.Text
	case "notes":
		m.Notes = f.Text
	default:
		return nil, eris.Wrapf(model.ErrValidation,
			"fact %s: unknown malt parameter %q", f.Name, f.Parameter)
	}
	return &Record{Malt: m}, nil
}

func yeastFromFact(f *model.Fact) (*Record, error) {
	y := model.NewYeast(f.Name)
	y.Producer = f.Producer
	y.SourceType = f.SourceType
	if f.SourceURL != "" {
		y.Sources = []string{f.SourceURL}
	}
	region := units.RegionOf(f.Producer)

	resolveTemp := func(dstMin, dstMax **float64) (bool, error) {
		min, max, err := numericRange(f)
		if err != nil {
			return false, err
		}
		res := units.ResolveTempC(*min, *max, f.Unit, region)
		*dstMin = model.Float(res.Min)
		*dstMax = model.Float(res.Max)
		y.TempUnitCertain = res.Certain
		return !res.Certain, nil
	}

	switch f.Parameter {
	case "attenuation":
		min, max, err := numericRange(f)
		if err != nil {
			return nil, err
		}
		y.AttenuationMin, y.AttenuationMax = min, max
	case "temperature":
		uncertain, err := resolveTemp(&y.TempMin, &y.TempMax)
		if err != nil {
			return nil, err
		}
		return &Record{Yeast: y, Uncertain: uncertain}, nil
	case "temperature_ideal":
		uncertain, err := resolveTemp(&y.TempIdealMin, &y.TempIdealMax)
		if err != nil {
			return nil, err
		}
		return &Record{Yeast: y, Uncertain: uncertain}, nil
	case "alcohol_tolerance":
		min, max, err := numericRange(f)
		if err != nil {
			return nil, err
		}
		y.AlcoholToleranceMin, y.AlcoholToleranceMax = min, max
	case "cell_count":
		_, max, err := numericRange(f)
		if err != nil {
			return nil, err
		}
		y.CellCountBillion = max
	case "flocculation":
		y.Flocculation = model.Flocculation(
			strings.ReplaceAll(strings.ToLower(strings.TrimSpace(f.Text)), " ", "_"))
	case "form":
		y.Form = model.YeastForm(strings.ToLower(f.Text))
	case "type":
		y.Type = model.YeastType(strings.ToLower(f.Text))
	case "species":
		y.Species = f.Text
	case "product_code":
		y.ProductCode = f.Text
	case "produces_phenols":
		v, err := parseBoolText(f)
		if err != nil {
			return nil, err
		}
		y.ProducesPhenols = v
	case "produces_sulfur":
		v, err := parseBoolText(f)
		if err != nil {
			return nil, err
		}
		y.ProducesSulfur = v
	case "sta1":
		v, err := parseBoolText(f)
		if err != nil {
			return nil, err
		}
		y.STA1Positive = v
	case "beer_styles":
		y.BeerStyles = model.SplitTags(f.Text)
	case "equivalents":
		y.Equivalents = model.SplitTags(f.Text)
	case "flavor":
		y.FlavorProfile = model.SplitTags(f.Text)
	case "description":
		y.Description = f.Text
	case "notes":
		y.Notes = f.Text
	default:
		return nil, eris.Wrapf(model.ErrValidation,
			"fact %s: unknown yeast parameter %q", f.Name, f.Parameter)
	}
	return &Record{Yeast: y}, nil
}
