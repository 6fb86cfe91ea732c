package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/brewkit/brewcat/internal/model"
)

// scannable is the row shape shared by database/sql and pgx, which lets
// the two backends share one set of scan helpers.
type scannable interface {
	Scan(dest ...any) error
}

// rebind converts ?-style placeholders to the $n form Postgres expects.
// Query text in this package never contains a literal question mark.
func rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders renders "?, ?, ..., ?" for an n-column INSERT.
func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}

// Timestamps are persisted as RFC 3339 text in both backends so the scan
// path stays identical.
func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parsing stored timestamp %q", s)
	}
	return t, nil
}

const hopColumns = `name, producer, origin, year_released,
alpha_acid_min, alpha_acid_max, beta_acid_min, beta_acid_max,
co_humulone_min, co_humulone_max, total_oil_min, total_oil_max,
myrcene_min, myrcene_max, humulene_min, humulene_max,
caryophyllene_min, caryophyllene_max, farnesene_min, farnesene_max,
linalool_min, linalool_max, geraniol_min, geraniol_max,
purpose, flavor_profile, aroma_profile, substitutes,
description, notes, sources, source_type, last_updated`

const hopColumnCount = 33

func hopArgs(h *model.Hop) []any {
	return []any{
		h.Name, h.Producer, h.Origin, h.YearReleased,
		h.AlphaAcidMin, h.AlphaAcidMax, h.BetaAcidMin, h.BetaAcidMax,
		h.CoHumuloneMin, h.CoHumuloneMax, h.TotalOilMin, h.TotalOilMax,
		h.MyrceneMin, h.MyrceneMax, h.HumuleneMin, h.HumuleneMax,
		h.CaryophylleneMin, h.CaryophylleneMax, h.FarneseneMin, h.FarneseneMax,
		h.LinaloolMin, h.LinaloolMax, h.GeraniolMin, h.GeraniolMax,
		string(h.Purpose), model.JoinTags(h.FlavorProfile), model.JoinTags(h.AromaProfile),
		model.JoinTags(h.Substitutes), h.Description, h.Notes,
		model.JoinTags(h.Sources), string(h.SourceType), encodeTime(h.LastUpdated),
	}
}

func scanHop(sc scannable) (*model.Hop, error) {
	var (
		h                            model.Hop
		purpose, flavor, aroma, subs string
		sources, sourceType, updated string
	)
	err := sc.Scan(
		&h.Name, &h.Producer, &h.Origin, &h.YearReleased,
		&h.AlphaAcidMin, &h.AlphaAcidMax, &h.BetaAcidMin, &h.BetaAcidMax,
		&h.CoHumuloneMin, &h.CoHumuloneMax, &h.TotalOilMin, &h.TotalOilMax,
		&h.MyrceneMin, &h.MyrceneMax, &h.HumuleneMin, &h.HumuleneMax,
		&h.CaryophylleneMin, &h.CaryophylleneMax, &h.FarneseneMin, &h.FarneseneMax,
		&h.LinaloolMin, &h.LinaloolMax, &h.GeraniolMin, &h.GeraniolMax,
		&purpose, &flavor, &aroma, &subs,
		&h.Description, &h.Notes, &sources, &sourceType, &updated,
	)
	if err != nil {
		return nil, eris.Wrap(err, "scanning hop row")
	}
	h.Purpose = model.HopPurpose(purpose)
	h.FlavorProfile = model.SplitTags(flavor)
	h.AromaProfile = model.SplitTags(aroma)
	h.Substitutes = model.SplitTags(subs)
	h.Sources = model.SplitTags(sources)
	h.SourceType = model.SourceType(sourceType)
	if h.LastUpdated, err = decodeTime(updated); err != nil {
		return nil, err
	}
	return &h, nil
}

const maltColumns = `name, producer, origin, category, grain_type,
color_ebc_min, color_ebc_max, color_unit_certain,
extract_min, extract_max, extract_fine_coarse_diff,
moisture_min, moisture_max, protein_min, protein_max,
kolbach_index_min, kolbach_index_max,
diastatic_power_min, diastatic_power_max,
diastatic_power_wk_min, diastatic_power_wk_max, diastatic_power_unit_certain,
friability_min, friability_max, beta_glucan_max,
max_percentage, requires_mashing, flavor_profile, substitutes,
description, notes, sources, source_type, last_updated`

const maltColumnCount = 34

func maltArgs(m *model.Malt) []any {
	return []any{
		m.Name, m.Producer, m.Origin, string(m.Category), m.GrainType,
		m.ColorEBCMin, m.ColorEBCMax, m.ColorUnitCertain,
		m.ExtractMin, m.ExtractMax, m.ExtractFineCoarseDiff,
		m.MoistureMin, m.MoistureMax, m.ProteinMin, m.ProteinMax,
		m.KolbachIndexMin, m.KolbachIndexMax,
		m.DiastaticPowerMin, m.DiastaticPowerMax,
		m.DiastaticPowerWKMin, m.DiastaticPowerWKMax, m.DiastaticPowerUnitCertain,
		m.FriabilityMin, m.FriabilityMax, m.BetaGlucanMax,
		m.MaxPercentage, m.RequiresMashing, model.JoinTags(m.FlavorProfile),
		model.JoinTags(m.Substitutes), m.Description, m.Notes,
		model.JoinTags(m.Sources), string(m.SourceType), encodeTime(m.LastUpdated),
	}
}

func scanMalt(sc scannable) (*model.Malt, error) {
	var (
		m                            model.Malt
		category, flavor, subs       string
		sources, sourceType, updated string
	)
	err := sc.Scan(
		&m.Name, &m.Producer, &m.Origin, &category, &m.GrainType,
		&m.ColorEBCMin, &m.ColorEBCMax, &m.ColorUnitCertain,
		&m.ExtractMin, &m.ExtractMax, &m.ExtractFineCoarseDiff,
		&m.MoistureMin, &m.MoistureMax, &m.ProteinMin, &m.ProteinMax,
		&m.KolbachIndexMin, &m.KolbachIndexMax,
		&m.DiastaticPowerMin, &m.DiastaticPowerMax,
		&m.DiastaticPowerWKMin, &m.DiastaticPowerWKMax, &m.DiastaticPowerUnitCertain,
		&m.FriabilityMin, &m.FriabilityMax, &m.BetaGlucanMax,
		&m.MaxPercentage, &m.RequiresMashing, &flavor, &subs,
		&m.Description, &m.Notes, &sources, &sourceType, &updated,
	)
	if err != nil {
		return nil, eris.Wrap(err, "scanning malt row")
	}
	m.Category = model.MaltCategory(category)
	m.FlavorProfile = model.SplitTags(flavor)
	m.Substitutes = model.SplitTags(subs)
	m.Sources = model.SplitTags(sources)
	m.SourceType = model.SourceType(sourceType)
	if m.LastUpdated, err = decodeTime(updated); err != nil {
		return nil, err
	}
	return &m, nil
}

const yeastColumns = `name, product_code, producer, yeast_type, form, species,
attenuation_min, attenuation_max, flocculation,
temp_min, temp_max, temp_ideal_min, temp_ideal_max, temp_unit_certain,
alcohol_tolerance_min, alcohol_tolerance_max, cell_count_billion,
flavor_profile, produces_phenols, produces_sulfur, sta1_positive,
beer_styles, equivalents, description, notes,
sources, source_type, last_updated`

const yeastColumnCount = 28

func yeastArgs(y *model.Yeast) []any {
	return []any{
		y.Name, y.ProductCode, y.Producer, string(y.Type), string(y.Form), y.Species,
		y.AttenuationMin, y.AttenuationMax, string(y.Flocculation),
		y.TempMin, y.TempMax, y.TempIdealMin, y.TempIdealMax, y.TempUnitCertain,
		y.AlcoholToleranceMin, y.AlcoholToleranceMax, y.CellCountBillion,
		model.JoinTags(y.FlavorProfile), y.ProducesPhenols, y.ProducesSulfur, y.STA1Positive,
		model.JoinTags(y.BeerStyles), model.JoinTags(y.Equivalents), y.Description, y.Notes,
		model.JoinTags(y.Sources), string(y.SourceType), encodeTime(y.LastUpdated),
	}
}

func scanYeast(sc scannable) (*model.Yeast, error) {
	var (
		y                            model.Yeast
		yType, form, floc, flavor    string
		styles, equivs               string
		sources, sourceType, updated string
	)
	err := sc.Scan(
		&y.Name, &y.ProductCode, &y.Producer, &yType, &form, &y.Species,
		&y.AttenuationMin, &y.AttenuationMax, &floc,
		&y.TempMin, &y.TempMax, &y.TempIdealMin, &y.TempIdealMax, &y.TempUnitCertain,
		&y.AlcoholToleranceMin, &y.AlcoholToleranceMax, &y.CellCountBillion,
		&flavor, &y.ProducesPhenols, &y.ProducesSulfur, &y.STA1Positive,
		&styles, &equivs, &y.Description, &y.Notes,
		&sources, &sourceType, &updated,
	)
	if err != nil {
		return nil, eris.Wrap(err, "scanning yeast row")
	}
	y.Type = model.YeastType(yType)
	y.Form = model.YeastForm(form)
	y.Flocculation = model.Flocculation(floc)
	y.FlavorProfile = model.SplitTags(flavor)
	y.BeerStyles = model.SplitTags(styles)
	y.Equivalents = model.SplitTags(equivs)
	y.Sources = model.SplitTags(sources)
	y.SourceType = model.SourceType(sourceType)
	if y.LastUpdated, err = decodeTime(updated); err != nil {
		return nil, err
	}
	return &y, nil
}
