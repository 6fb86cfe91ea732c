package store

import (
	"fmt"
	"strings"

	"github.com/brewkit/brewcat/internal/model"
)

// mergeMode encodes source-type precedence between a stored record and an
// incoming one. Canonical (producer documentation) outranks composed
// (third-party aggregated) data.
type mergeMode int

const (
	// modeNormal: same precedence level, latest value wins past tolerance.
	modeNormal mergeMode = iota
	// modeOverride: canonical incoming over composed stored, incoming wins.
	modeOverride
	// modeWeaker: composed incoming over canonical stored. Only nil fields
	// are filled; disagreement is recorded as a conflict, never applied.
	modeWeaker
)

func precedence(stored, incoming model.SourceType) mergeMode {
	switch {
	case incoming == model.SourceCanonical && stored != model.SourceCanonical:
		return modeOverride
	case stored == model.SourceCanonical && incoming != model.SourceCanonical:
		return modeWeaker
	default:
		return modeNormal
	}
}

// merger applies field-level merge ops and accumulates the change set.
// One merger per upsert; not safe for concurrent use.
type merger struct {
	tol       Tolerance
	mode      mergeMode
	changed   []string
	conflicts []FieldConflict
}

func newMerger(tol Tolerance, stored, incoming model.SourceType) *merger {
	return &merger{tol: tol, mode: precedence(stored, incoming)}
}

func (mg *merger) note(field string) {
	mg.changed = append(mg.changed, field)
}

func (mg *merger) conflict(field string, stored, incoming any) {
	mg.conflicts = append(mg.conflicts, FieldConflict{
		Field:    field,
		Stored:   fmt.Sprint(stored),
		Incoming: fmt.Sprint(incoming),
	})
}

func (mg *merger) result() UpsertResult {
	out := Outcome(OutcomeNoop)
	if len(mg.changed) > 0 {
		out = OutcomeUpdate
	}
	return UpsertResult{Outcome: out, Changed: mg.changed, Conflicts: mg.conflicts}
}

// float merges one nullable numeric field. Returns true when the stored
// value was written. Differences within tolerance are treated as the same
// value, which is what makes re-ingesting an unchanged source a noop.
func (mg *merger) float(field string, stored **float64, incoming *float64) bool {
	if incoming == nil {
		return false
	}
	if *stored == nil {
		v := *incoming
		*stored = &v
		mg.note(field)
		return true
	}
	if !mg.tol.Differs(**stored, *incoming) {
		return false
	}
	if mg.mode == modeWeaker {
		mg.conflict(field, **stored, *incoming)
		return false
	}
	v := *incoming
	*stored = &v
	mg.note(field)
	return true
}

// intp merges a nullable integer field (exact comparison).
func (mg *merger) intp(field string, stored **int, incoming *int) {
	if incoming == nil {
		return
	}
	if *stored == nil {
		v := *incoming
		*stored = &v
		mg.note(field)
		return
	}
	if **stored == *incoming {
		return
	}
	if mg.mode == modeWeaker {
		mg.conflict(field, **stored, *incoming)
		return
	}
	v := *incoming
	*stored = &v
	mg.note(field)
}

// boolp merges a tri-state boolean. nil incoming carries no information
// and never clears a stored verdict.
func (mg *merger) boolp(field string, stored **bool, incoming *bool) {
	if incoming == nil {
		return
	}
	if *stored == nil {
		v := *incoming
		*stored = &v
		mg.note(field)
		return
	}
	if **stored == *incoming {
		return
	}
	if mg.mode == modeWeaker {
		mg.conflict(field, **stored, *incoming)
		return
	}
	v := *incoming
	*stored = &v
	mg.note(field)
}

// text merges a free-text or closed-set string field. Empty incoming is
// "unknown", not "erase". Weaker sources may only fill empty fields; a
// disagreement with stored text is recorded, same as the numeric ops.
func (mg *merger) text(field string, stored *string, incoming string) {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" || incoming == *stored {
		return
	}
	if *stored != "" && mg.mode == modeWeaker {
		mg.conflict(field, *stored, incoming)
		return
	}
	*stored = incoming
	mg.note(field)
}

// tags union-merges a tag set. Tags accumulate across sources regardless
// of precedence; a tag is an observation, not a measurement.
func (mg *merger) tags(field string, stored *[]string, incoming []string) {
	merged := model.MergeTags(*stored, incoming)
	if len(merged) != len(model.NormalizeTags(*stored)) {
		*stored = merged
		mg.note(field)
		return
	}
	*stored = merged
}

// pairResult reports what rangePair did so a shared certainty flag can be
// settled afterwards.
type pairResult struct {
	provided bool // incoming carried at least one bound
	wrote    bool // at least one stored bound was written
	reflects bool // stored bounds now agree with every incoming bound
}

// rangePair merges a min/max bound pair.
func (mg *merger) rangePair(field string, sMin, sMax **float64, iMin, iMax *float64) pairResult {
	res := pairResult{provided: iMin != nil || iMax != nil, reflects: true}
	if !res.provided {
		return res
	}
	w1 := mg.float(field+"_min", sMin, iMin)
	w2 := mg.float(field+"_max", sMax, iMax)
	res.wrote = w1 || w2
	agrees := func(s *float64, i *float64) bool {
		if i == nil {
			return true
		}
		return s != nil && !mg.tol.Differs(*s, *i)
	}
	res.reflects = agrees(*sMin, iMin) && agrees(*sMax, iMax)
	return res
}

// applyFlag settles a unit-certainty flag shared by one or more bound
// pairs. The flag ends up true only when every bound now in the record is
// backed by a certain reading: a certain incoming value that fully owns
// the pair sets it, an uncertain fill clears it, and a certain source
// corroborating stored uncertain values upgrades it.
func (mg *merger) applyFlag(field string, flag *bool, incFlag bool, results ...pairResult) {
	provided, wrote, reflects := false, false, true
	for _, r := range results {
		provided = provided || r.provided
		wrote = wrote || r.wrote
		if r.provided {
			reflects = reflects && r.reflects
		}
	}
	if !provided {
		return
	}
	next := *flag
	switch {
	case wrote && reflects:
		next = incFlag
	case wrote:
		next = *flag && incFlag
	case reflects && incFlag && !*flag:
		next = true
	}
	if next != *flag {
		*flag = next
		mg.note(field)
	}
}

// finish handles the fields every kind shares: sources accumulate, the
// source-type classification upgrades when canonical data arrives, and
// never downgrades.
func (mg *merger) finish(sources *[]string, incoming []string, st *model.SourceType) {
	mg.tags("sources", sources, incoming)
	if mg.mode == modeOverride && *st != model.SourceCanonical {
		*st = model.SourceCanonical
		mg.note("source_type")
	}
}

func mergeHop(stored, incoming *model.Hop, tol Tolerance) UpsertResult {
	mg := newMerger(tol, stored.SourceType, incoming.SourceType)

	mg.text("origin", &stored.Origin, incoming.Origin)
	mg.intp("year_released", &stored.YearReleased, incoming.YearReleased)

	mg.rangePair("alpha_acid", &stored.AlphaAcidMin, &stored.AlphaAcidMax, incoming.AlphaAcidMin, incoming.AlphaAcidMax)
	mg.rangePair("beta_acid", &stored.BetaAcidMin, &stored.BetaAcidMax, incoming.BetaAcidMin, incoming.BetaAcidMax)
	mg.rangePair("co_humulone", &stored.CoHumuloneMin, &stored.CoHumuloneMax, incoming.CoHumuloneMin, incoming.CoHumuloneMax)
	mg.rangePair("total_oil", &stored.TotalOilMin, &stored.TotalOilMax, incoming.TotalOilMin, incoming.TotalOilMax)
	mg.rangePair("myrcene", &stored.MyrceneMin, &stored.MyrceneMax, incoming.MyrceneMin, incoming.MyrceneMax)
	mg.rangePair("humulene", &stored.HumuleneMin, &stored.HumuleneMax, incoming.HumuleneMin, incoming.HumuleneMax)
	mg.rangePair("caryophyllene", &stored.CaryophylleneMin, &stored.CaryophylleneMax, incoming.CaryophylleneMin, incoming.CaryophylleneMax)
	mg.rangePair("farnesene", &stored.FarneseneMin, &stored.FarneseneMax, incoming.FarneseneMin, incoming.FarneseneMax)
	mg.rangePair("linalool", &stored.LinaloolMin, &stored.LinaloolMax, incoming.LinaloolMin, incoming.LinaloolMax)
	mg.rangePair("geraniol", &stored.GeraniolMin, &stored.GeraniolMax, incoming.GeraniolMin, incoming.GeraniolMax)

	mg.text("purpose", (*string)(&stored.Purpose), string(incoming.Purpose))
	mg.tags("flavor_profile", &stored.FlavorProfile, incoming.FlavorProfile)
	mg.tags("aroma_profile", &stored.AromaProfile, incoming.AromaProfile)
	mg.tags("substitutes", &stored.Substitutes, incoming.Substitutes)
	mg.text("description", &stored.Description, incoming.Description)
	mg.text("notes", &stored.Notes, incoming.Notes)

	mg.finish(&stored.Sources, incoming.Sources, &stored.SourceType)
	return mg.result()
}

func mergeMalt(stored, incoming *model.Malt, tol Tolerance) UpsertResult {
	mg := newMerger(tol, stored.SourceType, incoming.SourceType)

	mg.text("origin", &stored.Origin, incoming.Origin)
	mg.text("category", (*string)(&stored.Category), string(incoming.Category))
	mg.text("grain_type", &stored.GrainType, incoming.GrainType)

	color := mg.rangePair("color_ebc", &stored.ColorEBCMin, &stored.ColorEBCMax, incoming.ColorEBCMin, incoming.ColorEBCMax)
	mg.applyFlag("color_unit_certain", &stored.ColorUnitCertain, incoming.ColorUnitCertain, color)

	mg.rangePair("extract", &stored.ExtractMin, &stored.ExtractMax, incoming.ExtractMin, incoming.ExtractMax)
	mg.float("extract_fine_coarse_diff", &stored.ExtractFineCoarseDiff, incoming.ExtractFineCoarseDiff)
	mg.rangePair("moisture", &stored.MoistureMin, &stored.MoistureMax, incoming.MoistureMin, incoming.MoistureMax)
	mg.rangePair("protein", &stored.ProteinMin, &stored.ProteinMax, incoming.ProteinMin, incoming.ProteinMax)
	mg.rangePair("kolbach_index", &stored.KolbachIndexMin, &stored.KolbachIndexMax, incoming.KolbachIndexMin, incoming.KolbachIndexMax)

	dp := mg.rangePair("diastatic_power", &stored.DiastaticPowerMin, &stored.DiastaticPowerMax, incoming.DiastaticPowerMin, incoming.DiastaticPowerMax)
	wk := mg.rangePair("diastatic_power_wk", &stored.DiastaticPowerWKMin, &stored.DiastaticPowerWKMax, incoming.DiastaticPowerWKMin, incoming.DiastaticPowerWKMax)
	mg.applyFlag("diastatic_power_unit_certain", &stored.DiastaticPowerUnitCertain, incoming.DiastaticPowerUnitCertain, dp, wk)

	mg.rangePair("friability", &stored.FriabilityMin, &stored.FriabilityMax, incoming.FriabilityMin, incoming.FriabilityMax)
	mg.float("beta_glucan_max", &stored.BetaGlucanMax, incoming.BetaGlucanMax)
	mg.float("max_percentage", &stored.MaxPercentage, incoming.MaxPercentage)
	mg.boolp("requires_mashing", &stored.RequiresMashing, incoming.RequiresMashing)

	mg.tags("flavor_profile", &stored.FlavorProfile, incoming.FlavorProfile)
	mg.tags("substitutes", &stored.Substitutes, incoming.Substitutes)
	mg.text("description", &stored.Description, incoming.Description)
	mg.text("notes", &stored.Notes, incoming.Notes)

	stored.SyncDiastaticPower()
	mg.finish(&stored.Sources, incoming.Sources, &stored.SourceType)
	return mg.result()
}

func mergeYeast(stored, incoming *model.Yeast, tol Tolerance) UpsertResult {
	mg := newMerger(tol, stored.SourceType, incoming.SourceType)

	mg.text("product_code", &stored.ProductCode, incoming.ProductCode)
	mg.text("yeast_type", (*string)(&stored.Type), string(incoming.Type))
	mg.text("form", (*string)(&stored.Form), string(incoming.Form))
	mg.text("species", &stored.Species, incoming.Species)

	mg.rangePair("attenuation", &stored.AttenuationMin, &stored.AttenuationMax, incoming.AttenuationMin, incoming.AttenuationMax)
	mg.text("flocculation", (*string)(&stored.Flocculation), string(incoming.Flocculation))

	temp := mg.rangePair("temp", &stored.TempMin, &stored.TempMax, incoming.TempMin, incoming.TempMax)
	ideal := mg.rangePair("temp_ideal", &stored.TempIdealMin, &stored.TempIdealMax, incoming.TempIdealMin, incoming.TempIdealMax)
	mg.applyFlag("temp_unit_certain", &stored.TempUnitCertain, incoming.TempUnitCertain, temp, ideal)

	mg.rangePair("alcohol_tolerance", &stored.AlcoholToleranceMin, &stored.AlcoholToleranceMax, incoming.AlcoholToleranceMin, incoming.AlcoholToleranceMax)
	mg.float("cell_count_billion", &stored.CellCountBillion, incoming.CellCountBillion)

	mg.tags("flavor_profile", &stored.FlavorProfile, incoming.FlavorProfile)
	mg.boolp("produces_phenols", &stored.ProducesPhenols, incoming.ProducesPhenols)
	mg.boolp("produces_sulfur", &stored.ProducesSulfur, incoming.ProducesSulfur)
	mg.boolp("sta1_positive", &stored.STA1Positive, incoming.STA1Positive)

	mg.tags("beer_styles", &stored.BeerStyles, incoming.BeerStyles)
	mg.tags("equivalents", &stored.Equivalents, incoming.Equivalents)
	mg.text("description", &stored.Description, incoming.Description)
	mg.text("notes", &stored.Notes, incoming.Notes)

	mg.finish(&stored.Sources, incoming.Sources, &stored.SourceType)
	return mg.result()
}
