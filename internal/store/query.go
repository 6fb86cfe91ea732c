package store

import (
	"fmt"
	"strings"

	"github.com/brewkit/brewcat/internal/model"
)

// Query text is written once with ?-placeholders; the Postgres backend
// passes it through rebind. Structured predicates (equality, range
// overlap) run in SQL; substring and text-query matching runs in Go where
// case folding is Unicode-correct.

func selectByKeyQuery(table, columns string) string {
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE lower(name) = lower(?) AND lower(producer) = lower(?)",
		columns, table)
}

// selectByNameQuery backs lookups with no producer given: canonical rows
// sort first so the producer-documented record wins a shared name.
func selectByNameQuery(table, columns string) string {
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE lower(name) = lower(?) "+
			"ORDER BY CASE source_type WHEN 'canonical' THEN 0 ELSE 1 END, producer LIMIT 1",
		columns, table)
}

func insertQuery(table, columns string, n int) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, columns, placeholders(n))
}

func updateQuery(table, columns string) string {
	cols := splitColumns(columns)
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE lower(name) = lower(?) AND lower(producer) = lower(?)",
		table, strings.Join(sets, ", "))
}

func splitColumns(columns string) []string {
	fields := strings.FieldsFunc(columns, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	return fields
}

// whereBuilder accumulates AND-joined predicates.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

// overlap adds interval-overlap predicates against a min/max column pair.
// Records carrying neither bound never match a bounded filter: COALESCE
// over two NULLs yields NULL and the comparison fails.
func (w *whereBuilder) overlap(col string, qmin, qmax *float64) {
	if qmin != nil {
		w.add(fmt.Sprintf("COALESCE(%s_max, %s_min) >= ?", col, col), *qmin)
	}
	if qmax != nil {
		w.add(fmt.Sprintf("COALESCE(%s_min, %s_max) <= ?", col, col), *qmax)
	}
}

func (w *whereBuilder) where() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func hopSearchQuery(f HopFilter) (string, []any) {
	var w whereBuilder
	if f.Purpose != "" {
		w.add("purpose = ?", string(f.Purpose))
	}
	w.overlap("alpha_acid", f.AlphaMin, f.AlphaMax)
	return "SELECT " + hopColumns + " FROM hops" + w.where() + " ORDER BY name, producer", w.args
}

func maltSearchQuery(f MaltFilter) (string, []any) {
	var w whereBuilder
	if f.Category != "" {
		w.add("category = ?", string(f.Category))
	}
	w.overlap("color_ebc", f.ColorMin, f.ColorMax)
	return "SELECT " + maltColumns + " FROM malts" + w.where() + " ORDER BY name, producer", w.args
}

func yeastSearchQuery(f YeastFilter) (string, []any) {
	var w whereBuilder
	if f.Type != "" {
		w.add("yeast_type = ?", string(f.Type))
	}
	if f.Form != "" {
		w.add("form = ?", string(f.Form))
	}
	if f.Flocculation != "" {
		w.add("flocculation = ?", string(f.Flocculation))
	}
	w.overlap("attenuation", f.AttenuationMin, f.AttenuationMax)
	return "SELECT " + yeastColumns + " FROM yeasts" + w.where() + " ORDER BY name, producer", w.args
}

// The Go-side half of each filter: Unicode-folded substring predicates
// the SQL layer cannot express portably.

func hopMatches(f HopFilter, h *model.Hop) bool {
	if f.Origin != "" && !foldContains(h.Origin, f.Origin) {
		return false
	}
	return matchText(f.Query, h.Name, h.FlavorProfile, h.AromaProfile, []string{h.Description})
}

func maltMatches(f MaltFilter, m *model.Malt) bool {
	if f.Producer != "" && !foldContains(m.Producer, f.Producer) {
		return false
	}
	return matchText(f.Query, m.Name, m.FlavorProfile, []string{m.Description})
}

func yeastMatches(f YeastFilter, y *model.Yeast) bool {
	if f.Producer != "" && !foldContains(y.Producer, f.Producer) {
		return false
	}
	return matchText(f.Query, y.Name, y.FlavorProfile, y.BeerStyles,
		[]string{y.ProductCode, y.Description})
}
