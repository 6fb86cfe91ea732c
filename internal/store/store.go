// Package store persists the normalized ingredient catalog. Two backends
// implement the same contract: SQLite for single-binary use and Postgres
// for shared deployments. All writes go through the merge-on-upsert path;
// records are keyed by (name, kind, producer).
package store

import (
	"context"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"

	"github.com/brewkit/brewcat/internal/model"
)

// ErrNotFound is returned by point lookups on absent keys. It is a result,
// not a fatal condition; callers distinguish it with errors.Is.
var ErrNotFound = eris.New("ingredient not found")

// Tolerance defines the noise threshold for update-vs-noop decisions on
// numeric fields. A stored value is only overwritten when the incoming
// value differs by more than max(Abs, Rel*|stored|), which absorbs
// floating-point jitter from repeated unit conversions.
type Tolerance struct {
	Abs float64 `yaml:"abs" mapstructure:"abs"`
	Rel float64 `yaml:"rel" mapstructure:"rel"`
}

// DefaultTolerance is half a percentage point absolute or 2% relative,
// whichever is looser.
var DefaultTolerance = Tolerance{Abs: 0.5, Rel: 0.02}

// Differs reports whether incoming is a real change over stored rather
// than representation noise.
func (t Tolerance) Differs(stored, incoming float64) bool {
	allowed := math.Max(t.Abs, t.Rel*math.Abs(stored))
	return math.Abs(incoming-stored) > allowed
}

// Outcome classifies what an upsert did.
type Outcome string

const (
	OutcomeInsert Outcome = "insert"
	OutcomeUpdate Outcome = "update"
	OutcomeNoop   Outcome = "noop"
)

// FieldConflict records a composed-sourced value disagreeing with a stored
// canonical value beyond tolerance. Conflicts are reported, never applied.
type FieldConflict struct {
	Field    string `json:"field"`
	Stored   string `json:"stored"`
	Incoming string `json:"incoming"`
}

// UpsertResult reports the outcome of a single upsert along with the
// fields that changed and any canonical-precedence conflicts.
type UpsertResult struct {
	Outcome   Outcome         `json:"outcome"`
	Changed   []string        `json:"changed,omitempty"`
	Conflicts []FieldConflict `json:"conflicts,omitempty"`
}

// HopFilter selects hops by interval overlap on alpha acid, closed-set
// purpose, origin substring, and a case-folded text query over name and
// profile tags.
type HopFilter struct {
	Query    string
	Origin   string
	Purpose  model.HopPurpose
	AlphaMin *float64
	AlphaMax *float64
	Limit    int
}

// MaltFilter selects malts by color overlap (EBC), category, producer
// substring, and text query.
type MaltFilter struct {
	Query    string
	Producer string
	Category model.MaltCategory
	ColorMin *float64
	ColorMax *float64
	Limit    int
}

// YeastFilter selects yeasts by attenuation overlap, closed-set type, form
// and flocculation, producer substring, and text query.
type YeastFilter struct {
	Query          string
	Producer       string
	Type           model.YeastType
	Form           model.YeastForm
	Flocculation   model.Flocculation
	AttenuationMin *float64
	AttenuationMax *float64
	Limit          int
}

// KindStats summarizes one ingredient table.
type KindStats struct {
	Total        int            `json:"total"`
	ByProducer   map[string]int `json:"by_producer,omitempty"`
	BySourceType map[string]int `json:"by_source_type,omitempty"`
}

// Stats summarizes the whole catalog.
type Stats struct {
	Hops   KindStats `json:"hops"`
	Malts  KindStats `json:"malts"`
	Yeasts KindStats `json:"yeasts"`
}

// ClearResult reports how many rows a bulk clear removed per kind.
type ClearResult struct {
	Hops   int `json:"hops"`
	Malts  int `json:"malts"`
	Yeasts int `json:"yeasts"`
}

// Total returns the combined number of deleted rows.
func (c ClearResult) Total() int { return c.Hops + c.Malts + c.Yeasts }

// ImportReport aggregates upsert outcomes across a snapshot import.
type ImportReport struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Noops     int `json:"noops"`
	Conflicts int `json:"conflicts"`
}

func (r *ImportReport) observe(res UpsertResult) {
	switch res.Outcome {
	case OutcomeInsert:
		r.Inserted++
	case OutcomeUpdate:
		r.Updated++
	default:
		r.Noops++
	}
	r.Conflicts += len(res.Conflicts)
}

// Store is the persistence contract for the ingredient catalog. Upserts
// are serialized per key so concurrent writers cannot interleave into a
// partially merged record; reads only require read-committed consistency
// and may run concurrently with each other.
type Store interface {
	UpsertHop(ctx context.Context, h *model.Hop) (UpsertResult, error)
	UpsertMalt(ctx context.Context, m *model.Malt) (UpsertResult, error)
	UpsertYeast(ctx context.Context, y *model.Yeast) (UpsertResult, error)

	// Get* perform exact (case-insensitive) lookups. With producer empty
	// and several producers sharing a name, the canonical-classified row
	// wins, else the first by producer order.
	GetHop(ctx context.Context, name, producer string) (*model.Hop, error)
	GetMalt(ctx context.Context, name, producer string) (*model.Malt, error)
	GetYeast(ctx context.Context, name, producer string) (*model.Yeast, error)

	SearchHops(ctx context.Context, f HopFilter) ([]model.Hop, error)
	SearchMalts(ctx context.Context, f MaltFilter) ([]model.Malt, error)
	SearchYeasts(ctx context.Context, f YeastFilter) ([]model.Yeast, error)

	Export(ctx context.Context) (*model.Snapshot, error)
	Import(ctx context.Context, snap *model.Snapshot) (ImportReport, error)
	Stats(ctx context.Context) (*Stats, error)

	// MarkSource records a verification verdict for one source URL. Link
	// health is tracked apart from parameter values: marking a link broken
	// queues it for re-verification and never touches the records citing it.
	MarkSource(ctx context.Context, url string, status LinkStatus) error
	// PendingSources lists links awaiting verification: never checked, or
	// checked and found broken.
	PendingSources(ctx context.Context) ([]SourceLink, error)

	// Clear deletes every record. Confirmation is the caller's job; the
	// CLI never invokes this without an explicit prompt or --yes.
	Clear(ctx context.Context) (ClearResult, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Schema returns the migration DDL for the given driver.
func Schema(driver string) (string, error) {
	switch driver {
	case "sqlite":
		return sqliteMigration, nil
	case "postgres":
		return postgresMigration, nil
	}
	return "", eris.Errorf("unsupported store driver %q", driver)
}

// foldContains reports whether haystack contains needle under Unicode case
// folding. SQLite's LIKE only folds ASCII, so text queries are applied
// in Go instead: producer catalogs are full of names like "Münchner" and
// "Świat Słodu".
func foldContains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	folder := cases.Fold()
	return strings.Contains(folder.String(haystack), folder.String(needle))
}

// matchText applies a text query against a name plus any number of tag
// sets and free-text fields.
func matchText(query string, name string, fields ...[]string) bool {
	if query == "" {
		return true
	}
	if foldContains(name, query) {
		return true
	}
	for _, tags := range fields {
		for _, t := range tags {
			if foldContains(t, query) {
				return true
			}
		}
	}
	return false
}
