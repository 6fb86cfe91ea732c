package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/brewkit/brewcat/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	tol Tolerance

	// mu serializes upserts: read-merge-write must not interleave. Reads
	// bypass the mutex and see committed state only.
	mu sync.Mutex
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string, tol Tolerance) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, tol: tol}, nil
}

// Producer is part of the key, so it is NOT NULL with an empty-string
// default: a NULL producer would defeat the UNIQUE constraint.
const sqliteMigration = `
CREATE TABLE IF NOT EXISTS hops (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	name                 TEXT NOT NULL,
	producer             TEXT NOT NULL DEFAULT '',
	origin               TEXT NOT NULL DEFAULT '',
	year_released        INTEGER,
	alpha_acid_min       REAL,
	alpha_acid_max       REAL,
	beta_acid_min        REAL,
	beta_acid_max        REAL,
	co_humulone_min      REAL,
	co_humulone_max      REAL,
	total_oil_min        REAL,
	total_oil_max        REAL,
	myrcene_min          REAL,
	myrcene_max          REAL,
	humulene_min         REAL,
	humulene_max         REAL,
	caryophyllene_min    REAL,
	caryophyllene_max    REAL,
	farnesene_min        REAL,
	farnesene_max        REAL,
	linalool_min         REAL,
	linalool_max         REAL,
	geraniol_min         REAL,
	geraniol_max         REAL,
	purpose              TEXT NOT NULL DEFAULT '',
	flavor_profile       TEXT NOT NULL DEFAULT '',
	aroma_profile        TEXT NOT NULL DEFAULT '',
	substitutes          TEXT NOT NULL DEFAULT '',
	description          TEXT NOT NULL DEFAULT '',
	notes                TEXT NOT NULL DEFAULT '',
	sources              TEXT NOT NULL DEFAULT '',
	source_type          TEXT NOT NULL DEFAULT 'composed',
	last_updated         TEXT NOT NULL DEFAULT '',
	UNIQUE (name, producer)
);

CREATE TABLE IF NOT EXISTS malts (
	id                           INTEGER PRIMARY KEY AUTOINCREMENT,
	name                         TEXT NOT NULL,
	producer                     TEXT NOT NULL DEFAULT '',
	origin                       TEXT NOT NULL DEFAULT '',
	category                     TEXT NOT NULL DEFAULT '',
	grain_type                   TEXT NOT NULL DEFAULT '',
	color_ebc_min                REAL,
	color_ebc_max                REAL,
	color_unit_certain           INTEGER NOT NULL DEFAULT 1,
	extract_min                  REAL,
	extract_max                  REAL,
	extract_fine_coarse_diff     REAL,
	moisture_min                 REAL,
	moisture_max                 REAL,
	protein_min                  REAL,
	protein_max                  REAL,
	kolbach_index_min            REAL,
	kolbach_index_max            REAL,
	diastatic_power_min          REAL,
	diastatic_power_max          REAL,
	diastatic_power_wk_min       REAL,
	diastatic_power_wk_max       REAL,
	diastatic_power_unit_certain INTEGER NOT NULL DEFAULT 1,
	friability_min               REAL,
	friability_max               REAL,
	beta_glucan_max              REAL,
	max_percentage               REAL,
	requires_mashing             INTEGER,
	flavor_profile               TEXT NOT NULL DEFAULT '',
	substitutes                  TEXT NOT NULL DEFAULT '',
	description                  TEXT NOT NULL DEFAULT '',
	notes                        TEXT NOT NULL DEFAULT '',
	sources                      TEXT NOT NULL DEFAULT '',
	source_type                  TEXT NOT NULL DEFAULT 'composed',
	last_updated                 TEXT NOT NULL DEFAULT '',
	UNIQUE (name, producer)
);

CREATE TABLE IF NOT EXISTS yeasts (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	name                  TEXT NOT NULL,
	product_code          TEXT NOT NULL DEFAULT '',
	producer              TEXT NOT NULL DEFAULT '',
	yeast_type            TEXT NOT NULL DEFAULT '',
	form                  TEXT NOT NULL DEFAULT '',
	species               TEXT NOT NULL DEFAULT '',
	attenuation_min       REAL,
	attenuation_max       REAL,
	flocculation          TEXT NOT NULL DEFAULT '',
	temp_min              REAL,
	temp_max              REAL,
	temp_ideal_min        REAL,
	temp_ideal_max        REAL,
	temp_unit_certain     INTEGER NOT NULL DEFAULT 1,
	alcohol_tolerance_min REAL,
	alcohol_tolerance_max REAL,
	cell_count_billion    REAL,
	flavor_profile        TEXT NOT NULL DEFAULT '',
	produces_phenols      INTEGER,
	produces_sulfur       INTEGER,
	sta1_positive         INTEGER,
	beer_styles           TEXT NOT NULL DEFAULT '',
	equivalents           TEXT NOT NULL DEFAULT '',
	description           TEXT NOT NULL DEFAULT '',
	notes                 TEXT NOT NULL DEFAULT '',
	sources               TEXT NOT NULL DEFAULT '',
	source_type           TEXT NOT NULL DEFAULT 'composed',
	last_updated          TEXT NOT NULL DEFAULT '',
	UNIQUE (name, producer)
);

CREATE TABLE IF NOT EXISTS source_links (
	url          TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'unverified',
	last_checked TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_hops_name ON hops(name);
CREATE INDEX IF NOT EXISTS idx_hops_purpose ON hops(purpose);
CREATE INDEX IF NOT EXISTS idx_malts_name ON malts(name);
CREATE INDEX IF NOT EXISTS idx_malts_category ON malts(category);
CREATE INDEX IF NOT EXISTS idx_yeasts_name ON yeasts(name);
CREATE INDEX IF NOT EXISTS idx_yeasts_type ON yeasts(yeast_type);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// upsert runs the shared read-merge-write cycle under the write mutex.
// The callbacks keep it kind-agnostic without reflection.
func (s *SQLiteStore) upsert(
	ctx context.Context,
	table string,
	name, producer string,
	load func(scannable) error,
	merge func() UpsertResult,
	insertArgs func(time.Time) []any,
	updateArgs func(time.Time) []any,
	columns string,
	columnCount int,
) (UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UpsertResult{}, eris.Wrap(err, "sqlite: begin upsert")
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, selectByKeyQuery(table, columns), name, producer)
	err = load(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, insertQuery(table, columns, columnCount),
			insertArgs(time.Now().UTC())...); err != nil {
			return UpsertResult{}, eris.Wrapf(err, "sqlite: insert %s %q", table, name)
		}
		if err := tx.Commit(); err != nil {
			return UpsertResult{}, eris.Wrap(err, "sqlite: commit insert")
		}
		return UpsertResult{Outcome: OutcomeInsert}, nil
	case err != nil:
		return UpsertResult{}, err
	}

	res := merge()
	if res.Outcome != OutcomeUpdate {
		return res, nil
	}
	if _, err := tx.ExecContext(ctx, updateQuery(table, columns),
		updateArgs(time.Now().UTC())...); err != nil {
		return UpsertResult{}, eris.Wrapf(err, "sqlite: update %s %q", table, name)
	}
	if err := tx.Commit(); err != nil {
		return UpsertResult{}, eris.Wrap(err, "sqlite: commit update")
	}
	return res, nil
}

func (s *SQLiteStore) UpsertHop(ctx context.Context, h *model.Hop) (UpsertResult, error) {
	if err := prepareHop(h); err != nil {
		return UpsertResult{}, err
	}
	var stored *model.Hop
	res, err := s.upsert(ctx, "hops", h.Name, h.Producer,
		func(sc scannable) (err error) { stored, err = scanHop(sc); return err },
		func() UpsertResult { return mergeHop(stored, h, s.tol) },
		func(now time.Time) []any { return hopArgs(stampNew(h, &h.LastUpdated, now)) },
		func(now time.Time) []any {
			stored.LastUpdated = now
			return append(hopArgs(stored), stored.Name, stored.Producer)
		},
		hopColumns, hopColumnCount)
	if err != nil || res.Outcome == OutcomeNoop {
		return res, err
	}
	return res, s.registerSources(ctx, h.Sources)
}

func (s *SQLiteStore) UpsertMalt(ctx context.Context, m *model.Malt) (UpsertResult, error) {
	if err := prepareMalt(m); err != nil {
		return UpsertResult{}, err
	}
	var stored *model.Malt
	res, err := s.upsert(ctx, "malts", m.Name, m.Producer,
		func(sc scannable) (err error) { stored, err = scanMalt(sc); return err },
		func() UpsertResult { return mergeMalt(stored, m, s.tol) },
		func(now time.Time) []any { return maltArgs(stampNew(m, &m.LastUpdated, now)) },
		func(now time.Time) []any {
			stored.LastUpdated = now
			return append(maltArgs(stored), stored.Name, stored.Producer)
		},
		maltColumns, maltColumnCount)
	if err != nil || res.Outcome == OutcomeNoop {
		return res, err
	}
	return res, s.registerSources(ctx, m.Sources)
}

func (s *SQLiteStore) UpsertYeast(ctx context.Context, y *model.Yeast) (UpsertResult, error) {
	if err := prepareYeast(y); err != nil {
		return UpsertResult{}, err
	}
	var stored *model.Yeast
	res, err := s.upsert(ctx, "yeasts", y.Name, y.Producer,
		func(sc scannable) (err error) { stored, err = scanYeast(sc); return err },
		func() UpsertResult { return mergeYeast(stored, y, s.tol) },
		func(now time.Time) []any { return yeastArgs(stampNew(y, &y.LastUpdated, now)) },
		func(now time.Time) []any {
			stored.LastUpdated = now
			return append(yeastArgs(stored), stored.Name, stored.Producer)
		},
		yeastColumns, yeastColumnCount)
	if err != nil || res.Outcome == OutcomeNoop {
		return res, err
	}
	return res, s.registerSources(ctx, y.Sources)
}

func (s *SQLiteStore) GetHop(ctx context.Context, name, producer string) (*model.Hop, error) {
	h, err := scanHop(s.getRow(ctx, "hops", hopColumns, name, producer))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "hop %q", name)
	}
	return h, err
}

func (s *SQLiteStore) GetMalt(ctx context.Context, name, producer string) (*model.Malt, error) {
	m, err := scanMalt(s.getRow(ctx, "malts", maltColumns, name, producer))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "malt %q", name)
	}
	return m, err
}

func (s *SQLiteStore) GetYeast(ctx context.Context, name, producer string) (*model.Yeast, error) {
	y, err := scanYeast(s.getRow(ctx, "yeasts", yeastColumns, name, producer))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "yeast %q", name)
	}
	return y, err
}

func (s *SQLiteStore) getRow(ctx context.Context, table, columns, name, producer string) *sql.Row {
	if producer == "" {
		return s.db.QueryRowContext(ctx, selectByNameQuery(table, columns), name)
	}
	return s.db.QueryRowContext(ctx, selectByKeyQuery(table, columns), name, producer)
}

func (s *SQLiteStore) SearchHops(ctx context.Context, f HopFilter) ([]model.Hop, error) {
	query, args := hopSearchQuery(f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search hops")
	}
	defer rows.Close()

	var out []model.Hop
	for rows.Next() {
		h, err := scanHop(rows)
		if err != nil {
			return nil, err
		}
		if !hopMatches(f, h) {
			continue
		}
		out = append(out, *h)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, eris.Wrap(rows.Err(), "sqlite: search hops")
}

func (s *SQLiteStore) SearchMalts(ctx context.Context, f MaltFilter) ([]model.Malt, error) {
	query, args := maltSearchQuery(f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search malts")
	}
	defer rows.Close()

	var out []model.Malt
	for rows.Next() {
		m, err := scanMalt(rows)
		if err != nil {
			return nil, err
		}
		if !maltMatches(f, m) {
			continue
		}
		out = append(out, *m)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, eris.Wrap(rows.Err(), "sqlite: search malts")
}

func (s *SQLiteStore) SearchYeasts(ctx context.Context, f YeastFilter) ([]model.Yeast, error) {
	query, args := yeastSearchQuery(f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search yeasts")
	}
	defer rows.Close()

	var out []model.Yeast
	for rows.Next() {
		y, err := scanYeast(rows)
		if err != nil {
			return nil, err
		}
		if !yeastMatches(f, y) {
			continue
		}
		out = append(out, *y)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, eris.Wrap(rows.Err(), "sqlite: search yeasts")
}

// Export reads the three tables concurrently. WAL mode gives each reader
// a consistent view; writes during export land in whichever tables they
// land in, same as any paginated dump.
func (s *SQLiteStore) Export(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Hops, err = s.SearchHops(ctx, HopFilter{})
		return err
	})
	g.Go(func() (err error) {
		snap.Malts, err = s.SearchMalts(ctx, MaltFilter{})
		return err
	})
	g.Go(func() (err error) {
		snap.Yeasts, err = s.SearchYeasts(ctx, YeastFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *SQLiteStore) Import(ctx context.Context, snap *model.Snapshot) (ImportReport, error) {
	return importSnapshot(ctx, s, snap)
}

// registerSources queues links cited by an inserted or updated record.
// New URLs enter as unverified; known URLs keep their state.
func (s *SQLiteStore) registerSources(ctx context.Context, urls []string) error {
	for _, u := range urls {
		if _, err := s.db.ExecContext(ctx, registerSourceQuery, u); err != nil {
			return eris.Wrapf(err, "sqlite: register source %q", u)
		}
	}
	return nil
}

func (s *SQLiteStore) MarkSource(ctx context.Context, url string, status LinkStatus) error {
	if _, err := ParseLinkStatus(string(status)); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, markSourceQuery,
		url, string(status), encodeTime(time.Now().UTC()))
	return eris.Wrapf(err, "sqlite: mark source %q", url)
}

func (s *SQLiteStore) PendingSources(ctx context.Context) ([]SourceLink, error) {
	rows, err := s.db.QueryContext(ctx, pendingSourcesQuery)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: pending sources")
	}
	defer rows.Close()

	var out []SourceLink
	for rows.Next() {
		link, err := scanSourceLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, link)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: pending sources")
}

func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	for _, it := range []struct {
		table string
		dst   *KindStats
	}{
		{"hops", &st.Hops},
		{"malts", &st.Malts},
		{"yeasts", &st.Yeasts},
	} {
		ks, err := kindStats(ctx, s.db, it.table)
		if err != nil {
			return nil, err
		}
		*it.dst = ks
	}
	return &st, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) (ClearResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out ClearResult
	for _, it := range []struct {
		table string
		dst   *int
	}{
		{"hops", &out.Hops},
		{"malts", &out.Malts},
		{"yeasts", &out.Yeasts},
	} {
		res, err := s.db.ExecContext(ctx, "DELETE FROM "+it.table)
		if err != nil {
			return ClearResult{}, eris.Wrapf(err, "sqlite: clear %s", it.table)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return ClearResult{}, eris.Wrapf(err, "sqlite: clear %s", it.table)
		}
		*it.dst = int(n)
	}
	// Link bookkeeping goes with the records that cited it. Not counted:
	// links are provenance metadata, not catalog records.
	if _, err := s.db.ExecContext(ctx, "DELETE FROM source_links"); err != nil {
		return ClearResult{}, eris.Wrap(err, "sqlite: clear source_links")
	}
	return out, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func kindStats(ctx context.Context, db querier, table string) (KindStats, error) {
	var ks KindStats
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&ks.Total); err != nil {
		return ks, eris.Wrapf(err, "sqlite: count %s", table)
	}
	group := func(column string, dst *map[string]int) error {
		rows, err := db.QueryContext(ctx,
			"SELECT "+column+", COUNT(*) FROM "+table+" GROUP BY "+column)
		if err != nil {
			return eris.Wrapf(err, "sqlite: stats %s by %s", table, column)
		}
		defer rows.Close()
		m := make(map[string]int)
		for rows.Next() {
			var key string
			var n int
			if err := rows.Scan(&key, &n); err != nil {
				return eris.Wrapf(err, "sqlite: stats %s by %s", table, column)
			}
			m[key] = n
		}
		if len(m) > 0 {
			*dst = m
		}
		return eris.Wrap(rows.Err(), "sqlite: stats "+table)
	}
	if err := group("producer", &ks.ByProducer); err != nil {
		return ks, err
	}
	if err := group("source_type", &ks.BySourceType); err != nil {
		return ks, err
	}
	return ks, nil
}
