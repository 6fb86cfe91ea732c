package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/brewkit/brewcat/internal/db"
	"github.com/brewkit/brewcat/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	tol     Tolerance
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, tol Tolerance, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, tol: tol, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests hand in a pgxmock pool.
func NewPostgresWithPool(pool db.Pool, tol Tolerance) *PostgresStore {
	return &PostgresStore{pool: pool, tol: tol}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS hops (
	id                   BIGSERIAL PRIMARY KEY,
	name                 TEXT NOT NULL,
	producer             TEXT NOT NULL DEFAULT '',
	origin               TEXT NOT NULL DEFAULT '',
	year_released        INTEGER,
	alpha_acid_min       DOUBLE PRECISION,
	alpha_acid_max       DOUBLE PRECISION,
	beta_acid_min        DOUBLE PRECISION,
	beta_acid_max        DOUBLE PRECISION,
	co_humulone_min      DOUBLE PRECISION,
	co_humulone_max      DOUBLE PRECISION,
	total_oil_min        DOUBLE PRECISION,
	total_oil_max        DOUBLE PRECISION,
	myrcene_min          DOUBLE PRECISION,
	myrcene_max          DOUBLE PRECISION,
	humulene_min         DOUBLE PRECISION,
	humulene_max         DOUBLE PRECISION,
	caryophyllene_min    DOUBLE PRECISION,
	caryophyllene_max    DOUBLE PRECISION,
	farnesene_min        DOUBLE PRECISION,
	farnesene_max        DOUBLE PRECISION,
	linalool_min         DOUBLE PRECISION,
	linalool_max         DOUBLE PRECISION,
	geraniol_min         DOUBLE PRECISION,
	geraniol_max         DOUBLE PRECISION,
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
	id                           BIGSERIAL PRIMARY KEY,
	name                         TEXT NOT NULL,
	producer                     TEXT NOT NULL DEFAULT '',
	origin                       TEXT NOT NULL DEFAULT '',
	category                     TEXT NOT NULL DEFAULT '',
	grain_type                   TEXT NOT NULL DEFAULT '',
	color_ebc_min                DOUBLE PRECISION,
	color_ebc_max                DOUBLE PRECISION,
	color_unit_certain           BOOLEAN NOT NULL DEFAULT TRUE,
	extract_min                  DOUBLE PRECISION,
	extract_max                  DOUBLE PRECISION,
	extract_fine_coarse_diff     DOUBLE PRECISION,
	moisture_min                 DOUBLE PRECISION,
	moisture_max                 DOUBLE PRECISION,
	protein_min                  DOUBLE PRECISION,
	protein_max                  DOUBLE PRECISION,
	kolbach_index_min            DOUBLE PRECISION,
	kolbach_index_max            DOUBLE PRECISION,
	diastatic_power_min          DOUBLE PRECISION,
	diastatic_power_max          DOUBLE PRECISION,
	diastatic_power_wk_min       DOUBLE PRECISION,
	diastatic_power_wk_max       DOUBLE PRECISION,
	diastatic_power_unit_certain BOOLEAN NOT NULL DEFAULT TRUE,
	friability_min               DOUBLE PRECISION,
	friability_max               DOUBLE PRECISION,
	beta_glucan_max              DOUBLE PRECISION,
	max_percentage               DOUBLE PRECISION,
	requires_mashing             BOOLEAN,
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
	id                    BIGSERIAL PRIMARY KEY,
	name                  TEXT NOT NULL,
	product_code          TEXT NOT NULL DEFAULT '',
	producer              TEXT NOT NULL DEFAULT '',
	yeast_type            TEXT NOT NULL DEFAULT '',
	form                  TEXT NOT NULL DEFAULT '',
	species               TEXT NOT NULL DEFAULT '',
	attenuation_min       DOUBLE PRECISION,
	attenuation_max       DOUBLE PRECISION,
	flocculation          TEXT NOT NULL DEFAULT '',
	temp_min              DOUBLE PRECISION,
	temp_max              DOUBLE PRECISION,
	temp_ideal_min        DOUBLE PRECISION,
	temp_ideal_max        DOUBLE PRECISION,
	temp_unit_certain     BOOLEAN NOT NULL DEFAULT TRUE,
	alcohol_tolerance_min DOUBLE PRECISION,
	alcohol_tolerance_max DOUBLE PRECISION,
	cell_count_billion    DOUBLE PRECISION,
	flavor_profile        TEXT NOT NULL DEFAULT '',
	produces_phenols      BOOLEAN,
	produces_sulfur       BOOLEAN,
	sta1_positive         BOOLEAN,
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

CREATE INDEX IF NOT EXISTS idx_hops_name ON hops (lower(name));
CREATE INDEX IF NOT EXISTS idx_hops_purpose ON hops (purpose);
CREATE INDEX IF NOT EXISTS idx_malts_name ON malts (lower(name));
CREATE INDEX IF NOT EXISTS idx_malts_category ON malts (category);
CREATE INDEX IF NOT EXISTS idx_yeasts_name ON yeasts (lower(name));
CREATE INDEX IF NOT EXISTS idx_yeasts_type ON yeasts (yeast_type);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// upsert runs read-merge-write inside a transaction. SELECT FOR UPDATE
// serializes writers on the same key; distinct keys proceed in parallel.
func (s *PostgresStore) upsert(
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
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return UpsertResult{}, eris.Wrap(err, "postgres: begin upsert")
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, rebind(selectByKeyQuery(table, columns))+" FOR UPDATE", name, producer)
	err = load(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if _, err := tx.Exec(ctx, rebind(insertQuery(table, columns, columnCount)),
			insertArgs(time.Now().UTC())...); err != nil {
			return UpsertResult{}, eris.Wrapf(err, "postgres: insert %s %q", table, name)
		}
		if err := tx.Commit(ctx); err != nil {
			return UpsertResult{}, eris.Wrap(err, "postgres: commit insert")
		}
		return UpsertResult{Outcome: OutcomeInsert}, nil
	case err != nil:
		return UpsertResult{}, err
	}

	res := merge()
	if res.Outcome != OutcomeUpdate {
		return res, nil
	}
	if _, err := tx.Exec(ctx, rebind(updateQuery(table, columns)),
		updateArgs(time.Now().UTC())...); err != nil {
		return UpsertResult{}, eris.Wrapf(err, "postgres: update %s %q", table, name)
	}
	if err := tx.Commit(ctx); err != nil {
		return UpsertResult{}, eris.Wrap(err, "postgres: commit update")
	}
	return res, nil
}

func (s *PostgresStore) UpsertHop(ctx context.Context, h *model.Hop) (UpsertResult, error) {
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

func (s *PostgresStore) UpsertMalt(ctx context.Context, m *model.Malt) (UpsertResult, error) {
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

func (s *PostgresStore) UpsertYeast(ctx context.Context, y *model.Yeast) (UpsertResult, error) {
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

func (s *PostgresStore) getRow(ctx context.Context, table, columns, name, producer string) pgx.Row {
	if producer == "" {
		return s.pool.QueryRow(ctx, rebind(selectByNameQuery(table, columns)), name)
	}
	return s.pool.QueryRow(ctx, rebind(selectByKeyQuery(table, columns)), name, producer)
}

func (s *PostgresStore) GetHop(ctx context.Context, name, producer string) (*model.Hop, error) {
	h, err := scanHop(s.getRow(ctx, "hops", hopColumns, name, producer))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "hop %q", name)
	}
	return h, err
}

func (s *PostgresStore) GetMalt(ctx context.Context, name, producer string) (*model.Malt, error) {
	m, err := scanMalt(s.getRow(ctx, "malts", maltColumns, name, producer))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "malt %q", name)
	}
	return m, err
}

func (s *PostgresStore) GetYeast(ctx context.Context, name, producer string) (*model.Yeast, error) {
	y, err := scanYeast(s.getRow(ctx, "yeasts", yeastColumns, name, producer))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "yeast %q", name)
	}
	return y, err
}

func (s *PostgresStore) SearchHops(ctx context.Context, f HopFilter) ([]model.Hop, error) {
	query, args := hopSearchQuery(f)
	rows, err := s.pool.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search hops")
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
	return out, eris.Wrap(rows.Err(), "postgres: search hops")
}

func (s *PostgresStore) SearchMalts(ctx context.Context, f MaltFilter) ([]model.Malt, error) {
	query, args := maltSearchQuery(f)
	rows, err := s.pool.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search malts")
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
	return out, eris.Wrap(rows.Err(), "postgres: search malts")
}

func (s *PostgresStore) SearchYeasts(ctx context.Context, f YeastFilter) ([]model.Yeast, error) {
	query, args := yeastSearchQuery(f)
	rows, err := s.pool.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search yeasts")
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
	return out, eris.Wrap(rows.Err(), "postgres: search yeasts")
}

func (s *PostgresStore) Export(ctx context.Context) (*model.Snapshot, error) {
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

func (s *PostgresStore) Import(ctx context.Context, snap *model.Snapshot) (ImportReport, error) {
	return importSnapshot(ctx, s, snap)
}

// registerSources queues links cited by an inserted or updated record.
// New URLs enter as unverified; known URLs keep their state.
func (s *PostgresStore) registerSources(ctx context.Context, urls []string) error {
	for _, u := range urls {
		if _, err := s.pool.Exec(ctx, rebind(registerSourceQuery), u); err != nil {
			return eris.Wrapf(err, "postgres: register source %q", u)
		}
	}
	return nil
}

func (s *PostgresStore) MarkSource(ctx context.Context, url string, status LinkStatus) error {
	if _, err := ParseLinkStatus(string(status)); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, rebind(markSourceQuery),
		url, string(status), encodeTime(time.Now().UTC()))
	return eris.Wrapf(err, "postgres: mark source %q", url)
}

func (s *PostgresStore) PendingSources(ctx context.Context) ([]SourceLink, error) {
	rows, err := s.pool.Query(ctx, pendingSourcesQuery)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: pending sources")
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
	return out, eris.Wrap(rows.Err(), "postgres: pending sources")
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	for _, it := range []struct {
		table string
		dst   *KindStats
	}{
		{"hops", &st.Hops},
		{"malts", &st.Malts},
		{"yeasts", &st.Yeasts},
	} {
		ks, err := s.kindStats(ctx, it.table)
		if err != nil {
			return nil, err
		}
		*it.dst = ks
	}
	return &st, nil
}

func (s *PostgresStore) kindStats(ctx context.Context, table string) (KindStats, error) {
	var ks KindStats
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&ks.Total); err != nil {
		return ks, eris.Wrapf(err, "postgres: count %s", table)
	}
	group := func(column string, dst *map[string]int) error {
		rows, err := s.pool.Query(ctx,
			"SELECT "+column+", COUNT(*) FROM "+table+" GROUP BY "+column)
		if err != nil {
			return eris.Wrapf(err, "postgres: stats %s by %s", table, column)
		}
		defer rows.Close()
		m := make(map[string]int)
		for rows.Next() {
			var key string
			var n int
			if err := rows.Scan(&key, &n); err != nil {
				return eris.Wrapf(err, "postgres: stats %s by %s", table, column)
			}
			m[key] = n
		}
		if len(m) > 0 {
			*dst = m
		}
		return eris.Wrap(rows.Err(), "postgres: stats "+table)
	}
	if err := group("producer", &ks.ByProducer); err != nil {
		return ks, err
	}
	if err := group("source_type", &ks.BySourceType); err != nil {
		return ks, err
	}
	return ks, nil
}

func (s *PostgresStore) Clear(ctx context.Context) (ClearResult, error) {
	var out ClearResult
	for _, it := range []struct {
		table string
		dst   *int
	}{
		{"hops", &out.Hops},
		{"malts", &out.Malts},
		{"yeasts", &out.Yeasts},
	} {
		tag, err := s.pool.Exec(ctx, "DELETE FROM "+it.table)
		if err != nil {
			return ClearResult{}, eris.Wrapf(err, "postgres: clear %s", it.table)
		}
		*it.dst = int(tag.RowsAffected())
	}
	// Link bookkeeping goes with the records that cited it. Not counted:
	// links are provenance metadata, not catalog records.
	if _, err := s.pool.Exec(ctx, "DELETE FROM source_links"); err != nil {
		return ClearResult{}, eris.Wrap(err, "postgres: clear source_links")
	}
	return out, nil
}
