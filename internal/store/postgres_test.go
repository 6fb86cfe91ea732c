package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewkit/brewcat/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return NewPostgresWithPool(mock, DefaultTolerance), mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS hops").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertHop_Insert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM hops WHERE lower\(name\) = lower\(\$1\).*FOR UPDATE`).
		WithArgs("Citra", "Yakima Chief").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec("INSERT INTO hops").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectExec("INSERT INTO source_links").
		WithArgs("https://example.com/citra").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	res, err := s.UpsertHop(context.Background(), testHop())
	require.NoError(t, err)
	assert.Equal(t, OutcomeInsert, res.Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertHop_NoopSkipsWrite(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	stored := testHop()
	rows := pgxmock.NewRows(splitColumns(hopColumns)).AddRow(hopRowValues(stored)...)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM hops .*FOR UPDATE`).
		WithArgs("Citra", "Yakima Chief").
		WillReturnRows(rows)
	// No INSERT or UPDATE: identical data commits nothing.

	res, err := s.UpsertHop(context.Background(), testHop())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, res.Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertHop_Update(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	stored := testHop()
	rows := pgxmock.NewRows(splitColumns(hopColumns)).AddRow(hopRowValues(stored)...)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM hops .*FOR UPDATE`).
		WithArgs("Citra", "Yakima Chief").
		WillReturnRows(rows)
	mock.ExpectExec(`UPDATE hops SET`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectExec("INSERT INTO source_links").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	revised := testHop()
	revised.AlphaAcidMin = model.Float(12)
	revised.AlphaAcidMax = model.Float(14)
	res, err := s.UpsertHop(context.Background(), revised)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdate, res.Outcome)
	assert.Contains(t, res.Changed, "alpha_acid_min")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetHop_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .* FROM hops WHERE lower\(name\) = lower\(\$1\)`).
		WithArgs("Nonexistent", "Anywhere").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetHop(context.Background(), "Nonexistent", "Anywhere")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetHop_ByNamePrefersCanonical(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	stored := testHop()
	rows := pgxmock.NewRows(splitColumns(hopColumns)).AddRow(hopRowValues(stored)...)

	mock.ExpectQuery(`ORDER BY CASE source_type WHEN 'canonical' THEN 0 ELSE 1 END`).
		WithArgs("Citra").
		WillReturnRows(rows)

	got, err := s.GetHop(context.Background(), "Citra", "")
	require.NoError(t, err)
	assert.Equal(t, "Citra", got.Name)
	assert.Equal(t, []string{"citrus", "mango", "lychee"}, got.FlavorProfile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SearchHops_FilterPushedToSQL(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	stored := testHop()
	rows := pgxmock.NewRows(splitColumns(hopColumns)).AddRow(hopRowValues(stored)...)

	mock.ExpectQuery(`SELECT .* FROM hops WHERE purpose = \$1 AND COALESCE\(alpha_acid_max, alpha_acid_min\) >= \$2`).
		WithArgs("dual", 10.0).
		WillReturnRows(rows)

	hops, err := s.SearchHops(context.Background(), HopFilter{
		Purpose:  model.PurposeDual,
		AlphaMin: model.Float(10),
	})
	require.NoError(t, err)
	require.Len(t, hops, 1)
	assert.Equal(t, "Citra", hops[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Stats(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	for _, table := range []string{"hops", "malts", "yeasts"} {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM " + table).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery("SELECT producer, COUNT\\(\\*\\) FROM " + table).
			WillReturnRows(pgxmock.NewRows([]string{"producer", "count"}).
				AddRow("Yakima Chief", 2))
		mock.ExpectQuery("SELECT source_type, COUNT\\(\\*\\) FROM " + table).
			WillReturnRows(pgxmock.NewRows([]string{"source_type", "count"}).
				AddRow("composed", 2))
	}

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Hops.Total)
	assert.Equal(t, 2, stats.Malts.ByProducer["Yakima Chief"])
	assert.Equal(t, 2, stats.Yeasts.BySourceType["composed"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Clear(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec("DELETE FROM hops").WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec("DELETE FROM malts").WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM yeasts").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM source_links").WillReturnResult(pgxmock.NewResult("DELETE", 1))

	result, err := s.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Hops)
	assert.Equal(t, 7, result.Total())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SourceVerification(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec("INSERT INTO source_links").
		WithArgs("https://example.com/citra", "broken", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, s.MarkSource(context.Background(), "https://example.com/citra", LinkBroken))

	mock.ExpectQuery(`SELECT url, status, last_checked FROM source_links`).
		WillReturnRows(pgxmock.NewRows([]string{"url", "status", "last_checked"}).
			AddRow("https://example.com/citra", "broken", "2026-08-23T10:00:00Z"))

	links, err := s.PendingSources(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, LinkBroken, links[0].Status)
	assert.False(t, links[0].LastChecked.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// hopRowValues renders a hop the way a backend row carries it, for
// feeding pgxmock result sets.
func hopRowValues(h *model.Hop) []any {
	return hopArgs(h)
}
