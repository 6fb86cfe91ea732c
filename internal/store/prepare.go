package store

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/brewkit/brewcat/internal/model"
)

// prepare* validate an incoming record and settle defaults before it
// enters the merge path: unspecified provenance is composed, names are
// trimmed, tag sets normalized.

func prepareHop(h *model.Hop) error {
	if err := h.Validate(); err != nil {
		return err
	}
	h.Name = strings.TrimSpace(h.Name)
	h.Producer = strings.TrimSpace(h.Producer)
	if h.SourceType == "" {
		h.SourceType = model.SourceComposed
	}
	h.FlavorProfile = model.NormalizeTags(h.FlavorProfile)
	h.AromaProfile = model.NormalizeTags(h.AromaProfile)
	h.Substitutes = model.NormalizeTags(h.Substitutes)
	h.Sources = model.NormalizeTags(h.Sources)
	return nil
}

func prepareMalt(m *model.Malt) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.Name = strings.TrimSpace(m.Name)
	m.Producer = strings.TrimSpace(m.Producer)
	if m.SourceType == "" {
		m.SourceType = model.SourceComposed
	}
	m.SyncDiastaticPower()
	m.FlavorProfile = model.NormalizeTags(m.FlavorProfile)
	m.Substitutes = model.NormalizeTags(m.Substitutes)
	m.Sources = model.NormalizeTags(m.Sources)
	return nil
}

func prepareYeast(y *model.Yeast) error {
	if err := y.Validate(); err != nil {
		return err
	}
	y.Name = strings.TrimSpace(y.Name)
	y.Producer = strings.TrimSpace(y.Producer)
	if y.SourceType == "" {
		y.SourceType = model.SourceComposed
	}
	y.FlavorProfile = model.NormalizeTags(y.FlavorProfile)
	y.BeerStyles = model.NormalizeTags(y.BeerStyles)
	y.Equivalents = model.NormalizeTags(y.Equivalents)
	y.Sources = model.NormalizeTags(y.Sources)
	return nil
}

// stampNew fills the insert timestamp only when the record carries none,
// so importing an exported snapshot reproduces it byte for byte.
func stampNew[T any](rec T, ts *time.Time, now time.Time) T {
	if ts.IsZero() {
		*ts = now
	}
	return rec
}

// importSnapshot replays a snapshot through the regular upsert path. Each
// record is copied first: upserts settle defaults in place and the
// caller's snapshot should come back untouched.
func importSnapshot(ctx context.Context, s Store, snap *model.Snapshot) (ImportReport, error) {
	var report ImportReport
	for i := range snap.Hops {
		rec := snap.Hops[i]
		res, err := s.UpsertHop(ctx, &rec)
		if err != nil {
			return report, eris.Wrapf(err, "importing hop %q", rec.Name)
		}
		report.observe(res)
	}
	for i := range snap.Malts {
		rec := snap.Malts[i]
		res, err := s.UpsertMalt(ctx, &rec)
		if err != nil {
			return report, eris.Wrapf(err, "importing malt %q", rec.Name)
		}
		report.observe(res)
	}
	for i := range snap.Yeasts {
		rec := snap.Yeasts[i]
		res, err := s.UpsertYeast(ctx, &rec)
		if err != nil {
			return report, eris.Wrapf(err, "importing yeast %q", rec.Name)
		}
		report.observe(res)
	}
	return report, nil
}
