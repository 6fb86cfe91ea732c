package ingest

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brewkit/brewcat/internal/metrics"
	"github.com/brewkit/brewcat/internal/model"
	"github.com/brewkit/brewcat/internal/store"
)

// Report summarizes one ingestion run.
type Report struct {
	RunID     string `json:"run_id"`
	Facts     int    `json:"facts"`
	Inserted  int    `json:"inserted"`
	Updated   int    `json:"updated"`
	Noops     int    `json:"noops"`
	Conflicts int    `json:"conflicts"`
	Rejected  int    `json:"rejected"`
	Uncertain int    `json:"uncertain"`
}

// Runner replays extracted facts against the catalog. Invalid facts are
// dropped and counted, never fatal: one bad row in a scrape must not
// sink the batch.
type Runner struct {
	store          store.Store
	log            *zap.Logger
	driftWarnRatio float64
}

// NewRunner builds a Runner. driftWarnRatio is the update share past
// which a re-ingest of supposedly unchanged sources is flagged: a stable
// source replayed should be almost all noops, so a high update ratio
// usually means a conversion or tolerance regression upstream.
func NewRunner(s store.Store, log *zap.Logger, driftWarnRatio float64) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{store: s, log: log, driftWarnRatio: driftWarnRatio}
}

// Run normalizes and upserts a batch of facts.
func (r *Runner) Run(ctx context.Context, facts []model.Fact) (*Report, error) {
	report := &Report{RunID: uuid.New().String(), Facts: len(facts)}
	log := r.log.With(zap.String("run_id", report.RunID))
	log.Info("ingest run started", zap.Int("facts", len(facts)))

	for i := range facts {
		f := &facts[i]
		rec, err := Normalize(f)
		if err != nil {
			if !errors.Is(err, model.ErrValidation) {
				return report, err
			}
			report.Rejected++
			metrics.FactsRejectedTotal.Inc()
			log.Warn("fact rejected",
				zap.String("name", f.Name),
				zap.String("parameter", f.Parameter),
				zap.Error(err))
			continue
		}
		if rec.Uncertain {
			report.Uncertain++
			metrics.UncertainUnitsTotal.WithLabelValues(string(f.Kind), f.Parameter).Inc()
			log.Warn("unit unresolved, stored best guess",
				zap.String("name", f.Name),
				zap.String("parameter", f.Parameter),
				zap.String("detected_unit", f.Unit))
		}

		res, err := r.apply(ctx, rec)
		if err != nil {
			if errors.Is(err, model.ErrValidation) {
				report.Rejected++
				metrics.FactsRejectedTotal.Inc()
				log.Warn("fact rejected",
					zap.String("name", f.Name),
					zap.String("parameter", f.Parameter),
					zap.Error(err))
				continue
			}
			return report, err
		}

		metrics.UpsertsTotal.WithLabelValues(string(f.Kind), string(res.Outcome)).Inc()
		switch res.Outcome {
		case store.OutcomeInsert:
			report.Inserted++
		case store.OutcomeUpdate:
			report.Updated++
		default:
			report.Noops++
		}
		if len(res.Conflicts) > 0 {
			report.Conflicts += len(res.Conflicts)
			metrics.FieldConflictsTotal.WithLabelValues(string(f.Kind)).Add(float64(len(res.Conflicts)))
			for _, c := range res.Conflicts {
				log.Warn("field conflict, canonical value kept",
					zap.String("name", f.Name),
					zap.String("field", c.Field),
					zap.String("stored", c.Stored),
					zap.String("incoming", c.Incoming))
			}
		}
	}

	r.warnOnDrift(log, report)
	log.Info("ingest run finished",
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated),
		zap.Int("noops", report.Noops),
		zap.Int("conflicts", report.Conflicts),
		zap.Int("rejected", report.Rejected))
	return report, nil
}

func (r *Runner) apply(ctx context.Context, rec *Record) (store.UpsertResult, error) {
	switch {
	case rec.Hop != nil:
		return r.store.UpsertHop(ctx, rec.Hop)
	case rec.Malt != nil:
		return r.store.UpsertMalt(ctx, rec.Malt)
	default:
		return r.store.UpsertYeast(ctx, rec.Yeast)
	}
}

func (r *Runner) warnOnDrift(log *zap.Logger, report *Report) {
	settled := report.Updated + report.Noops
	if r.driftWarnRatio <= 0 || settled == 0 {
		return
	}
	ratio := float64(report.Updated) / float64(settled)
	if ratio > r.driftWarnRatio {
		log.Warn("update ratio above drift threshold",
			zap.Float64("ratio", ratio),
			zap.Int("updated", report.Updated),
			zap.Int("noops", report.Noops))
	}
}
