package recurrence

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Template is a recurring card as seen by the scheduler.
type Template struct {
	CardID       uint64
	Pattern      Pattern
	LastCreated  *time.Time
	CreatedCount int
}

// Store is the slice of the card service the scheduler drives. Materialize
// must be idempotent for a given (card, due) pair: the compare against the
// card's last-created date and the insert happen in one transaction, so
// re-invocation (or a concurrent second scheduler) creates no duplicates.
type Store interface {
	ListTemplates(ctx context.Context) ([]Template, error)
	Materialize(ctx context.Context, cardID uint64, due time.Time) (bool, error)
	ScanDueSoon(ctx context.Context, window time.Duration) error
}

type Scheduler struct {
	store  Store
	every  time.Duration
	window time.Duration
	logger *zap.SugaredLogger
}

func NewScheduler(store Store, every, dueSoonWindow time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:  store,
		every:  every,
		window: dueSoonWindow,
		logger: logger.Sugar(),
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	s.logger.Infow("Recurrence scheduler started", "interval", s.every.String())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx, time.Now().UTC())
		}
	}
}

// Check runs one materialization pass. Safe to invoke repeatedly or
// concurrently for the same cards.
func (s *Scheduler) Check(ctx context.Context, asOf time.Time) {
	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		s.logger.Errorw("Failed to list recurring cards", "error", err)
		return
	}

	for _, tpl := range templates {
		due := DueOccurrences(tpl.Pattern, tpl.LastCreated, tpl.CreatedCount, asOf)
		for _, d := range due {
			created, err := s.store.Materialize(ctx, tpl.CardID, d)
			if err != nil {
				s.logger.Warnw("Failed to materialize occurrence",
					"card_id", tpl.CardID,
					"due", d.Format("2006-01-02"),
					"error", err,
				)
				break
			}
			if created {
				s.logger.Infow("Occurrence materialized",
					"card_id", tpl.CardID,
					"due", d.Format("2006-01-02"),
				)
			}
		}
	}

	if err := s.store.ScanDueSoon(ctx, s.window); err != nil {
		s.logger.Warnw("Due-soon scan failed", "error", err)
	}
}
