package services

import (
	"context"
	"time"

	"smartmoney/internal/core"
	"smartmoney/internal/log"
)

// Publisher ships one pending change to the change feed.
type Publisher interface {
	PublishChange(ctx context.Context, change core.PendingChange) error
}

// OutboxConfig holds configuration for the outbox flusher
type OutboxConfig struct {
	// Interval is how often pending changes are flushed (default: 30s)
	Interval time.Duration

	// BatchSize is the max number of changes published per flush (default: 50)
	BatchSize int
}

func DefaultOutboxConfig() OutboxConfig {
	return OutboxConfig{
		Interval:  30 * time.Second,
		BatchSize: 50,
	}
}

// OutboxFlusher publishes the ledger's pending changes and drops the ones
// that were delivered.
type OutboxFlusher struct {
	*runner
	ledger    *Ledger
	publisher Publisher
	config    OutboxConfig
	logger    *log.Logger
}

func NewOutboxFlusher(ledger *Ledger, publisher Publisher, config OutboxConfig, logger *log.Logger) *OutboxFlusher {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	def := DefaultOutboxConfig()
	if config.Interval <= 0 {
		config.Interval = def.Interval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	f := &OutboxFlusher{
		ledger:    ledger,
		publisher: publisher,
		config:    config,
		logger:    logger.WithComponent(log.ComponentOutbox),
	}
	f.runner = &runner{
		name:     "outbox flusher",
		interval: config.Interval,
		logger:   f.logger,
		tick: func(ctx context.Context) {
			f.FlushOnce(ctx)
		},
	}
	return f
}

// FlushOnce publishes up to BatchSize changes in order and stops at the first
// failure so the feed stays ordered. It returns how many were delivered.
func (f *OutboxFlusher) FlushOnce(ctx context.Context) int {
	changes := f.ledger.PendingChanges(f.config.BatchSize)
	if len(changes) == 0 {
		return 0
	}

	acked := make([]string, 0, len(changes))
	for _, c := range changes {
		if err := f.publisher.PublishChange(ctx, c); err != nil {
			f.logger.WarnContext(ctx, "Failed to publish change, will retry",
				log.NewFields().
					WithOperation(log.OpPublish).
					WithEntity(c.Entity, c.ID).
					WithError(err).ToSlice()...)
			break
		}
		acked = append(acked, c.ID)
	}
	f.ledger.AckChanges(ctx, acked...)

	if len(acked) > 0 {
		f.logger.InfoContext(ctx, "Pending changes published",
			log.FieldOperation, log.OpPublish,
			log.FieldCount, len(acked))
	}
	return len(acked)
}
