package ingest

import (
	"context"
	"errors"
	"io"
	"time"

	interfaces "github.com/sheikh-saqib/transactions-engine/internal/interfaces"
	"github.com/sheikh-saqib/transactions-engine/internal/ledger"
	"github.com/sheikh-saqib/transactions-engine/internal/models"
	"github.com/sheikh-saqib/transactions-engine/internal/models/events"
	"go.uber.org/zap"
)

// Stats counts what happened to the records of one run.
type Stats struct {
	Records  int `json:"records"`
	Applied  int `json:"applied"`
	Rejected int `json:"rejected"`
	Ignored  int `json:"ignored"`
}

// Processor feeds records from a Reader into the ledger one at a time.
type Processor struct {
	ledger    *ledger.Ledger
	logger    *zap.Logger
	publisher interfaces.EventPublisher
	topic     string
	runID     string
	now       func() time.Time
}

type Option func(*Processor)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPublisher emits an event per applied or rejected record to topic.
func WithPublisher(publisher interfaces.EventPublisher, topic string) Option {
	return func(p *Processor) {
		p.publisher = publisher
		p.topic = topic
	}
}

func WithRunID(runID string) Option {
	return func(p *Processor) {
		p.runID = runID
	}
}

func NewProcessor(l *ledger.Ledger, opts ...Option) *Processor {
	p := &Processor{
		ledger: l,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes every record of r. Per-record failures are logged and
// skipped; only an unreadable source or a cancelled context stops the run.
func (p *Processor) Run(ctx context.Context, r *Reader) (Stats, error) {
	var stats Stats

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		record, err := r.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if errors.Is(err, ErrSourceUnreadable) {
			return stats, err
		}
		stats.Records++

		if err != nil {
			p.reject(ctx, r.Line(), record, err)
			stats.Rejected++
			continue
		}

		tx, err := models.Classify(record)
		if err != nil {
			p.reject(ctx, r.Line(), record, err)
			stats.Rejected++
			continue
		}

		if err := p.ledger.Process(tx); err != nil {
			p.reject(ctx, r.Line(), record, err)
			stats.Rejected++
			continue
		}

		if tx.Kind == models.KindUnknown {
			p.logger.Debug("ignoring transaction of unknown type",
				zap.Int("line", r.Line()),
				zap.String("type", record.Type),
			)
			stats.Ignored++
			continue
		}

		p.logger.Debug("applied transaction",
			zap.Int("line", r.Line()),
			zap.Stringer("transaction", tx),
		)
		stats.Applied++
		p.publishApplied(ctx, tx)
	}
}

func (p *Processor) reject(ctx context.Context, line int, record models.Record, err error) {
	p.logger.Warn("skipping transaction",
		zap.Int("line", line),
		zap.String("type", record.Type),
		zap.Uint16("client", record.Client),
		zap.Uint32("tx", record.Tx),
		zap.Error(err),
	)

	p.publish(ctx, events.TransactionRejected{
		RunID:      p.runID,
		Line:       line,
		Type:       record.Type,
		Client:     record.Client,
		Tx:         record.Tx,
		Reason:     err.Error(),
		OccurredAt: p.now().UTC(),
	})
}

func (p *Processor) publishApplied(ctx context.Context, tx models.Transaction) {
	event := events.TransactionApplied{
		RunID:      p.runID,
		Type:       tx.Kind.String(),
		Client:     tx.Client,
		Tx:         tx.Tx,
		OccurredAt: p.now().UTC(),
	}
	if tx.HasAmount() {
		amount := tx.Amount
		event.Amount = &amount
	}
	p.publish(ctx, event)
}

// publish never fails the run: the ledger has already committed the record.
func (p *Processor) publish(ctx context.Context, event any) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, p.topic, event); err != nil {
		p.logger.Warn("failed to publish event", zap.String("topic", p.topic), zap.Error(err))
	}
}
