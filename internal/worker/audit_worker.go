package worker

import (
	"context"
	"log/slog"
	"time"

	"controlpanel/internal/amqp"
	"controlpanel/internal/cache"
)

const (
	seenLimit = 10000
	seenTTL   = 24 * time.Hour
)

// AuditEntry is one audited customer change.
type AuditEntry struct {
	MessageID    string
	CustomerID   int64
	CustomerName string
	Changed      []string
	Values       map[string]string
}

// AuditWorker writes an audit log line per customer.updated event, using
// the values carried by the message. Events are deduplicated by message
// id, since redelivery after a requeue is expected.
type AuditWorker struct {
	logger *slog.Logger
	seen   *cache.LRUCache[struct{}]
}

func NewAuditWorker(logger *slog.Logger) *AuditWorker {
	return newAuditWorker(logger, seenLimit, seenTTL)
}

func newAuditWorker(logger *slog.Logger, limit int, ttl time.Duration) *AuditWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditWorker{
		logger: logger.With("component", "audit"),
		seen:   cache.NewLRUCache[struct{}](limit, ttl),
	}
}

// HandleCustomerUpdated audits one message.
func (w *AuditWorker) HandleCustomerUpdated(ctx context.Context, msg *amqp.CustomerUpdatedMessage) error {
	if w.alreadySeen(msg.MessageID) {
		w.logger.DebugContext(ctx, "Skipping duplicate event", "message_id", msg.MessageID)
		return nil
	}

	entry := AuditEntry{
		MessageID:    msg.MessageID,
		CustomerID:   msg.CustomerID,
		CustomerName: msg.CustomerName,
		Changed:      msg.Changed,
		Values:       msg.Values,
	}

	attrs := []any{
		"message_id", entry.MessageID,
		"customer_id", entry.CustomerID,
		"customer_name", entry.CustomerName,
		"changed", entry.Changed,
		"event_time", msg.Timestamp,
	}
	for _, field := range entry.Changed {
		if v, ok := entry.Values[field]; ok {
			attrs = append(attrs, slog.String("new."+field, v))
		}
	}
	w.logger.InfoContext(ctx, "Customer updated", attrs...)

	w.markSeen(msg.MessageID)
	return nil
}

func (w *AuditWorker) alreadySeen(id string) bool {
	if id == "" {
		return false
	}
	_, ok := w.seen.Get(id)
	return ok
}

func (w *AuditWorker) markSeen(id string) {
	if id == "" {
		return
	}
	w.seen.Set(id, struct{}{})
}
