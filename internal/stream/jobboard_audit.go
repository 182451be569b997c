package stream

import (
	"context"
	"time"

	"jobboard_server/core/port/out"
	"jobboard_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
)

// AuditProducer publishes audit events to the audit stream. Publishing is
// suspended by a circuit breaker after five consecutive failures.
type AuditProducer struct {
	publish func(ctx context.Context, stream string, v any) (string, error)
	cb      *gobreaker.CircuitBreaker
}

func NewAuditProducer(stream *RedisStream) *AuditProducer {
	return newAuditProducer(stream.Publish)
}

func newAuditProducer(publish func(ctx context.Context, stream string, v any) (string, error)) *AuditProducer {
	settings := gobreaker.Settings{
		Name:        "audit-stream",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("[CircuitBreaker] %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}
	return &AuditProducer{
		publish: publish,
		cb:      gobreaker.NewCircuitBreaker(settings),
	}
}

var _ out.AuditSink = (*AuditProducer)(nil)

func (p *AuditProducer) Record(ctx context.Context, event *out.AuditEvent) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return p.publish(ctx, StreamAudit, event)
	})
	return err
}

// BreakerOpen reports whether publishing is currently suspended.
func (p *AuditProducer) BreakerOpen() bool {
	return p.cb.State() == gobreaker.StateOpen
}

// AuditConsumer drains the audit stream into the structured log.
type AuditConsumer struct {
	stream *RedisStream
	name   string
	log    *logger.Logger
}

func NewAuditConsumer(stream *RedisStream, name string, log *logger.Logger) *AuditConsumer {
	if log == nil {
		log = logger.Default()
	}
	return &AuditConsumer{stream: stream, name: name, log: log}
}

// Start blocks until ctx is cancelled.
func (c *AuditConsumer) Start(ctx context.Context) error {
	if err := c.stream.CreateGroup(ctx, StreamAudit); err != nil {
		return err
	}
	if n, err := c.stream.Pending(ctx, StreamAudit); err == nil && n > 0 {
		c.log.WithField("pending", n).Info("Audit backlog awaiting acknowledgement")
	}
	c.stream.Consume(ctx, StreamAudit, c.name, c.handle)
	return nil
}

func (c *AuditConsumer) handle(id string, data []byte) error {
	var event out.AuditEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}

	c.log.WithFields(map[string]any{
		"audit_id":    event.ID,
		"stream_id":   id,
		"action":      event.Action,
		"resource":    event.Resource,
		"resource_id": event.ResourceID,
		"user_id":     event.UserID,
		"role":        event.Role,
		"status":      event.StatusCode,
		"request_id":  event.RequestID,
		"success":     event.Success,
	}).Info("audit: %s %s", event.Method, event.Path)
	return nil
}
