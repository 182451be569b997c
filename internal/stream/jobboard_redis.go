package stream

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobboard_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	StreamAudit = "audit:events"

	// streamMaxLen caps each stream; trimming is approximate.
	streamMaxLen = 100000

	readCount = 10
	readBlock = 5 * time.Second

	// Entries pending longer than reclaimIdle are taken over by whichever
	// consumer runs the next reclaim pass.
	reclaimIdle     = 5 * time.Minute
	reclaimInterval = time.Minute
)

// Handler processes one stream entry. A non-nil error leaves it pending.
type Handler func(id string, data []byte) error

// RedisStream wraps one consumer group over Redis streams.
type RedisStream struct {
	client *redis.Client
	group  string
}

func NewRedisStream(client *redis.Client, group string) *RedisStream {
	return &RedisStream{client: client, group: group}
}

// CreateGroup creates the group (and the stream) unless it already exists.
func (s *RedisStream) CreateGroup(ctx context.Context, stream string) error {
	err := s.client.XGroupCreateMkStream(ctx, stream, s.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// Publish appends v as JSON under the "data" field.
func (s *RedisStream) Publish(ctx context.Context, stream string, v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]any{"data": string(payload)},
	}).Result()
}

// Consume reads new entries as consumer until ctx is done. Entries left
// pending by a failed handler are retried once by the periodic reclaim
// pass and dropped if they fail again.
func (s *RedisStream) Consume(ctx context.Context, stream, consumer string, handler Handler) {
	log := logger.WithField("stream", stream).WithField("consumer", consumer)
	lastReclaim := time.Time{}

	for ctx.Err() == nil {
		if time.Since(lastReclaim) >= reclaimInterval {
			s.reclaim(ctx, stream, consumer, handler, log)
			lastReclaim = time.Now()
		}

		res, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.group,
			Consumer: consumer,
			Streams:  []string{stream, ">"},
			Count:    readCount,
			Block:    readBlock,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			log.WithError(err).Warn("Stream read error")
			sleep(ctx, time.Second)
			continue
		}

		for _, st := range res {
			s.ack(ctx, stream, dispatch(st.Messages, handler, false, log), log)
		}
	}
}

func (s *RedisStream) reclaim(ctx context.Context, stream, consumer string, handler Handler, log *logger.Logger) {
	start := "0-0"
	for ctx.Err() == nil {
		msgs, next, err := s.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   stream,
			Group:    s.group,
			Consumer: consumer,
			MinIdle:  reclaimIdle,
			Start:    start,
			Count:    readCount,
		}).Result()
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).Warn("Stream reclaim error")
			}
			return
		}
		if len(msgs) > 0 {
			log.WithField("count", len(msgs)).Info("Reclaimed stale stream entries")
			s.ack(ctx, stream, dispatch(msgs, handler, true, log), log)
		}
		if next == "0-0" || len(msgs) == 0 {
			return
		}
		start = next
	}
}

func (s *RedisStream) ack(ctx context.Context, stream string, ids []string, log *logger.Logger) {
	if len(ids) == 0 {
		return
	}
	if err := s.client.XAck(ctx, stream, s.group, ids...).Err(); err != nil {
		log.WithError(err).WithField("count", len(ids)).Warn("Stream ack error")
	}
}

// Pending returns how many entries the group has delivered but not acked.
func (s *RedisStream) Pending(ctx context.Context, stream string) (int64, error) {
	info, err := s.client.XPending(ctx, stream, s.group).Result()
	if err != nil {
		return 0, err
	}
	return info.Count, nil
}

// dispatch runs handler over msgs and returns the ids to acknowledge.
// Entries without a string "data" field are always acked. Failed entries
// are acked only when dropFailed is set.
func dispatch(msgs []redis.XMessage, handler Handler, dropFailed bool, log *logger.Logger) []string {
	ids := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		data, ok := msg.Values["data"].(string)
		if !ok {
			log.WithField("message_id", msg.ID).Warn("Stream entry without data field, skipping")
			ids = append(ids, msg.ID)
			continue
		}

		if err := handler(msg.ID, []byte(data)); err != nil {
			l := log.WithError(err).WithField("message_id", msg.ID)
			if dropFailed {
				l.Error("Stream handler failed again, dropping entry")
				ids = append(ids, msg.ID)
			} else {
				l.Warn("Stream handler error")
			}
			continue
		}
		ids = append(ids, msg.ID)
	}
	return ids
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
