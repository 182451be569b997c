package bootstrap

import (
	"context"
	"errors"
	"sync"
	"time"

	"jobboard_server/config"
	"jobboard_server/infra/database"
	"jobboard_server/internal/stream"
	"jobboard_server/pkg/logger"
)

const workerStopTimeout = 10 * time.Second

// Worker drains the audit stream into the structured log.
type Worker struct {
	run    func(ctx context.Context) error
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorker(cfg *config.Config) (*Worker, func(), error) {
	if cfg.RedisURL == "" {
		return nil, nil, errors.New("worker mode requires REDIS_URL")
	}

	client, err := database.NewRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	log := logger.WithField("component", "audit-worker").WithField("consumer", cfg.AuditConsumer)
	consumer := stream.NewAuditConsumer(
		stream.NewRedisStream(client, cfg.AuditGroup),
		cfg.AuditConsumer,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		run:    consumer.Start,
		ctx:    ctx,
		cancel: cancel,
	}

	return w, func() { client.Close() }, nil
}

// Start launches the consumer and returns immediately.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		logger.Info("Audit worker started")
		if err := w.run(w.ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("Audit worker stopped with error")
		}
	}()
}

// Stop cancels consumption and waits for the in-flight message.
func (w *Worker) Stop() {
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(workerStopTimeout):
		logger.Warn("Audit worker did not stop within %v", workerStopTimeout)
	}
}
