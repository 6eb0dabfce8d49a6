package worker

import (
	"context"

	"woki-api/core/config"
	"woki-api/core/logger"

	"github.com/hibiken/asynq"
)

// Worker runs the in-process asynq server plus a scheduler for periodic
// tasks, sharing the cache's Redis instance.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

func New(cfg config.RedisConfig, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = 5
	}
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
	})
	scheduler := asynq.NewScheduler(redisOpt, nil)
	return &Worker{
		server:    server,
		scheduler: scheduler,
		mux:       asynq.NewServeMux(),
	}
}

// HandleFunc registers a task handler on the worker's mux.
func (w *Worker) HandleFunc(taskType string, handler func(ctx context.Context, t *asynq.Task) error) {
	w.mux.HandleFunc(taskType, handler)
}

// RegisterPeriodic schedules a task by cronspec (e.g. "@every 5m").
func (w *Worker) RegisterPeriodic(spec string, task *asynq.Task) error {
	_, err := w.scheduler.Register(spec, task)
	return err
}

// Start launches the server and scheduler; both run until Shutdown.
func (w *Worker) Start() error {
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return err
	}
	logger.Info("Worker started")
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
	logger.Info("Worker stopped")
}
