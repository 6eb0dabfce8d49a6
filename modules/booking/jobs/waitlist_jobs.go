package jobs

import (
	"context"

	"woki-api/core/logger"
	"woki-api/core/worker"
	"woki-api/modules/booking/service"

	"github.com/hibiken/asynq"
)

const TypeWaitlistPurge = "waitlist:purge"

// WaitlistJobs owns the background maintenance of the waitlist queue. Replay
// itself stays synchronous inside cancel; only expiry cleanup runs here.
type WaitlistJobs struct {
	svc service.BookingService
}

func NewWaitlistJobs(svc service.BookingService) *WaitlistJobs {
	return &WaitlistJobs{svc: svc}
}

// Register wires the purge handler and its periodic schedule on the worker.
func (j *WaitlistJobs) Register(w *worker.Worker, interval string) error {
	w.HandleFunc(TypeWaitlistPurge, j.HandlePurge)
	return w.RegisterPeriodic(interval, asynq.NewTask(TypeWaitlistPurge, nil))
}

func (j *WaitlistJobs) HandlePurge(ctx context.Context, t *asynq.Task) error {
	removed, appErr := j.svc.PurgeExpiredWaitlist(ctx)
	if appErr != nil {
		logger.Error("WaitlistJobs:HandlePurge:Error", "error", appErr)
		return appErr
	}
	logger.Info("WaitlistJobs:HandlePurge:Done", "removed", removed)
	return nil
}
