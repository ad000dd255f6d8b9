package background

import (
	"context"
	"time"

	"commercehub/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Consumed invites are kept this long as an audit trail before the
// retention sweep removes them.
const consumedInviteRetention = 30 * 24 * time.Hour

// JobScheduler runs periodic maintenance: consumed-invite retention and
// whatever housekeeping grows out of it later.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	inviteRepo repositories.InviteRepository
	logger     *zap.Logger
}

func NewJobScheduler(inviteRepo repositories.InviteRepository, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		inviteRepo: inviteRepo,
		logger:     logger,
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.sweepConsumedInvites, context.Background()),
		gocron.WithName("consumed-invite-retention"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

// sweepConsumedInvites deletes consumed invites older than the retention
// window. Pending invites are never touched; they live until revoked.
func (js *JobScheduler) sweepConsumedInvites(ctx context.Context) {
	cutoff := time.Now().Add(-consumedInviteRetention)
	deleted, err := js.inviteRepo.DeleteConsumedBefore(ctx, cutoff)
	if err != nil {
		js.logger.Error("consumed-invite sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		js.logger.Info("consumed-invite sweep completed", zap.Int64("deleted", deleted))
	}
}
