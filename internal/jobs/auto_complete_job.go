package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type AutoCompleteHandler interface {
	Handle(ctx context.Context, command commands.AutoCompleteDeliveredOrdersCommand) (int, error)
}

// AutoCompleteJob closes Delivered orders nobody complained about within
// the grace period.
type AutoCompleteJob struct {
	handler     AutoCompleteHandler
	schedule    string
	gracePeriod time.Duration
	batchSize   int
	cron        *cron.Cron
	logger      *slog.Logger
}

func NewAutoCompleteJob(
	handler AutoCompleteHandler,
	schedule string,
	gracePeriod time.Duration,
	batchSize int,
	logger *slog.Logger,
) *AutoCompleteJob {
	return &AutoCompleteJob{
		handler:     handler,
		schedule:    schedule,
		gracePeriod: gracePeriod,
		batchSize:   batchSize,
		cron:        cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:      logger.With("component", "auto_complete_job"),
	}
}

func (j *AutoCompleteJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto-complete job started",
		"schedule", j.schedule, "grace_period", j.gracePeriod.String())
	return nil
}

func (j *AutoCompleteJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Auto-complete job stopped")
}

func (j *AutoCompleteJob) run(ctx context.Context) {
	cmd, err := commands.NewAutoCompleteDeliveredOrdersCommand(j.gracePeriod, j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Auto-complete job misconfigured", "error", err)
		return
	}

	completed, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Auto-complete job failed", "error", err)
		return
	}
	if completed > 0 {
		j.logger.InfoContext(ctx, "Delivered orders completed", "count", completed)
	}
}
