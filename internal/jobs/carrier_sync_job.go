package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type CarrierSyncHandler interface {
	Handle(ctx context.Context, command commands.SyncCarrierStatusesCommand) (commands.SyncReport, error)
}

// CarrierSyncJob polls the carrier for every in-flight shipment and feeds
// changed statuses to the reconciler. It backs up the webhook for
// deliveries the carrier never sent.
type CarrierSyncJob struct {
	handler   CarrierSyncHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewCarrierSyncJob(handler CarrierSyncHandler, schedule string, batchSize int, logger *slog.Logger) *CarrierSyncJob {
	return &CarrierSyncJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "carrier_sync_job"),
	}
}

func (j *CarrierSyncJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Carrier sync job started", "schedule", j.schedule)
	return nil
}

func (j *CarrierSyncJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Carrier sync job stopped")
}

func (j *CarrierSyncJob) run(ctx context.Context) {
	cmd, err := commands.NewSyncCarrierStatusesCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Carrier sync job misconfigured", "error", err)
		return
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Carrier sync job failed", "error", err)
		return
	}
	if report.Checked == 0 {
		return
	}
	j.logger.InfoContext(ctx, "Carrier statuses synced",
		"checked", report.Checked,
		"updated", report.Updated,
		"failed", report.Failed,
	)
}
