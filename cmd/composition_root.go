package cmd

import (
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/telemetry"

	"gorm.io/gorm"
)

// autoCompleteBatchSize caps how many orders one auto-complete tick closes.
const autoCompleteBatchSize = 200

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	publisher  ports.EventPublisher
	dedup      ports.WebhookDeduplicator
	carrier    ports.CarrierClient
	metrics    *telemetry.Metrics
	logger     *slog.Logger
}

func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	dedup ports.WebhookDeduplicator,
	carrier ports.CarrierClient,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  publisher,
		dedup:      dedup,
		carrier:    carrier,
		metrics:    metrics,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.publisher, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateReconcileCarrierStatusCommandHandler() commands.ReconcileCarrierStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcileCarrierStatusCommandHandler(
		f, c.CreateTransitionOrderCommandHandler(), c.carrier.Name(), c.metrics, c.logger,
	)
}

func (c *CompositionRoot) CreateReceiveCarrierWebhookCommandHandler() commands.ReceiveCarrierWebhookCommandHandler {
	return commands.NewReceiveCarrierWebhookCommandHandler(
		c.dedup, c.CreateReconcileCarrierStatusCommandHandler(), c.logger,
	)
}

func (c *CompositionRoot) CreateRequestShipmentCommandHandler() commands.RequestShipmentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestShipmentCommandHandler(f, c.CreateTransitionOrderCommandHandler(), c.carrier, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.CreateTransitionOrderCommandHandler(), c.carrier, c.logger)
}

func (c *CompositionRoot) CreateSyncCarrierStatusesCommandHandler() commands.SyncCarrierStatusesCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewSyncCarrierStatusesCommandHandler(
		f, c.carrier, c.CreateReconcileCarrierStatusCommandHandler(), c.logger,
	)
}

func (c *CompositionRoot) CreateAutoCompleteDeliveredOrdersCommandHandler() commands.AutoCompleteDeliveredOrdersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAutoCompleteDeliveredOrdersCommandHandler(f, c.CreateTransitionOrderCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableTransitionsQueryHandler() queries.GetAvailableTransitionsQueryHandler {
	return queries.NewGetAvailableTransitionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateCanCancelOrderQueryHandler() queries.CanCancelOrderQueryHandler {
	return queries.NewCanCancelOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateTransitionOrderCommandHandler(),
		c.CreateRequestShipmentCommandHandler(),
		c.CreateCancelOrderCommandHandler(),
		c.CreateReceiveCarrierWebhookCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetAvailableTransitionsQueryHandler(),
		c.CreateCanCancelOrderQueryHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewCarrierSyncJob(
			c.CreateSyncCarrierStatusesCommandHandler(),
			c.configs.CarrierSyncSchedule,
			c.configs.CarrierSyncBatchSize,
			c.logger,
		),
		jobs.NewAutoCompleteJob(
			c.CreateAutoCompleteDeliveredOrdersCommandHandler(),
			c.configs.AutoCompleteSchedule,
			c.configs.AutoCompleteAfter,
			autoCompleteBatchSize,
			c.logger,
		),
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
