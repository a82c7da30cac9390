package cmd

import (
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/kafka/statusstream"
	"fulfillment/internal/adapters/out/osrm"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/redis/locationstore"
	"fulfillment/internal/adapters/out/statuslog"
	"fulfillment/internal/core/application/simulation"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters, use cases, and the simulation engine.
// All dependencies are constructed once and shared.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	locations  *locationstore.RedisLocationStore
	launcher   *simulation.Launcher
	logger     *slog.Logger
}

// NewCompositionRoot assembles the application from the given infrastructure
// handles. The Kafka producer is optional; pass nil to disable streaming.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	producer *statusstream.Producer,
	logger *slog.Logger,
) CompositionRoot {
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)
	locations := locationstore.NewRedisLocationStore(redisClient, 0)

	var publisher statuslog.EventPublisher
	if producer != nil {
		publisher = producer
	}
	statusLog := statuslog.NewPersistingStatusLog(uowFactory, publisher, logger)

	controller := simulation.NewOrderLifecycleController(
		uowFactory,
		osrm.New(config.OSRMBaseURL),
		locations,
		statusLog,
		agent.NewPool(config.AgentPoolSize),
		simulation.Config{
			SingleVendorBudget: config.SingleVendorBudget,
			MultiVendorBudget:  config.MultiVendorBudget,
		},
		logger,
	)

	launcher := simulation.NewLauncher(controller, simulation.NewRegistry(), logger)

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: uowFactory,
		locations:  locations,
		launcher:   launcher,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateStartSimulationCommandHandler() commands.StartSimulationCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewStartSimulationCommandHandler(f, c.launcher)
}

func (c *CompositionRoot) CreateCancelSimulationCommandHandler() commands.CancelSimulationCommandHandler {
	return commands.NewCancelSimulationCommandHandler(c.launcher)
}

func (c *CompositionRoot) CreateGetOrderStatusEventsQueryHandler() queries.GetOrderStatusEventsQueryHandler {
	return queries.NewGetOrderStatusEventsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAgentPositionQueryHandler() queries.GetAgentPositionQueryHandler {
	return queries.NewGetAgentPositionQueryHandler(c.locations)
}

// CreateHTTPServer builds the inbound HTTP adapter with all handlers wired.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateStartSimulationCommandHandler(),
		c.CreateCancelSimulationCommandHandler(),
		c.CreateGetOrderStatusEventsQueryHandler(),
		c.CreateGetAgentPositionQueryHandler(),
	)
}

// CreateJobManager builds the background job manager.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.uowFactory, c.launcher, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
