package cmd

import (
	"log/slog"

	"catering/internal/adapters/in/http"
	"catering/internal/adapters/in/worker"
	"catering/internal/adapters/out/cache"
	"catering/internal/adapters/out/llm"
	"catering/internal/adapters/out/postgres"
	"catering/internal/adapters/out/postgres/catalogrepo"
	"catering/internal/adapters/out/postgres/orderrepo"
	"catering/internal/adapters/out/postgres/userrepo"
	"catering/internal/adapters/out/providers"
	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/application/usecases/queries"
	"catering/internal/core/domain/services"
	"catering/internal/core/ports"
	"catering/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot builds every handler once. Provider clients are resolved here
// and shared by all tasks.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	orders     ports.OrderRepository
	cache      *cache.Store
	tracking   *cache.TrackingStore
	queue      ports.TaskQueue
	mapper     services.StatusMapper
	catalog    providers.Catalog
	logger     *slog.Logger

	allCooked *commands.CheckAllCookedCommandHandler
}

func NewCompositionRoot(
	cfg Config,
	catalog providers.Catalog,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	queue ports.TaskQueue,
	logger *slog.Logger,
) *CompositionRoot {
	store := cache.NewStore(redisClient, cache.Config{Prefix: cfg.CachePrefix, DefaultTTL: cfg.CacheTTL})
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		orders:     orderrepo.NewGormOrderRepository(gormDB, nil),
		cache:      store,
		tracking:   cache.NewTrackingStore(store),
		queue:      queue,
		mapper:     services.NewStatusMapper(),
		catalog:    catalog,
		logger:     logger,
	}
	c.allCooked = commands.NewCheckAllCookedCommandHandler(c.orders, c.tracking, c.queue, logger)
	return c
}

// ProviderCatalog merges the optional yaml catalog over the environment settings.
func ProviderCatalog(cfg Config) (providers.Catalog, error) {
	catalog := providers.Catalog{
		Silpo: providers.Config{BaseURL: cfg.SilpoBaseURL, Timeout: cfg.ProviderTimeout},
		KFC:   providers.Config{BaseURL: cfg.KFCBaseURL, Timeout: cfg.ProviderTimeout},
		Uklon: providers.Config{BaseURL: cfg.UklonBaseURL, Timeout: cfg.ProviderTimeout},
	}
	if cfg.ProvidersFile != "" {
		loaded, err := providers.LoadCatalog(cfg.ProvidersFile, catalog)
		if err != nil {
			return providers.Catalog{}, err
		}
		catalog = loaded
	}
	return catalog, catalog.Validate()
}

func (c *CompositionRoot) orchestrationConfig() commands.OrchestrationConfig {
	return c.cfg.orchestration()
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.CreateScheduleOrderCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateScheduleOrderCommandHandler() *commands.ScheduleOrderCommandHandler {
	return commands.NewScheduleOrderCommandHandler(c.orders, c.tracking, c.queue, c.orchestrationConfig(), c.logger)
}

func (c *CompositionRoot) CreateProcessSubOrderCommandHandler() *commands.ProcessSubOrderCommandHandler {
	registry := commands.NewProviderRegistry(
		providers.NewSilpoClient(c.catalog.Silpo),
		providers.NewKFCClient(c.catalog.KFC),
	)
	return commands.NewProcessSubOrderCommandHandler(
		registry, c.mapper, c.orders, c.tracking, c.cache, c.allCooked, c.orchestrationConfig(), c.logger,
	)
}

func (c *CompositionRoot) CreateApplyProviderStatusCommandHandler() *commands.ApplyProviderStatusCommandHandler {
	return commands.NewApplyProviderStatusCommandHandler(c.mapper, c.orders, c.tracking, c.cache, c.allCooked, c.logger)
}

func (c *CompositionRoot) CreateBookDeliveryCommandHandler() *commands.BookDeliveryCommandHandler {
	return commands.NewBookDeliveryCommandHandler(
		c.orders, c.tracking, providers.NewUklonClient(c.catalog.Uklon), c.mapper, c.orchestrationConfig(), c.logger,
	)
}

func (c *CompositionRoot) CreateGenerateRecommendationsCommandHandler() *commands.GenerateRecommendationsCommandHandler {
	model := llm.NewOpenAIModel(llm.Config{
		APIKey:  c.cfg.OpenAIAPIKey,
		Model:   c.cfg.OpenAIModel,
		BaseURL: c.cfg.OpenAIBaseURL,
	})
	return commands.NewGenerateRecommendationsCommandHandler(
		userrepo.NewGormUserRepository(c.gormDB),
		c.orders,
		catalogrepo.NewGormDishRepository(c.gormDB),
		model,
		c.cache,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetRecommendationsQueryHandler() queries.GetRecommendationsQueryHandler {
	return queries.NewGetRecommendationsQueryHandler(c.cache, c.logger)
}

func (c *CompositionRoot) CreateGetOrderTrackingQueryHandler() queries.GetOrderTrackingQueryHandler {
	return queries.NewGetOrderTrackingQueryHandler(c.gormDB, c.tracking)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

// CreateWorkerHandlers binds task types to the orchestration handlers.
func (c *CompositionRoot) CreateWorkerHandlers() *worker.Handlers {
	return worker.NewHandlers(
		c.CreateProcessSubOrderCommandHandler(),
		c.CreateBookDeliveryCommandHandler(),
		c.CreateGenerateRecommendationsCommandHandler(),
	)
}

func (c *CompositionRoot) CreateHTTPServer(validator *http.SchemaValidator) *http.Server {
	placeOrder := c.CreatePlaceOrderCommandHandler()
	return http.NewServer(http.Handlers{
		PlaceOrder:          &placeOrder,
		ApplyProviderStatus: c.CreateApplyProviderStatusCommandHandler(),
		Recommendations:     c.CreateGetRecommendationsQueryHandler(),
		OrderTracking:       c.CreateGetOrderTrackingQueryHandler(),
		ActiveOrders:        c.CreateGetActiveOrdersQueryHandler(),
		Tasks:               c.queue,
	}, validator, c.cfg.KFCWebhookSecret, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.logger, jobs.NewRecommendationJob(c.queue, c.cfg.RecommendationSchedule, c.logger))
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
