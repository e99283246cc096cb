package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/config"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/infra/mercadopago"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/infra/tracing"
	pgrepo "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/repo/postgres"
	restrepo "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/repo/postgrest"
	redrepo "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/repo/redis"
	checkoutsvc "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/services/checkout"
	ratesvc "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/services/rate"
	reconcilesvc "github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/services/reconcile"
)

type App struct {
	cfg            config.Config
	logger         *zap.Logger
	server         *http.Server
	postgres       *pgxpool.Pool
	redis          *goredis.Client
	tracerShutdown tracing.ShutdownFunc
	httpRouter     http.Handler
}

type datastore struct {
	catalog   checkoutsvc.CatalogStore
	purchases reconcilesvc.PurchaseStore
	pool      *pgxpool.Pool
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	tracerShutdown, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Env,
	})
	if err != nil {
		log.Warn("tracing init failed, continuing without export", zap.Error(err))
		tracerShutdown = func(context.Context) error { return nil }
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	store := openDatastore(ctx, cfg, log)

	var redisClient *goredis.Client
	var limiter checkoutsvc.RateLimiter
	if cfg.Redis.Addr != "" && cfg.Checkout.RatePerMinute > 0 {
		redisClient = redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		limiter = ratesvc.NewLimiter(redrepo.NewRateRepo(redisClient), cfg.Checkout.RatePerMinute)
	}

	var preferences checkoutsvc.PreferenceCreator
	var payments reconcilesvc.PaymentFetcher
	if mp, err := mercadopago.NewClient(mercadopago.Config{
		BaseURL:     cfg.MercadoPago.BaseURL,
		AccessToken: cfg.MercadoPago.AccessToken,
		Timeout:     cfg.MercadoPago.Timeout,
	}); err != nil {
		log.Warn("mercadopago init failed, continuing in degraded mode", zap.Error(err))
	} else {
		preferences = mp
		payments = mp
	}

	checkoutService := checkoutsvc.NewService(checkoutsvc.Dependencies{
		Catalog:     store.catalog,
		Preferences: preferences,
		Limiter:     limiter,
		Logger:      log,
	}, checkoutsvc.Config{
		DefaultTitle:    cfg.Checkout.DefaultTitle,
		Currency:        cfg.Checkout.Currency,
		SuccessURL:      cfg.Site.SuccessURL,
		FailureURL:      cfg.Site.FailureURL,
		PendingURL:      cfg.Site.PendingURL,
		NotificationURL: cfg.Site.NotificationURL,
		Sandbox:         cfg.MercadoPago.Sandbox,
	})
	reconcileService := reconcilesvc.NewService(reconcilesvc.Dependencies{
		Purchases: store.purchases,
		Payments:  payments,
	})

	RegisterRoutes(r, Dependencies{
		CheckoutService: checkoutService,
		Reconciler:      reconcileService,
		Logger:          log,
		Config:          cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:            cfg,
		logger:         log,
		server:         server,
		postgres:       store.pool,
		redis:          redisClient,
		tracerShutdown: tracerShutdown,
		httpRouter:     r,
	}, nil
}

// openDatastore leaves both stores nil when the configured backend is unreachable. The
// services then fail per request instead of at startup.
func openDatastore(ctx context.Context, cfg config.Config, log *zap.Logger) datastore {
	switch cfg.Datastore.Driver {
	case config.DatastoreDriverPostgres:
		pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
			return datastore{}
		}
		return datastore{
			catalog:   pgrepo.NewSeriesRepo(pool),
			purchases: pgrepo.NewPurchaseRepo(pool),
			pool:      pool,
		}
	default:
		client, err := restrepo.NewClient(restrepo.Config{
			URL:        cfg.Supabase.URL,
			ServiceKey: cfg.Supabase.ServiceRoleKey,
			Timeout:    cfg.Supabase.Timeout,
		})
		if err != nil {
			log.Warn("supabase init failed, continuing in degraded mode", zap.Error(err))
			return datastore{}
		}
		return datastore{
			catalog:   restrepo.NewSeriesRepo(client),
			purchases: restrepo.NewPurchaseRepo(client),
		}
	}
}

func (a *App) Run() error {
	a.logger.Info("api server started",
		zap.String("addr", a.cfg.HTTP.Addr),
		zap.String("datastore", a.cfg.Datastore.Driver),
	)
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
