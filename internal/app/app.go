package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/etaskify/server/internal/adapter/outbound/authsvc"
	"github.com/etaskify/server/internal/adapter/outbound/notifysvc"
	"github.com/etaskify/server/internal/adapter/outbound/postgres"
	"github.com/etaskify/server/internal/domain/membership"
	"github.com/etaskify/server/internal/infra/events"
	"github.com/etaskify/server/internal/model"
	"github.com/etaskify/server/internal/module/organization"
	"github.com/etaskify/server/internal/notify"
	"github.com/etaskify/server/internal/shared/cache"
	"github.com/etaskify/server/internal/shared/config"
	"github.com/etaskify/server/internal/shared/database"
	"github.com/etaskify/server/internal/shared/logger"
	"github.com/etaskify/server/internal/utils/metrics"
	"github.com/etaskify/server/internal/utils/middleware"
)

// App holds the wired application: database, collaborator clients, the
// event bus and the HTTP router.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	redis  redis.UniversalClient
	bus    *events.Bus
	router *gin.Engine
}

// New wires the application from configuration.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Organization{},
		&model.Membership{},
		&model.Invite{},
		&model.JoinRequest{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	m := metrics.New("etaskify")

	authClient := authsvc.NewClient(authsvc.Config{
		BaseURL:  cfg.Collaborators.AuthURL,
		Timeout:  cfg.Collaborators.Timeout,
		CacheTTL: cfg.Collaborators.CacheTTL,
	}, redisClient, m, log)

	notifyClient := notifysvc.NewClient(notifysvc.Config{
		BaseURL: cfg.Collaborators.NotifyURL,
		Timeout: cfg.Collaborators.Timeout,
	}, log)

	bus := events.NewBus(log, cfg.Events.QueueSize)
	bus.Register(notify.NewDispatcher(notifyClient, authClient, m, &notify.Config{
		Timeout: cfg.Collaborators.Timeout,
	}, log))
	bus.Register(newMetricsHandler(m))
	bus.Start()

	domain := membership.NewDomain(
		postgres.NewOrganizationAdapter(db),
		postgres.NewMembershipAdapter(db),
		postgres.NewInviteAdapter(db),
		postgres.NewJoinRequestAdapter(db),
		authClient,
		postgres.NewTransactionAdapter(db),
		bus,
		&membership.Config{CollaboratorTimeout: cfg.Collaborators.Timeout},
		log,
	)

	app := &App{
		cfg:    cfg,
		logger: log,
		db:     db,
		redis:  redisClient,
		bus:    bus,
	}
	app.router = app.buildRouter(domain, authClient, m)

	return app, nil
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Stop drains the event bus and releases connections.
func (a *App) Stop() {
	a.bus.Stop()

	if a.redis != nil {
		if err := cache.Close(a.redis); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}

	_ = a.logger.Sync()
}

func (a *App) buildRouter(domain *membership.Domain, authClient *authsvc.Client, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logging(a.logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics(m))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(authClient))
	organization.NewHandler(domain).RegisterRoutes(api)

	return router
}

// newMetricsHandler counts membership events by outcome.
func newMetricsHandler(m *metrics.Metrics) events.Handler {
	return events.NewHandlerFunc([]string{
		membership.EventTypeInviteCreated,
		membership.EventTypeInviteAccepted,
		membership.EventTypeInviteRejected,
		membership.EventTypeJoinRequestCreated,
		membership.EventTypeJoinRequestApproved,
		membership.EventTypeJoinRequestRejected,
	}, func(event events.Event) error {
		switch event.EventType() {
		case membership.EventTypeInviteCreated:
			m.RecordInvite("created")
		case membership.EventTypeInviteAccepted:
			m.RecordInvite("accepted")
		case membership.EventTypeInviteRejected:
			m.RecordInvite("rejected")
		case membership.EventTypeJoinRequestCreated:
			m.RecordJoinRequest("created")
		case membership.EventTypeJoinRequestApproved:
			m.RecordJoinRequest("approved")
		case membership.EventTypeJoinRequestRejected:
			m.RecordJoinRequest("rejected")
		}
		return nil
	})
}
