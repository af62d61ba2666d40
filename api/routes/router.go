package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"dhukuti/docs"
	"dhukuti/internal/activity"
	"dhukuti/internal/analytics"
	"dhukuti/internal/auth"
	"dhukuti/internal/contributions"
	"dhukuti/internal/drafts"
	"dhukuti/internal/events"
	"dhukuti/internal/groups"
	"dhukuti/internal/shared/clock"
	"dhukuti/internal/shared/config"
	"dhukuti/internal/shared/database"
	"dhukuti/internal/shared/middleware"
	"dhukuti/internal/tags"
	"dhukuti/internal/tickets"
	"dhukuti/internal/users"
	"dhukuti/internal/wizard"
	"dhukuti/pkg/cache"
	"dhukuti/pkg/logger"
	"dhukuti/pkg/metrics"
	"dhukuti/pkg/ratelimit"
)

// Router builds every service once and mounts their routes.
type Router struct {
	config  *config.Config
	db      *database.DB
	limiter *ratelimit.RateLimiter
	cache   cache.Service
	clock   clock.Clock
	auth    gin.HandlerFunc
	log     *logger.Logger

	// Activity records feed entries; the Kafka consumer writes through it.
	Activity      activity.Service
	Publisher     activity.Publisher
	Contributions contributions.Service
	StockGuard    *tickets.StockGuard

	groups    groups.Service
	analytics analytics.Service
	events    events.Service
	tags      tags.Service
	tickets   tickets.Service
	users     users.Repository
}

// NewRouter wires services. A nil publisher records activities synchronously.
func NewRouter(cfg *config.Config, db *database.DB, limiter *ratelimit.RateLimiter, publisher activity.Publisher) *Router {
	r := &Router{
		config:  cfg,
		db:      db,
		limiter: limiter,
		cache:   cache.NewService(db.Redis),
		clock:   clock.NewSystem(),
		auth:    middleware.JWTAuthWithConfig(cfg),
		log:     logger.GetDefault(),
	}
	pg := db.PostgreSQL

	groupRepo := groups.NewRepository(pg)
	r.Activity = activity.NewService(activity.NewRepository(pg), groupRepo)
	if publisher == nil {
		publisher = activity.NewDirectPublisher(r.Activity)
	}
	r.Publisher = publisher

	r.users = users.NewRepository(pg)
	r.groups = groups.NewService(groupRepo, r.cache, publisher, r.clock)
	r.Contributions = contributions.NewService(contributions.NewRepository(pg), r.groups, publisher, r.clock)
	r.analytics = analytics.NewService(analytics.NewRepository(pg))

	r.tags = tags.NewService(tags.NewRepository(pg), r.cache)
	r.events = events.NewService(events.NewRepository(pg, r.tags), r.tags, r.cache, publisher, r.clock)

	opts := []tickets.ServiceOption{tickets.WithCache(r.cache), tickets.WithPublisher(publisher)}
	if cfg.Tickets.StockGuardEnabled && db.Redis != nil {
		r.StockGuard = tickets.NewStockGuard(db.Redis)
		opts = append(opts, tickets.WithStockGuard(r.StockGuard))
	}
	inventory := tickets.NewInventory(r.clock, tickets.WithSellingFastThreshold(cfg.Tickets.SellingFastThreshold))
	r.tickets = tickets.NewService(tickets.NewRepository(pg), r.events, inventory, opts...)

	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	if !r.config.IsProduction() {
		docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := engine.Group(r.config.GetAPIBasePath())
	{
		authService := auth.NewService(r.users, r.config.JWT, r.clock)
		auth.SetupAuthRoutes(api, auth.NewController(authService), r.auth)
		users.SetupUserRoutes(api, users.NewController(r.users), r.auth)

		groups.SetupGroupRoutes(api, groups.NewController(r.groups), r.auth)
		contributions.SetupContributionRoutes(api, contributions.NewController(r.Contributions), r.auth)
		activity.SetupActivityRoutes(api, activity.NewController(r.Activity), r.auth)
		analytics.SetupAnalyticsRoutes(api, analytics.NewController(r.analytics), r.auth)

		tags.SetupTagRoutes(api, tags.NewController(r.tags), r.auth)
		events.SetupEventRoutes(api, events.NewController(r.events), r.auth)
		tickets.SetupTicketRoutes(api, tickets.NewController(r.tickets), r.auth,
			ratelimit.ForType(r.limiter, ratelimit.RateLimitTypePurchase))

		r.setupWizardRoutes(api)
	}
}

// setupWizardRoutes mounts server-side wizard drafts. Drafts live in Redis only.
func (r *Router) setupWizardRoutes(rg *gin.RouterGroup) {
	if r.db.Redis == nil {
		r.log.Warn("Redis unavailable; wizard draft routes not mounted")
		return
	}

	store := drafts.NewRedisStore(r.db.Redis, r.config.Wizard.DraftTTL)
	limit := ratelimit.ForType(r.limiter, ratelimit.RateLimitTypeWizard)

	drafts.NewHandler(drafts.Config[groups.FormData]{
		Kind:       "groups",
		Definition: groups.Definition(),
		Initial:    groups.NewFormData,
		Submitter:  r.groups.Submitter,
	}, store).Register(rg, r.auth, limit)

	drafts.NewHandler(drafts.Config[events.FormData]{
		Kind:       "events",
		Definition: events.Definition(),
		Initial:    events.NewFormData,
		Submitter:  r.events.Submitter,
		Tags:       func(f *events.FormData) *wizard.Tags { return &f.Tags },
	}, store).Register(rg, r.auth, limit)
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "dhukuti-api",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "dhukuti-api",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "version": r.config.APIVersion})
	})

	engine.GET("/metrics", metrics.Handler())
}
