// Package app builds the Fiber application: middleware chain, database and
// Redis connections, and every route group.
package app

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"voltmarket-backend/internal/auth"
	"voltmarket-backend/internal/blog"
	"voltmarket-backend/internal/checkout"
	"voltmarket-backend/internal/config"
	"voltmarket-backend/internal/database"
	"voltmarket-backend/internal/drafts"
	"voltmarket-backend/internal/health"
	"voltmarket-backend/internal/listingevents"
	"voltmarket-backend/internal/listings"
	"voltmarket-backend/internal/messages"
	"voltmarket-backend/internal/middleware"
	"voltmarket-backend/internal/payments"
	"voltmarket-backend/internal/uploads"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp wires the full application. Returns the app plus the DB and Redis
// handles so callers (main, tests) can ping or seed them.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// The Stripe webhook is registered before the session middleware: Stripe
	// sends no cookies and signature verification needs the raw body.
	stripeWebhook := &payments.WebhookHandler{WebhookSecret: cfg.StripeWebhookSecret}
	app.Post("/api/v1/stripe/webhook", func(c *fiber.Ctx) error {
		return stripeWebhook.HandleWebhook(c)
	})

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &health.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
		FrontendURL:    cfg.FrontendURL,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	bh := blog.NewHandlers()
	app.Get("/api/v1/blog", bh.List)
	app.Get("/api/v1/blog/:slug", bh.Get)

	ds := &drafts.Store{Rdb: rdb}
	dh := &drafts.Handlers{Store: ds}
	dg := app.Group("/api/v1/drafts")
	dg.Get("/:purpose", dh.Get)
	dg.Put("/:purpose", dh.Put)
	dg.Delete("/:purpose", dh.Delete)

	if db != nil {
		stripeWebhook.DB = db

		events := &listingevents.Service{DB: db}
		stripeWebhook.Events = events

		ah := &auth.Handlers{
			Service:    &auth.Service{DB: db},
			UserFinder: &auth.GormUserFinder{DB: db},
			Rdb:        rdb,
			Config:     sessionCfg,
			SyncSecret: cfg.AuthSyncSecret,
		}
		ag := app.Group("/api/v1/auth")
		ag.Post("/sync", ah.Sync)
		ag.Post("/login", ah.Login)
		ag.Get("/me", ah.Me)
		ag.Delete("/logout", ah.Logout)

		ls := &listings.Service{DB: db, Events: events}
		lh := &listings.Handlers{Service: ls}
		lg := app.Group("/api/v1/listings")
		lg.Get("/", lh.Browse)
		lg.Get("/nearby", lh.Nearby)
		lg.Get("/category/:category", lh.CategoryBrowse)
		lg.Get("/:listing_id", lh.GetByID)
		lg.Post("/", middleware.RequireAuth(), lh.CreateListing)
		lg.Post("/mark-sold", middleware.RequireAuth(), lh.MarkSold)
		lg.Put("/price", middleware.RequireAuth(), lh.UpdatePrice)
		lg.Get("/:listing_id/events", middleware.RequireAuth(), lh.ListEvents)

		ms := &messages.Service{DB: db, Rdb: rdb}
		mh := &messages.Handlers{Service: ms}
		mg := app.Group("/api/v1/messages", middleware.RequireAuth())
		mg.Post("/", mh.Send)
		mg.Get("/sent-state", mh.SentState)
		mg.Get("/listing/:listing_id", mh.Conversation)

		ch := &checkout.Handlers{
			Listings:   ls,
			Creator:    &checkout.StripeSessionCreator{SecretKey: cfg.StripeSecretKey},
			SuccessURL: cfg.CheckoutSuccessURL,
			CancelURL:  cfg.CheckoutCancelURL,
		}
		app.Post("/api/v1/checkout/create-session", middleware.RequireAuth(), ch.CreateSession)

		sc := &uploads.HTTPClient{BaseURL: cfg.SupabaseURL, SecretKey: cfg.SupabaseSecretKey}
		upsvc := &uploads.Service{Client: sc, SupabaseURL: cfg.SupabaseURL}
		uph := &uploads.Handlers{Service: upsvc}
		upg := app.Group("/api/v1/uploads", middleware.RequireAuth())
		upg.Post("/listing-image", uph.ListingImage)
		upg.Post("/listing-video", uph.ListingVideo)
	}

	return app, db, rdb, nil
}

// Handler adapts the Fiber app to net/http for serverless deployments.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
