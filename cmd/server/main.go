package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/portfolio-backend/internal/config"
	"github.com/iliyamo/portfolio-backend/internal/database"
	"github.com/iliyamo/portfolio-backend/internal/handler"
	"github.com/iliyamo/portfolio-backend/internal/logger"
	"github.com/iliyamo/portfolio-backend/internal/middleware"
	"github.com/iliyamo/portfolio-backend/internal/queue"
	"github.com/iliyamo/portfolio-backend/internal/repository"
	"github.com/iliyamo/portfolio-backend/internal/router"
	"github.com/iliyamo/portfolio-backend/internal/service"
	"github.com/iliyamo/portfolio-backend/internal/utils"
	"github.com/iliyamo/portfolio-backend/internal/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	client, err := database.Open(cfg.MongoURI)
	if err != nil {
		logger.Log.WithError(err).Fatal("database")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)

	idxCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureIndexes(idxCtx, db); err != nil {
		cancel()
		logger.Log.WithError(err).Fatal("indexes")
	}
	cancel()

	tokens, err := utils.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("token service")
	}
	media, err := service.NewCloudinaryUploader(cfg.Cloudinary)
	if err != nil {
		logger.Log.WithError(err).Fatal("media")
	}
	mailer := service.NewSMTPMailer(cfg.SMTP)

	// Redis is optional: without it rate limiting is off and the response
	// cache lives in process.
	rdb := config.NewRedisClient(cfg.Redis)
	var store middleware.CacheStore
	if rdb != nil {
		defer rdb.Close()
		store = middleware.NewRedisStore(rdb)
	} else {
		logger.Log.Warn("redis unreachable; rate limiting disabled, using in-process cache")
		store = middleware.NewMemoryStore(cfg.Cache.TTL)
	}
	cache := middleware.NewResponseCache(cfg.Cache, store)

	// The broker is optional too; /send still stores messages without it.
	var events handler.ContactPublisher
	if pub, err := queue.NewPublisher(cfg.RabbitURL, cfg.ContactQueue); err != nil {
		logger.Log.WithError(err).Warn("rabbitmq unavailable; contact notifications disabled")
	} else {
		defer pub.Close()
		events = pub
	}

	users := repository.NewUserRepo(db)
	auth := service.NewAuthService(users, tokens, mailer, cfg.BcryptCost, cfg.ResetTokenTTL, cfg.FrontendURL)
	uploads := handler.Uploads{Store: media, MaxBytes: cfg.MaxUploadBytes}
	cookie := handler.SessionCookie{Name: cfg.SessionCookie, Secure: cfg.IsProd()}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.Use(middleware.RequestID(), middleware.AccessLog(), middleware.CORS(cfg.CORSOrigins))

	router.RegisterRoutes(e, router.Handlers{
		Auth:     handler.NewAuthHandler(auth, uploads, cookie),
		Profile:  handler.NewProfileHandler(users, auth, uploads),
		Messages: handler.NewMessageHandler(repository.NewMessageRepo(db), events),
		Projects: handler.NewProjectHandler(repository.NewProjectRepo(db), uploads, cache),
		Skills:   handler.NewSkillHandler(repository.NewSkillRepo(db), uploads),
		Apps:     handler.NewSoftwareApplicationHandler(repository.NewSoftwareApplicationRepo(db), uploads),
		TimeLine: handler.NewTimeLineHandler(repository.NewTimeLineRepo(db)),
		Health:   handler.Health(database.Pinger{Client: client}),
	}, router.Middlewares{
		Session:   middleware.Session(cfg.SessionCookie, tokens, users),
		RateLimit: middleware.RateLimit(cfg.RateLimit, rdb),
		Cache:     cache.Middleware(),
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Log.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := e.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("shutdown")
	}
}
