package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/hairfit-server/internal/config"
	"github.com/iliyamo/hairfit-server/internal/handler"
	"github.com/iliyamo/hairfit-server/internal/imagegen"
	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/middleware"
	"github.com/iliyamo/hairfit-server/internal/queue"
	"github.com/iliyamo/hairfit-server/internal/router"
	"github.com/iliyamo/hairfit-server/internal/service"
	"github.com/iliyamo/hairfit-server/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hairfit:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info(ctx, "store ready", "backend", cfg.Store)

	tokens, err := service.NewTokenIssuer(cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, st.users, st.tokens, st.tx)
	if err != nil {
		return err
	}
	google := service.NewGoogleVerifier(cfg.GoogleClientID, cfg.GoogleUserInfoURL)
	auth := service.NewAuthService(st.users, st.salons, st.tx, tokens, google, cfg.BcryptCost, logger)
	scope := service.NewSalonResolver(st.salons)

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = queue.NewPublisher(cfg.RabbitMQURL, logger)
		consumer := &queue.Consumer{URL: cfg.RabbitMQURL, LogDir: cfg.EventLogDir, Logger: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error(ctx, "synthesis consumer stopped", "error", err)
			}
		}()
	}
	members := service.NewMemberService(st.members, st.tx)
	history := service.NewHistoryService(st.histories, st.members, st.tx, events, logger)

	catalog := service.NewStyleCatalog(cfg.StylesDir)
	if err := catalog.Load(); err != nil {
		return fmt.Errorf("load style catalog: %w", err)
	}

	uploads, err := openUploads(ctx, cfg)
	if err != nil {
		return err
	}

	var gen imagegen.Generator = imagegen.Unconfigured{}
	if cfg.GeminiAPIKey != "" {
		g, err := imagegen.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		gen = g
	} else {
		logger.Warn(ctx, "GEMINI_API_KEY not set; /synthesize will fail")
	}
	synthesis := service.NewSynthesisService(catalog, gen, cfg.SynthesisTimeout)

	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		return err
	}
	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		return err
	}
	rateCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		return err
	}
	rdb, err := config.NewRedisClient(ctx, redisCfg)
	if err != nil {
		logger.Warn(ctx, "redis unavailable; rate limits and cache disabled", "error", err)
	} else {
		defer rdb.Close()
	}
	styleCache := middleware.NewResponseCache(cacheCfg, "styles", rdb, logger)

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.BodyLimit("25M"))

	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(auth, logger),
		Members:   handler.NewMemberHandler(members, scope, logger),
		History:   handler.NewHistoryHandler(history, scope, logger),
		Styles:    handler.NewStyleHandler(catalog, styleCache, logger),
		Files:     handler.NewFileHandler(uploads, catalog, logger),
		Synthesis: handler.NewSynthesisHandler(synthesis, logger),
	}, router.Deps{
		Identity:   auth,
		RateLimit:  rateCfg,
		Redis:      rdb,
		StyleCache: styleCache,
		Logger:     logger,
	})

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openUploads(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.Uploads.Backend == "s3" {
		return storage.NewS3(ctx, storage.S3Options{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	}
	return storage.NewLocal(cfg.Uploads.Dir)
}
