package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"adjectivemagic/internal/adjective"
	"adjectivemagic/internal/http/handlers"
	httpapi "adjectivemagic/internal/http/httpapi"
	"adjectivemagic/internal/infra"
	"adjectivemagic/internal/infra/geoip"
	"adjectivemagic/internal/middleware"
	"adjectivemagic/internal/preview"
	"adjectivemagic/internal/providers/genai"
	"adjectivemagic/internal/session"
	"adjectivemagic/internal/storage"
	"adjectivemagic/internal/web"
)

func main() {
	// .env and .env.local are optional
	infra.LoadDotEnv()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	blobs, err := storage.NewBlobStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload directory")
	}
	defer func() {
		if err := blobs.RemoveAll(); err != nil {
			logger.Warn().Err(err).Msg("failed to remove upload directory")
		}
	}()

	client, err := genai.NewClient(ctx, genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
		Logger:  infra.Component(logger, "genai"),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gemini client")
	}

	picker, err := adjective.NewPicker(adjective.Vocabulary)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build adjective picker")
	}

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	previews := preview.NewRegistry()
	store := session.NewStore(session.Deps{
		Generator: client,
		Picker:    picker,
		Previews:  previews,
		Blobs:     blobs,
		Logger:    infra.Component(logger, "session"),
	}, cfg.SessionIdleTTL)
	defer store.Close()
	go store.Run(ctx, sweepInterval(cfg.SessionIdleTTL))

	pages, err := web.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse templates")
	}

	app := &handlers.App{
		Sessions:       store,
		Uploads:        blobs,
		Previews:       previews,
		Pages:          pages,
		Logger:         infra.Component(logger, "http"),
		MaxUploadBytes: cfg.MaxUploadBytes,
		Model:          client.Model(),
	}
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  middleware.CountryLookup(resolver.Lookup()),
	})

	server := infra.NewHTTPServer(cfg, router)
	server.RegisterOnShutdown(store.Close)

	go func() {
		logger.Info().
			Str("model", client.Model()).
			Str("uploads", blobs.BasePath()).
			Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Int("sessions", store.Len()).Msg("server stopped")
}

// sweepInterval checks for idle sessions a few times per TTL.
func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}
