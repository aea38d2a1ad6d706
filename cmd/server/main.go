package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/kovazenko1977/sanatory/internal/app"
	"github.com/kovazenko1977/sanatory/internal/config"
	"github.com/kovazenko1977/sanatory/internal/handler"
	"github.com/kovazenko1977/sanatory/internal/logger"
	"github.com/kovazenko1977/sanatory/internal/service"
)

func main() {
	log := logger.New()

	if err := run(log); err != nil {
		log.Error("Application error", logger.Error(err))
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	envPath := getEnvOrDefault("ENV_PATH", ".env")
	cfg, err := config.LoadWithFile(envPath)
	if err != nil {
		log.Error("Failed to load configuration", logger.Error(err), logger.F("path", envPath))
		return err
	}

	var featureCfg *service.FeatureConfig
	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		featureCfg, err = service.LoadFeatureConfig(configPath)
		if err != nil {
			log.Error("Failed to load feature config", logger.Error(err), logger.F("path", configPath))
			return err
		}
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg, featureCfg, log)
	if err != nil {
		log.Error("Failed to initialize application", logger.Error(err))
		return err
	}

	// Seed the settings document on first start.
	if _, err := application.Settings.Get(); err != nil {
		log.Error("Failed to initialize settings", logger.Error(err))
		return err
	}

	api := handler.NewAPIHandler(application, log)
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Server listening", logger.F("addr", cfg.ListenAddr), logger.F("data", cfg.DataPath))
	return srv.ListenAndServe()
}

// getEnvOrDefault returns the environment value or a fallback.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
