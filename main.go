package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/flexprint/mail-relay/config"
	_ "github.com/flexprint/mail-relay/docs"
	"github.com/flexprint/mail-relay/handlers"
	"github.com/flexprint/mail-relay/logger"
	"github.com/flexprint/mail-relay/mailer"
	"github.com/flexprint/mail-relay/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title           FlexPrint Mail Relay API
// @version         1.0
// @description     Relays website contact and booking form submissions to email.
// @BasePath        /
func main() {
	// Local development convenience; the deployed environment supplies
	// real variables.
	_ = godotenv.Load()

	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	mailService := mailer.NewService(&cfg.Email)
	relayHandler := handlers.NewRelayHandler(mailService)
	healthHandler := handlers.NewHealthHandler(cfg.Server.Version, &cfg.Email)

	r := router.SetupRouter(router.Dependencies{
		Config:        cfg,
		RelayHandler:  relayHandler,
		HealthHandler: healthHandler,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infow("Starting mail relay server",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
