package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nastrosite/internal/config"
	"github.com/nastrosite/internal/db"
	"github.com/nastrosite/internal/handler"
	"github.com/nastrosite/internal/router"
	"github.com/nastrosite/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	if err := db.EnsureAdmin(cfg.SuperRootEmail, cfg.SuperRootPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure super root admin")
	}

	api := handler.NewAPI(
		db.DB,
		service.NewProjectService(db.DB),
		service.NewAuthService(db.DB, cfg.AdminEmail),
		service.NewContactService(cfg.ContactWebhookURL),
		service.NewStorageService(cfg.UploadDir, cfg.UploadURLPath),
	)

	r := router.SetupRouter(cfg, api)
	log.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to run server")
	}
}
