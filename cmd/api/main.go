package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medcita/clinic-api/internal/config"
	"github.com/medcita/clinic-api/internal/handler"
	appointmentHandler "github.com/medcita/clinic-api/internal/handler/appointment"
	authHandler "github.com/medcita/clinic-api/internal/handler/auth"
	encounterHandler "github.com/medcita/clinic-api/internal/handler/encounter"
	"github.com/medcita/clinic-api/internal/middleware"
	"github.com/medcita/clinic-api/internal/repository/postgres"
	"github.com/medcita/clinic-api/internal/router"
	appointmentService "github.com/medcita/clinic-api/internal/service/appointment"
	authService "github.com/medcita/clinic-api/internal/service/auth"
	encounterService "github.com/medcita/clinic-api/internal/service/encounter"
	"github.com/medcita/clinic-api/pkg/auth"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	encounterRepo := postgres.NewEncounterRepository(db)

	// Token service per configured auth mode
	var tokens auth.TokenService
	if cfg.Auth.Mode == "jwt" {
		tokens = auth.NewJWTService(cfg.Auth.Secret, time.Duration(cfg.Auth.ExpiryHours)*time.Hour)
	} else {
		tokens = auth.NewStaticTokenService()
	}

	// Services
	authSvc := authService.NewService(userRepo, tokens)
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo)
	encounterSvc := encounterService.NewService(encounterRepo, appointmentRepo, userRepo)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	h := handler.NewHandler(db)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		encounterHandler.NewHandler(encounterSvc),
		h,
		router.Config{
			RateLimit:  100,
			RateBurst:  200,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
