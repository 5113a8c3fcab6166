package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"pickup/internal/app"
	"pickup/internal/broadcast"
	"pickup/internal/config"
	"pickup/internal/handler"
	"pickup/internal/identity"
	redisx "pickup/internal/redis"
	"pickup/internal/repository/postgres"
	"pickup/internal/service"
)

func main() {
	cfg := config.Load()

	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			log.Printf("new relic init failed, continuing without: %v", err)
			nrApp = nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	profileRepo := postgres.NewProfileRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	adminLogRepo := postgres.NewAdminLogRepository(db)
	txStarter := postgres.NewTxStarter(db)

	views := redisx.NewViewCache(redisClient)
	locks := redisx.NewTripLockStore(redisClient)

	hub := broadcast.NewHub()
	var publisher *broadcast.EventPublisher
	if cfg.Kafka.Enabled {
		publisher = broadcast.NewEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
	}
	events := broadcast.NewBroadcaster(hub, publisher)

	var directory identity.Directory
	if cfg.Identity.BaseURL != "" {
		directory = identity.NewHTTPDirectory(cfg.Identity.BaseURL)
	}

	resolver := service.NewProfileResolver(profileRepo)
	expiry := service.NewExpiry(requestRepo, tripRepo, invitationRepo)

	profileSvc := service.NewProfileService(resolver, profileRepo, documentRepo)
	requestSvc := service.NewRequestService(resolver, requestRepo, invitationRepo, participantRepo, txStarter, expiry, views, events)
	tripSvc := service.NewTripService(resolver, tripRepo, requestRepo, invitationRepo, participantRepo, txStarter, expiry, views, events)
	invitationSvc := service.NewInvitationService(resolver, profileRepo, invitationRepo, tripRepo, requestRepo, participantRepo, txStarter, locks, expiry, directory, views, events)
	reviewSvc := service.NewReviewService(resolver, reviewRepo, tripRepo, participantRepo)
	reportSvc := service.NewReportService(resolver, requestRepo, tripRepo)
	adminSvc := service.NewAdminService(resolver, profileRepo, requestRepo, tripRepo, documentRepo, adminLogRepo, events)

	sweeper := service.NewSweeper(expiry, requestRepo, tripRepo, invitationRepo, cfg.Sweep.Interval)
	go sweeper.Run(ctx)

	router := app.NewRouter(cfg, nrApp, redisClient, app.Handlers{
		Profiles:    handler.NewProfileHandler(profileSvc),
		Requests:    handler.NewRequestHandler(requestSvc),
		Trips:       handler.NewTripHandler(tripSvc),
		Invitations: handler.NewInvitationHandler(invitationSvc),
		Reviews:     handler.NewReviewHandler(reviewSvc),
		Reports:     handler.NewReportHandler(reportSvc),
		Admin:       handler.NewAdminHandler(adminSvc),
		WS:          handler.NewWSHandler(resolver, hub),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
