package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	attendancerepo "gymgate/backend/internal/attendance/repository"
	branchrepo "gymgate/backend/internal/branch/repository"
	checkinservice "gymgate/backend/internal/checkin/service"
	"gymgate/backend/internal/config"
	"gymgate/backend/internal/db"
	ledgerrepo "gymgate/backend/internal/ledger/repository"
	personrepo "gymgate/backend/internal/person/repository"
	qrtokenservice "gymgate/backend/internal/qrtoken/service"
	"gymgate/backend/internal/server"
	"gymgate/backend/internal/telemetry"
	"gymgate/backend/internal/telemetry/otel"
	"gymgate/backend/internal/telemetry/producer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer sqlDB.Close()
	store := db.NewStore(sqlDB)

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "gymgate-server", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer redisClient.Close()
	}

	branches := branchrepo.NewPostgresRepository(sqlDB)
	persons := personrepo.NewCachedRepository(personrepo.NewPostgresRepository(sqlDB), redisClient, cfg.CacheTTL())
	ledger := ledgerrepo.NewPostgresRepository(sqlDB)
	attendance := attendancerepo.NewPostgresRepository(sqlDB)

	metricsEmitter, err := otel.NewMetricsEmitter(providers.MeterProvider)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	kafkaProducer := producer.NewKafkaProducer(cfg.TelemetryKafkaBrokersList(), cfg.TelemetryKafkaTopic)
	emitter := telemetry.NewFanout(
		otel.NewEventEmitter(providers.LoggerProvider),
		metricsEmitter,
		kafkaProducer,
	)

	checkin := checkinservice.NewService(branches, persons, ledger, attendance, store, emitter)
	issuer := qrtokenservice.NewService(persons, cfg.TokenTTL())

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: server.NewRouter(cfg, server.Deps{
			Checkin:      checkin,
			Issuer:       issuer,
			HealthPinger: sqlDB,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Let in-flight async emits drain before tearing the pipeline down.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Printf("kafka close: %v", err)
		}
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
