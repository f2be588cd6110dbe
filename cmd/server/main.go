package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-service/config"
	"inventory-service/internal/api"
	"inventory-service/internal/broker"
	"inventory-service/internal/insight"
	"inventory-service/internal/notify"
	"inventory-service/internal/redisclient"
	"inventory-service/internal/sheet"
	"inventory-service/internal/state"
	"inventory-service/internal/store"
	"inventory-service/internal/util"
	"inventory-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting inventory service")

	tp, err := util.InitTracer("inventory-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	var snapshotStore state.Store
	switch cfg.Store.Backend {
	case "postgres":
		pg, err := store.NewStore(cfg.Store.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pg.Close()
		snapshotStore = pg
		log.Println("Postgres snapshot store connected")
	default:
		rc, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rc.Close()
		snapshotStore = rc
		log.Println("Redis snapshot store connected")
	}

	parser := sheet.NewParser(sheet.Options{
		DecimalComma:        cfg.Sheet.DecimalComma,
		DefaultReorderLevel: cfg.Sheet.DefaultReorderLevel,
	}, logger)
	bridge := sheet.NewBridge(logger)
	notifier := notify.NewNotifier(cfg.Slack.WebhookURL)
	insights := insight.NewClient(cfg.Insight.APIKey, cfg.Insight.Model)

	deps := state.Deps{
		Store:     snapshotStore,
		Fetcher:   parser,
		Pusher:    bridge,
		Notifier:  notifier,
		SheetURL:  cfg.Sheet.URL,
		BridgeURL: cfg.Sheet.BridgeURL,
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var alertWorker *worker.AlertWorker
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicStock)
		defer producer.Close()
		deps.Publisher = broker.NewEventPublisher(producer)
		log.Println("Kafka producer initialized")

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicStock, cfg.Kafka.ConsumerGroup)
		alertWorker = worker.NewAlertWorker(consumer, notifier)
		go func() {
			if err := alertWorker.Start(workerCtx); err != nil {
				log.Printf("Alert worker error: %v", err)
			}
		}()
	}

	container := state.NewContainer(deps)
	if err := container.Bootstrap(context.Background()); err != nil {
		log.Fatalf("Failed to bootstrap state: %v", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(container, insights)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	if alertWorker != nil {
		alertWorker.Stop()
	}

	log.Println("Server exited")
}
