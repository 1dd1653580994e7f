package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/muhammadolammi/resumematch/internal/config"
	"github.com/muhammadolammi/resumematch/internal/database"
	"github.com/muhammadolammi/resumematch/internal/extractor"
	"github.com/muhammadolammi/resumematch/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log := logger.WithField("service", "resumematch-worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		log.Fatalf("error opening db: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("error connecting to db: %v", err)
	}

	r2, err := storage.NewR2(ctx, cfg.R2)
	if err != nil {
		log.Fatalf("error creating r2 client: %v", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("error connecting to RabbitMQ: %v", err)
	}
	defer conn.Close()
	if err := declareUpdatesExchange(conn, cfg.Worker.UpdatesExchange); err != nil {
		log.Fatalf("error declaring exchange %s: %v", cfg.Worker.UpdatesExchange, err)
	}

	workerConfig := WorkerConfig{
		DB:               database.New(db),
		Storage:          r2,
		Updates:          &amqpPublisher{conn: conn, exchange: cfg.Worker.UpdatesExchange},
		Extractor:        extractor.New(),
		Log:              log,
		RabbitMQURL:      cfg.RabbitMQURL,
		SessionsQueue:    cfg.Worker.SessionsQueue,
		DownloadAttempts: cfg.Worker.DownloadAttempts,
		SaveAttempts:     cfg.Worker.SaveAttempts,
		RetryBackoff:     500 * time.Millisecond,
	}

	log.Infof("starting %d consumer workers", cfg.Worker.Count)
	workerConfig.StartConsumerWorkerPool(ctx, cfg.Worker.Count)
	log.Info("all workers stopped")
}
