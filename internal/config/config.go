// Package config loads the worker configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the worker needs to start.
type Config struct {
	DBURL       string
	RabbitMQURL string
	R2          R2Config
	Worker      WorkerConfig
	LogLevel    logrus.Level
}

// R2Config describes the Cloudflare R2 bucket holding uploaded resumes.
type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the account endpoint, e.g. for a local S3 server.
	Endpoint string
}

// WorkerConfig tunes the consumer pool.
type WorkerConfig struct {
	Count            int
	SessionsQueue    string
	UpdatesExchange  string
	DownloadAttempts int
	SaveAttempts     int
}

// Load reads an optional .env file and then the environment. It fails with
// a single error naming every missing required variable.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var missing []string
	required := func(keys ...string) string {
		for _, key := range keys {
			if v := os.Getenv(key); v != "" {
				return v
			}
		}
		missing = append(missing, keys[0])
		return ""
	}

	cfg := &Config{
		DBURL:       required("DB_URL"),
		RabbitMQURL: required("RABBITMQ_URL"),
		R2: R2Config{
			// R2_ACCCOUNT_ID is the misspelt name older deployments use.
			AccountID: required("R2_ACCOUNT_ID", "R2_ACCCOUNT_ID"),
			Bucket:    required("R2_BUCKET"),
			AccessKey: required("R2_ACCESS_KEY"),
			SecretKey: required("R2_SECRET_KEY"),
			Endpoint:  GetStringEnv("R2_ENDPOINT", ""),
		},
		Worker: WorkerConfig{
			Count:            GetIntEnv("WORKER_COUNT", 3),
			SessionsQueue:    GetStringEnv("SESSIONS_QUEUE", "sessions"),
			UpdatesExchange:  GetStringEnv("UPDATES_EXCHANGE", "session_updates"),
			DownloadAttempts: GetIntEnv("DOWNLOAD_ATTEMPTS", 3),
			SaveAttempts:     GetIntEnv("SAVE_ATTEMPTS", 3),
		},
		LogLevel: GetLevelEnv("LOG_LEVEL", logrus.InfoLevel),
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if cfg.Worker.Count < 1 {
		return nil, fmt.Errorf("WORKER_COUNT must be at least 1, got %d", cfg.Worker.Count)
	}
	if cfg.Worker.DownloadAttempts < 1 {
		cfg.Worker.DownloadAttempts = 1
	}
	if cfg.Worker.SaveAttempts < 1 {
		cfg.Worker.SaveAttempts = 1
	}
	return cfg, nil
}

// R2Endpoint returns the S3 endpoint for the bucket's account.
func (c R2Config) R2Endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetLevelEnv(key string, defaultValue logrus.Level) logrus.Level {
	if value := os.Getenv(key); value != "" {
		if level, err := logrus.ParseLevel(value); err == nil {
			return level
		}
	}
	return defaultValue
}
