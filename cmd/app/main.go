package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/kafka/statusstream"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/statusrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustOpenDatabase(configs)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
	})

	var producer *statusstream.Producer
	if configs.KafkaHost != "" {
		var err error
		producer, err = statusstream.NewProducer([]string{configs.KafkaHost}, configs.KafkaStatusTopic)
		if err != nil {
			log.Fatalf("Failed to create status stream producer: %v", err)
		}
		defer producer.Close()
	}

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, producer, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file found, relying on environment variables")
	}

	return cmd.Config{
		HTTPPort:           envOrDefault("HTTP_PORT", "8080"),
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             os.Getenv("DB_PORT"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBSslMode:          envOrDefault("DB_SSLMODE", "disable"),
		RedisAddr:          envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		KafkaHost:          os.Getenv("KAFKA_HOST"),
		KafkaStatusTopic:   envOrDefault("KAFKA_STATUS_TOPIC", "order.status"),
		OSRMBaseURL:        envOrDefault("OSRM_BASE_URL", "https://router.project-osrm.org"),
		SingleVendorBudget: envDuration("SINGLE_VENDOR_BUDGET"),
		MultiVendorBudget:  envDuration("MULTI_VENDOR_BUDGET"),
		AgentPoolSize:      envInt("AGENT_POOL_SIZE"),
	}
}

func envOrDefault(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envDuration parses an optional duration variable ("5m", "90s").
// Returns zero when unset, which defers to the simulation defaults.
func envDuration(key string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Invalid duration in %s: %v", key, err)
	}
	return parsed
}

// envInt parses an optional integer variable. Returns zero when unset.
func envInt(key string) int {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Invalid integer in %s: %v", key, err)
	}
	return parsed
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.SubOrderDTO{},
		&statusrepo.StatusEventDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	app.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
