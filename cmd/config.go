package cmd

import "time"

// Config carries everything the composition root needs to assemble the
// application. Values come from the environment; see cmd/app/main.go.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string

	KafkaHost        string
	KafkaStatusTopic string

	OSRMBaseURL string

	// Simulation tuning. Zero values fall back to the simulation defaults.
	SingleVendorBudget time.Duration
	MultiVendorBudget  time.Duration
	AgentPoolSize      int
}
