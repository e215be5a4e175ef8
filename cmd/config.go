package cmd

import "time"

type Config struct {
	HTTPPort string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBDriver   string

	KafkaHost             string
	KafkaOrderEventsTopic string

	RedisAddr       string
	WebhookDedupTTL time.Duration

	CarrierBaseURL string
	CarrierToken   string
	CarrierShopID  string
	CarrierName    string

	CarrierSyncSchedule  string
	CarrierSyncBatchSize int
	AutoCompleteSchedule string
	AutoCompleteAfter    time.Duration
}
