package main

import (
	"log"

	"github.com/hibiken/asynq"

	"contribution-service/internal/config"
	"contribution-service/internal/consumers"
	"contribution-service/internal/services"
	"contribution-service/internal/worker"
)

func main() {
	config.InitConfig()
	cfg := config.AppConfig

	// SMS gateway client used for queued receipt delivery
	notifier := services.NewSMSNotifier(cfg.SMSBaseURL, cfg.SMSAPIKey, cfg.SMSSender)

	// Processor
	processor := consumers.NewReceiptProcessor(notifier)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisURL}

	log.Println("Starting Asynq Worker...")
	worker.StartWorker(redisOpt, processor)
}
