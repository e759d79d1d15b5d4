package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/email"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
)

func main() {
	cfgPath, err := config.ConfigPath()
	if err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	workerLog, closer, err := logger.Open(cfg.Log.Dir, "worker", cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, workerLog)
	defer consumer.Close()

	sender := email.NewSender(workerLog)

	workerLog.LogKafka("subscribe", cfg.Kafka.NotificationsTopic, "group "+cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, sender.Send); err != nil {
		workerLog.Error("WORKER", "consumer stopped: "+err.Error())
		return
	}
	workerLog.Info("WORKER", "shut down")
}
