// Job - аудит событий
// Опрос Kafka -> проверка и журналирование уведомлений и обращений
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Anit-Biswas/Waste-management-website/internal/config"
	kafka "github.com/Anit-Biswas/Waste-management-website/internal/external/kafka"
	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	services "github.com/Anit-Biswas/Waste-management-website/internal/services"
	"go.uber.org/zap"
)

func main() {
	// log
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// config
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if cfg.Kafka == nil {
		panic("env WASTE_KAFKA_URL is not set")
	}

	// kafka
	reader := kafka.NewReader(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer reader.CloseReader()

	auditor := services.NewAuditor(logger)

	// start
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consume(ctx, reader, auditor.Audit, cfg.EventsCount, logger); err != nil {
		logger.Error("events reader stopped", zap.Error(err))
	}
}

type eventReader interface {
	GetNewMessage(ctx context.Context) (model.Event, error)
}

// consume читает события до отмены ctx или первой ошибки чтения
func consume(ctx context.Context, reader eventReader, audit func(context.Context, model.Event) error, workers int, logger *zap.Logger) error {
	if workers < 1 {
		workers = 1
	}
	wg := &sync.WaitGroup{}
	defer wg.Wait()
	semaphore := make(chan struct{}, workers)

	for {
		event, err := reader.GetNewMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		semaphore <- struct{}{}
		wg.Add(1)
		go func(event model.Event) {
			defer wg.Done()
			defer func() { <-semaphore }()
			err := audit(ctx, event)
			if err != nil {
				logger.Error(err.Error())
			}
		}(event)
	}
}
