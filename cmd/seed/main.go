// Job - начальное заполнение хранилища демо-данными
// Пишутся только отсутствующие коллекции, существующие данные не меняются
package main

import (
	"context"

	"github.com/Anit-Biswas/Waste-management-website/internal/config"
	db "github.com/Anit-Biswas/Waste-management-website/internal/db"
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

	// database
	ctx := context.Background()
	kv, cleanup, err := db.Open(ctx, cfg, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	written, err := services.Seed(ctx, db.NewStore(kv, logger), logger)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	logger.Info("Job seed is finished", zap.Int("collections", len(written)))
}
