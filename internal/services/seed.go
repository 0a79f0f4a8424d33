package waste

import (
	"context"
	"fmt"

	db "github.com/Anit-Biswas/Waste-management-website/internal/db"
	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	"go.uber.org/zap"
)

// Демо-данные для первого запуска
func baseline(key string) any {
	switch key {
	case model.KeyUsers:
		return []model.User{
			{ID: 1, Name: "User", Email: "user@.com", Role: model.RoleUser, Pass: "1234", Rewards: 40},
			{ID: 2, Name: "Admin", Email: "admin@.com", Role: model.RoleAdmin, Pass: "admin123", Rewards: 0},
		}
	case model.KeyFacilities:
		return []model.Facility{
			{Name: "Ward 12 MRF", Type: "MRF", Distance: "1.2 km"},
			{Name: "Community Compost Center", Type: "Compost", Distance: "2.0 km"},
			{Name: "E-waste Drop Point", Type: "E-waste", Distance: "3.4 km"},
		}
	case model.KeyTraining:
		return []model.TrainingModule{
			{ID: 1, Title: "Household Segregation Basics", Mins: 15},
			{ID: 2, Title: "Composting at Home", Mins: 12},
			{ID: 3, Title: "Plastic Reduction & Reuse", Mins: 10},
		}
	}
	return []struct{}{}
}

// Seed заполняет отсутствующие коллекции. Существующие данные не трогает.
func Seed(ctx context.Context, store *db.Store, logger *zap.Logger) (written []string, err error) {
	for _, key := range model.Collections {
		if store.Exists(ctx, key) {
			continue
		}
		err = store.Write(ctx, key, baseline(key))
		if err != nil {
			return written, fmt.Errorf("seed %s: %w", key, err)
		}
		written = append(written, key)
	}
	if len(written) > 0 {
		logger.Info("seed",
			zap.Strings("collections", written),
		)
	}
	return written, nil
}
