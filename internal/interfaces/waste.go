package waste

import (
	"context"

	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
)

//go:generate mockgen -destination=./../db/mock_waste_test.go -package=waste . KeyValue,CacheStorage
//go:generate mockgen -destination=./../services/mock_waste_test.go -package=waste . EventPublisher

// Хранилище строк по ключу: одна запись на коллекцию
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
}

type CacheStorage interface {
	GetCollection(ctx context.Context, key string) (value string, err error)
	SetCollection(ctx context.Context, key string, value string) error
	InvalidateCollection(ctx context.Context, key string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
}
