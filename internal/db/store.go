package waste

import (
	"context"
	"encoding/json"
	"strings"

	interf "github.com/Anit-Biswas/Waste-management-website/internal/interfaces"
	"go.uber.org/zap"
)

// Store - JSON поверх строкового хранилища. Коллекция читается и пишется целиком.
type Store struct {
	kv     interf.KeyValue
	logger *zap.Logger
}

func NewStore(kv interf.KeyValue, logger *zap.Logger) *Store {
	return &Store{kv, logger}
}

// Read возвращает значение по ключу или def, если ключа нет либо данные испорчены
func Read[T any](ctx context.Context, s *Store, key string, def T) T {
	raw, ok := s.raw(ctx, key)
	if !ok {
		return def
	}
	var value T
	err := json.Unmarshal([]byte(raw), &value)
	if err != nil {
		s.logger.Warn("corrupt collection",
			zap.String("key", key),
			zap.Error(err),
		)
		return def
	}
	return value
}

// Write сериализует значение и полностью заменяет содержимое ключа
func (s *Store) Write(ctx context.Context, key string, value any) error {
	j, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, string(j))
}

// Exists - true, если Read не вернет значение по умолчанию
func (s *Store) Exists(ctx context.Context, key string) bool {
	return Read[json.RawMessage](ctx, s, key, nil) != nil
}

// ReadRaw - коллекция как есть, для выдачи наружу
func (s *Store) ReadRaw(ctx context.Context, key string) (json.RawMessage, bool) {
	v := Read[json.RawMessage](ctx, s, key, nil)
	return v, v != nil
}

func (s *Store) raw(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("storage read",
			zap.String("key", key),
			zap.Error(err),
		)
		return "", false
	}
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" || raw == "null" {
		return "", false
	}
	return raw, true
}
