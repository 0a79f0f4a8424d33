package waste

import (
	"context"
	"errors"
	"testing"

	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryKV(), zap.NewNop())

	users := []model.User{
		{ID: 1, Name: "User", Email: "user@.com", Role: model.RoleUser, Pass: "1234", Rewards: 40},
		{ID: 2, Name: "Admin", Email: "admin@.com", Role: model.RoleAdmin, Pass: "admin123"},
	}
	captures := []model.Capture{
		{ID: 10, UID: 1, Date: "2025-01-02", Type: "Dry", Kg: 2.5},
	}

	require.NoError(t, store.Write(ctx, model.KeyUsers, users))
	require.NoError(t, store.Write(ctx, model.KeyCaptures, captures))

	require.Equal(t, users, Read(ctx, store, model.KeyUsers, []model.User{}))
	require.Equal(t, captures, Read(ctx, store, model.KeyCaptures, []model.Capture{}))
}

func TestReadDefault(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewStore(kv, zap.NewNop())
	def := []model.Booking{{ID: 7}}

	tests := []struct {
		name   string
		raw    *string
		exists bool
	}{
		{"missing", nil, false},
		{"empty", ptr(""), false},
		{"null", ptr("null"), false},
		{"corrupt", ptr("[{\"id\":"), false},
		{"wrong shape", ptr("{\"id\": 1}"), true},
	}

	for _, ts := range tests {
		t.Run(ts.name, func(t *testing.T) {
			key := "k_" + ts.name
			if ts.raw != nil {
				require.NoError(t, kv.Set(ctx, key, *ts.raw))
			}
			require.Equal(t, def, Read(ctx, store, key, def))
			require.Equal(t, ts.exists, store.Exists(ctx, key))
		})
	}
}

func TestWriteReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryKV(), zap.NewNop())

	require.NoError(t, store.Write(ctx, model.KeyTickets, []model.Ticket{{ID: 1}, {ID: 2}}))
	require.NoError(t, store.Write(ctx, model.KeyTickets, []model.Ticket{{ID: 3}}))

	require.Equal(t, []model.Ticket{{ID: 3}}, Read(ctx, store, model.KeyTickets, []model.Ticket(nil)))
	require.True(t, store.Exists(ctx, model.KeyTickets))
}

func TestEmptyCollectionExists(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryKV(), zap.NewNop())

	require.NoError(t, store.Write(ctx, model.KeyBookings, []model.Booking{}))
	require.True(t, store.Exists(ctx, model.KeyBookings))

	raw, ok := store.ReadRaw(ctx, model.KeyBookings)
	require.True(t, ok)
	require.JSONEq(t, "[]", string(raw))
}

func TestReadBackendError(t *testing.T) {
	cont := gomock.NewController(t)
	defer cont.Finish()

	kv := NewMockKeyValue(cont)
	kv.EXPECT().
		Get(gomock.Any(), model.KeyUsers).
		Return("", false, errors.New("connection refused")).
		Times(1)

	store := NewStore(kv, zap.NewNop())
	users := Read(context.Background(), store, model.KeyUsers, []model.User{})
	require.Empty(t, users)
}

func TestWriteBackendError(t *testing.T) {
	cont := gomock.NewController(t)
	defer cont.Finish()

	kv := NewMockKeyValue(cont)
	kv.EXPECT().
		Set(gomock.Any(), model.KeyUsers, "[]").
		Return(errors.New("read only")).
		Times(1)

	store := NewStore(kv, zap.NewNop())
	err := store.Write(context.Background(), model.KeyUsers, []model.User{})
	require.Error(t, err)
}

func ptr(s string) *string {
	return &s
}
