package waste

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	db "github.com/Anit-Biswas/Waste-management-website/internal/db"
	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := db.NewStore(db.NewMemoryKV(), zap.NewNop())

	written, err := Seed(ctx, store, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, model.Collections, written)

	users := db.Read(ctx, store, model.KeyUsers, []model.User{})
	require.Len(t, users, 2)
	require.Equal(t, model.RoleAdmin, users[1].Role)
	require.Len(t, db.Read(ctx, store, model.KeyFacilities, []model.Facility{}), 3)
	require.Len(t, db.Read(ctx, store, model.KeyTraining, []model.TrainingModule{}), 3)
	require.Empty(t, db.Read(ctx, store, model.KeyBookings, []model.Booking{}))

	// повторный запуск ничего не пишет
	written, err = Seed(ctx, store, zap.NewNop())
	require.NoError(t, err)
	require.Empty(t, written)
}

func TestSeedKeepsExisting(t *testing.T) {
	ctx := context.Background()
	store := db.NewStore(db.NewMemoryKV(), zap.NewNop())

	own := []model.User{{ID: 7, Name: "Zed", Email: "zed@x.com", Role: model.RoleUser, Pass: "pw"}}
	require.NoError(t, store.Write(ctx, model.KeyUsers, own))
	require.NoError(t, store.Write(ctx, model.KeyTraining, []model.TrainingModule{}))

	written, err := Seed(ctx, store, zap.NewNop())
	require.NoError(t, err)
	require.NotContains(t, written, model.KeyUsers)
	require.NotContains(t, written, model.KeyTraining)

	require.Equal(t, own, db.Read(ctx, store, model.KeyUsers, []model.User{}))
	require.Empty(t, db.Read(ctx, store, model.KeyTraining, []model.TrainingModule{}))
}

type failingKV struct{ db.MemoryKV }

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	return errors.New("disk full")
}

func TestSeedWriteError(t *testing.T) {
	store := db.NewStore(&failingKV{}, zap.NewNop())
	written, err := Seed(context.Background(), store, zap.NewNop())
	require.ErrorContains(t, err, "seed users: disk full")
	require.Empty(t, written)
}

func TestSession(t *testing.T) {
	var calls []*model.User
	sess := NewSession(func(u *model.User) { calls = append(calls, u) })
	require.False(t, sess.Authenticated())

	record := model.User{ID: 1, Name: "User", Rewards: 40}
	sess.SetUser(&record)
	record.Rewards = 100

	user, ok := sess.User()
	require.True(t, ok)
	require.Equal(t, 40, user.Rewards)

	sess.SetUser(nil)
	require.False(t, sess.Authenticated())
	_, err := sess.principal()
	require.ErrorIs(t, err, model.ErrUnauthenticated)

	require.Len(t, calls, 2)
	require.Equal(t, "User", calls[0].Name)
	require.Nil(t, calls[1])
}

func TestIDGenerator(t *testing.T) {
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := NewIDGenerator(func() time.Time { return fixed })

	first := ids.Next()
	require.Equal(t, fixed.UnixMilli(), first)
	require.Equal(t, first+1, ids.Next())

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got = make(map[int64]bool)
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := ids.Next()
			mu.Lock()
			got[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Len(t, got, 20)
}

func TestPublishersJoinErrors(t *testing.T) {
	cont := gomock.NewController(t)
	defer cont.Finish()

	first := NewMockEventPublisher(cont)
	second := NewMockEventPublisher(cont)
	event := model.Event{Kind: model.EventTicket, ID: 1}

	first.EXPECT().Publish(gomock.Any(), event).Return(errors.New("kafka down"))
	second.EXPECT().Publish(gomock.Any(), event).Return(nil)

	err := Publishers{first, nil, second}.Publish(context.Background(), event)
	require.ErrorContains(t, err, "kafka down")
}
