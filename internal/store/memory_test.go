package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopia-ai/advisor/backend/internal/model/chat"
	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	session := chat.NewSession("s1", plan.Entrepreneur, now)
	require.NoError(t, s.Put(ctx, session))

	session.Append(chat.Message{ID: "m1", Role: chat.RoleUser, Content: "mutated after put"})

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.ConversationHistory)

	got.CurrentModule = plan.FinancialPlan
	again, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, again.HasModule())
}

func TestMemoryStorePutRequiresID(t *testing.T) {
	s := NewMemoryStore()
	assert.Error(t, s.Put(context.Background(), &chat.Session{}))
	assert.Error(t, s.Put(context.Background(), nil))
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	stale := chat.NewSession("stale", plan.Entrepreneur, now.Add(-25*time.Hour))
	fresh := chat.NewSession("fresh", plan.Consultant, now.Add(-time.Hour))
	require.NoError(t, s.Put(ctx, stale))
	require.NoError(t, s.Put(ctx, fresh))

	removed, err := s.SweepOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())

	_, err = s.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Put(ctx, chat.NewSession("s1", plan.Entrepreneur, time.Now())))
	require.NoError(t, s.Delete(ctx, "s1"))
	require.NoError(t, s.Delete(ctx, "s1"))
	assert.Equal(t, 0, s.Len())
}

func TestJanitorSweepsOnTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	require.NoError(t, s.Put(ctx, chat.NewSession("stale", plan.Entrepreneur, now.Add(-48*time.Hour))))

	swept := make(chan int, 4)
	StartJanitor(ctx, s, 10*time.Millisecond, 24*time.Hour, nil, func(n int) { swept <- n })

	select {
	case n := <-swept:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not sweep")
	}
	assert.Equal(t, 0, s.Len())
}
