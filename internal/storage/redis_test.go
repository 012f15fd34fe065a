package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaptive_rag/internal/core"
)

func newTestStore(t *testing.T) (*RunStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRunStore(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestNewRunStoreValidation(t *testing.T) {
	_, err := NewRunStore(context.Background(), "")
	require.Error(t, err)

	_, err = NewRunStore(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestSaveAndGetRun(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	result := &core.RunResult{
		Question:   "what is agent memory?",
		Generation: "Memory lets an agent retain context across steps.",
		Route:      core.RouteVectorstore,
		Retries:    1,
		Trace: []core.TraceStep{
			{Node: core.NodeRouteQuestion, Detail: core.RouteVectorstore, Timestamp: time.Now().UTC()},
		},
		DurationMS: 1234,
	}

	require.NoError(t, store.SaveRun(ctx, "run-1", result, time.Hour))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, result.Question, got.Question)
	assert.Equal(t, result.Generation, got.Generation)
	assert.Equal(t, result.Route, got.Route)
	assert.Equal(t, result.Retries, got.Retries)
	require.Len(t, got.Trace, 1)
	assert.Equal(t, core.NodeRouteQuestion, got.Trace[0].Node)
}

func TestGetRunNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestRunExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, "run-ttl", &core.RunResult{Question: "q"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.GetRun(ctx, "run-ttl")
	require.Error(t, err)
}

func TestAnswerCache(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	answer, ok, err := store.CachedAnswer(ctx, "what is agent memory?")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, answer)

	require.NoError(t, store.CacheAnswer(ctx, "what is agent memory?", "Memory retains context.", time.Hour))

	answer, ok, err = store.CachedAnswer(ctx, "what is agent memory?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Memory retains context.", answer)

	// Different question must not collide
	_, ok, err = store.CachedAnswer(ctx, "what is prompt engineering?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPing(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	require.Error(t, store.Ping(context.Background()))
}
