package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionSharesInFlightLoad(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	col := NewCollection(func(ctx context.Context) ([]int, error) {
		calls.Add(1)
		<-release
		return []int{1, 2, 3}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := col.Refresh(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, []int{1, 2, 3}, items)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 3, col.Len())
	assert.False(t, col.LoadedAt().IsZero())
}

func TestCollectionMutateRefetches(t *testing.T) {
	var calls atomic.Int32
	data := []string{"a"}
	col := NewCollection(func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		return append([]string(nil), data...), nil
	})
	ctx := context.Background()
	_, err := col.Refresh(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = col.Mutate(ctx, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), calls.Load(), "failed mutation must not refetch")
	assert.Equal(t, []string{"a"}, col.Items())

	err = col.Mutate(ctx, func(context.Context) error {
		data = append(data, "b")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []string{"a", "b"}, col.Items())
}

func TestCollectionItemsIsCopy(t *testing.T) {
	col := NewCollection(func(ctx context.Context) ([]int, error) { return []int{1}, nil })
	_, err := col.Refresh(context.Background())
	require.NoError(t, err)

	items := col.Items()
	items[0] = 99
	assert.Equal(t, []int{1}, col.Items())
}

func TestCollectionRefreshResultIsCopy(t *testing.T) {
	col := NewCollection(func(ctx context.Context) ([]int, error) { return []int{1}, nil })
	items, err := col.Refresh(context.Background())
	require.NoError(t, err)

	items[0] = 99
	assert.Equal(t, []int{1}, col.Items())
}

func TestCollectionLoadBeforeMutateIsDiscarded(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	col := NewCollection(func(ctx context.Context) ([]string, error) {
		if calls.Add(1) == 1 {
			<-release
			return []string{"old"}, nil
		}
		return []string{"old", "new"}, nil
	})
	ctx := context.Background()

	done := make(chan []string)
	go func() {
		items, err := col.Refresh(ctx)
		assert.NoError(t, err)
		done <- items
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, col.Mutate(ctx, func(context.Context) error { return nil }))
	assert.Equal(t, []string{"old", "new"}, col.Items())

	close(release)
	assert.Equal(t, []string{"old"}, <-done)
	assert.Equal(t, []string{"old", "new"}, col.Items())
	assert.Equal(t, int32(2), calls.Load())
}

func TestCollectionCallerCancelDoesNotFailOthers(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	col := NewCollection(func(ctx context.Context) ([]int, error) {
		calls.Add(1)
		select {
		case <-release:
			return []int{7}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error)
	go func() {
		_, err := col.Refresh(ctxA)
		errA <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		items []int
		err   error
	}
	resB := make(chan result)
	go func() {
		items, err := col.Refresh(context.Background())
		resB <- result{items, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, []int{7}, b.items)
	assert.Equal(t, []int{7}, col.Items())
	assert.Equal(t, int32(1), calls.Load())
}
