package client

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Collection is the in-memory copy of one list owned by a single view.
// The list is only ever replaced wholesale by a fetch; mutations never
// patch it locally.
type Collection[T any] struct {
	load  func(context.Context) ([]T, error)
	group singleflight.Group

	mu       sync.RWMutex
	items    []T
	loadedAt time.Time
	// gen advances on every successful mutation. A load keeps its result
	// only if gen has not moved since the load began.
	gen uint64
}

func NewCollection[T any](load func(context.Context) ([]T, error)) *Collection[T] {
	return &Collection[T]{load: load}
}

// Refresh fetches the list. Calls made while a fetch is in flight wait for
// it and share its result instead of issuing a second request. The fetch
// outlives a caller whose ctx ends; that caller alone gets ctx.Err().
func (c *Collection[T]) Refresh(ctx context.Context) ([]T, error) {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		items, err := c.load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.items = items
			c.loadedAt = time.Now()
		}
		c.mu.Unlock()
		return items, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		items := res.Val.([]T)
		out := make([]T, len(items))
		copy(out, items)
		return out, nil
	}
}

// Items returns a copy of the current list.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// LoadedAt is the time of the last successful fetch, zero if none.
func (c *Collection[T]) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Mutate runs fn and, when it succeeds, re-fetches the whole list. Loads
// started before fn can no longer replace the list. A failed fn leaves
// the list as it was and its error is returned as is.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
	_, err := c.Refresh(ctx)
	return err
}
