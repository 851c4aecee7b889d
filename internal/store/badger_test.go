package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/product-catalog-service/internal/model"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInsertThenGet(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	p := model.Product{ID: "p1", Name: "Mouse", Description: "Wireless", Price: 29.99}
	req.NoError(s.Insert(ctx, p))

	got, found, err := s.Get(ctx, "p1")
	req.NoError(err)
	req.True(found)
	req.Equal(p, got)
}

func TestGetMissing(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)

	_, found, err := s.Get(context.Background(), "nope")
	req.NoError(err)
	req.False(found)
}

func TestReplaceExisting(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	req.NoError(s.Insert(ctx, model.Product{ID: "p1", Name: "Mouse", Price: 29.99}))

	updated := model.Product{ID: "p1", Name: "Trackball", Description: "Ergonomic", Price: 49.50}
	found, err := s.Replace(ctx, updated)
	req.NoError(err)
	req.True(found)

	got, _, err := s.Get(ctx, "p1")
	req.NoError(err)
	req.Equal(updated, got)
}

func TestReplaceMissing(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)

	found, err := s.Replace(context.Background(), model.Product{ID: "ghost", Name: "x"})
	req.NoError(err)
	req.False(found)

	all, err := s.List(context.Background())
	req.NoError(err)
	req.Empty(all)
}

func TestDeleteIdempotent(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	req.NoError(s.Insert(ctx, model.Product{ID: "p1", Name: "Mouse"}))
	req.NoError(s.Delete(ctx, "p1"))
	req.NoError(s.Delete(ctx, "p1"))

	_, found, err := s.Get(ctx, "p1")
	req.NoError(err)
	req.False(found)
}

func TestListAll(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	all, err := s.List(ctx)
	req.NoError(err)
	req.Empty(all)

	req.NoError(s.Insert(ctx, model.Product{ID: "a", Name: "A", Price: 1}))
	req.NoError(s.Insert(ctx, model.Product{ID: "b", Name: "B", Price: 2}))
	req.NoError(s.Insert(ctx, model.Product{ID: "c", Name: "C", Price: 3}))

	all, err = s.List(ctx)
	req.NoError(err)
	req.Len(all, 3)

	names := make(map[string]string, len(all))
	for _, p := range all {
		names[p.ID] = p.Name
	}
	req.Equal(map[string]string{"a": "A", "b": "B", "c": "C"}, names)
}

func TestCancelledContextStopsWrites(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req.Error(s.Insert(ctx, model.Product{ID: "p1", Name: "Mouse"}))

	_, found, err := s.Get(context.Background(), "p1")
	req.NoError(err)
	req.False(found)
}
