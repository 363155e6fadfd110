package grid

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"archive-lens/internal/backend"
)

// CellSource fetches rectangles of cells.
type CellSource interface {
	GetExcelSheetCells(ctx context.Context, req backend.CellsRequest) (backend.CellsResponse, error)
}

// Fetcher caches fetched windows by their exact rectangle. Concurrent
// misses for the same rectangle share one backend call.
type Fetcher struct {
	src   CellSource
	cache *gocache.Cache
	group singleflight.Group
	epoch atomic.Uint64
	calls atomic.Int64
}

// NewFetcher creates a fetcher whose entries live for ttl; ttl <= 0 keeps
// them until Clear.
func NewFetcher(src CellSource, ttl time.Duration) *Fetcher {
	expiration, cleanup := gocache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, 2*ttl
	}
	return &Fetcher{
		src:   src,
		cache: gocache.New(expiration, cleanup),
	}
}

// Fetch returns the cells of w, from the cache when possible.
func (f *Fetcher) Fetch(ctx context.Context, fileID, sheet string, w Window) (backend.CellsResponse, error) {
	key := w.Key(fileID, sheet)
	if v, ok := f.cache.Get(key); ok {
		return v.(backend.CellsResponse), nil
	}

	// The shared call outlives any single caller, so it runs without their
	// cancellation; each caller still stops waiting when its own ctx ends.
	shared := context.WithoutCancel(ctx)
	epoch := f.epoch.Load()
	ch := f.group.DoChan(key+"@"+strconv.FormatUint(epoch, 10), func() (any, error) {
		if v, ok := f.cache.Get(key); ok {
			return v, nil
		}
		f.calls.Add(1)
		resp, err := f.src.GetExcelSheetCells(shared, backend.CellsRequest{
			FileID:    fileID,
			SheetName: sheet,
			RowStart:  w.RowStart,
			RowEnd:    w.RowEnd,
			ColStart:  w.ColStart,
			ColEnd:    w.ColEnd,
		})
		if err != nil {
			return nil, err
		}
		// A Clear that happened while the request was in flight wins.
		if f.epoch.Load() == epoch {
			f.cache.Set(key, resp, gocache.DefaultExpiration)
		}
		return resp, nil
	})

	select {
	case <-ctx.Done():
		return backend.CellsResponse{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return backend.CellsResponse{}, fmt.Errorf("failed to fetch cells %s[%d:%d,%d:%d]: %w",
				sheet, w.RowStart, w.RowEnd, w.ColStart, w.ColEnd, res.Err)
		}
		return res.Val.(backend.CellsResponse), nil
	}
}

// Clear drops every cached window.
func (f *Fetcher) Clear() {
	f.epoch.Add(1)
	f.cache.Flush()
}

// Len returns the number of cached windows.
func (f *Fetcher) Len() int {
	return f.cache.ItemCount()
}

// Calls returns the number of backend requests issued so far.
func (f *Fetcher) Calls() int64 {
	return f.calls.Load()
}
