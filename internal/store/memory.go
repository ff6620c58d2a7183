package store

import (
	"context"
	"sort"
	"sync"

	"github.com/jiwonseo/kma-dashboard/internal/forecast"
)

type recordKey struct {
	baseDate, baseTime string
	fcstDate, fcstTime string
	nx, ny             int
	category           string
}

// MemoryStore is a concurrency-safe in-memory forecast.Store. It mirrors the
// SQLite store's upsert and latest-bulletin semantics and backs tests and
// ephemeral deployments where persistence is not wanted.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[recordKey]forecast.Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[recordKey]forecast.Record)}
}

// UpsertBulletin replaces or inserts every record by its key tuple.
func (s *MemoryStore) UpsertBulletin(ctx context.Context, records []forecast.Record) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		s.data[keyOf(record)] = record
	}
	return nil
}

// LatestBulletin returns all rows of the newest reference stamp for the grid,
// ordered by forecast stamp ascending.
func (s *MemoryStore) LatestBulletin(ctx context.Context, nx, ny int) ([]forecast.Record, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest string
	for key := range s.data {
		if key.nx != nx || key.ny != ny {
			continue
		}
		if stamp := key.baseDate + key.baseTime; stamp > latest {
			latest = stamp
		}
	}
	if latest == "" {
		return nil, forecast.ErrNoBulletin
	}

	var records []forecast.Record
	for key, record := range s.data {
		if key.nx == nx && key.ny == ny && key.baseDate+key.baseTime == latest {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.FcstDate+a.FcstTime != b.FcstDate+b.FcstTime {
			return a.FcstDate+a.FcstTime < b.FcstDate+b.FcstTime
		}
		return a.Category < b.Category
	})

	return records, nil
}

// PruneBefore drops every record whose base date sorts before cutoffDate.
func (s *MemoryStore) PruneBefore(ctx context.Context, cutoffDate string) (int64, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	var pruned int64
	for key := range s.data {
		if key.baseDate < cutoffDate {
			delete(s.data, key)
			pruned++
		}
	}
	return pruned, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len reports the number of stored rows. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func keyOf(r forecast.Record) recordKey {
	return recordKey{
		baseDate: r.BaseDate,
		baseTime: r.BaseTime,
		fcstDate: r.FcstDate,
		fcstTime: r.FcstTime,
		nx:       r.Nx,
		ny:       r.Ny,
		category: r.Category,
	}
}
