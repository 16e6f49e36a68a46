package erddap

import (
	"github.com/golang/groupcache/lru"
	"github.com/mitchellh/hashstructure/v2"
)

const dedupeCacheSize = 10_000

type rowKey struct {
	ID       string
	UnixNano int64
	Lat      float64
	Lon      float64
}

// newDedupePassFunc returns a predicate that is false for rows already seen
// among the last dedupeCacheSize distinct rows.
func newDedupePassFunc() func(Row) bool {
	cache := lru.New(dedupeCacheSize)
	return func(r Row) bool {
		hash, err := hashstructure.Hash(rowKey{
			ID:       r.ID.String(),
			UnixNano: r.Time.UnixNano(),
			Lat:      r.Lat,
			Lon:      r.Lon,
		}, hashstructure.FormatV2, nil)
		if err != nil {
			return true
		}
		if _, ok := cache.Get(hash); ok {
			return false
		}
		cache.Add(hash, true)
		return true
	}
}

// dedupe drops rows whose id, time and position repeat an earlier row,
// keeping first occurrences in order. It returns the kept rows and the
// number dropped.
func dedupe(rows []Row) ([]Row, int) {
	pass := newDedupePassFunc()
	out := rows[:0]
	for _, r := range rows {
		if pass(r) {
			out = append(out, r)
		}
	}
	return out, len(rows) - len(out)
}
