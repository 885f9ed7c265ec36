package ecs

import (
	"reflect"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// StorageStats is a point-in-time summary of a Storage.
type StorageStats struct {
	EntitiesIssued  uint64
	PoolCount       int
	TotalComponents int
	TotalChunks     int
	PoolBreakdown   []PoolStats
}

// PoolStats describes one component pool.
type PoolStats struct {
	Type       string
	TypeId     uint64
	Allocator  string
	Hints      Hints
	Count      int
	ChunkCount int
}

// CollectStats gathers statistics from every pool created so far. Pools are
// sampled one at a time, so the totals are not a single atomic snapshot
// while other goroutines mutate the storage.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		EntitiesIssued: s.entities.issued(),
	}

	for _, h := range s.poolHandles() {
		ps := h.stats()
		stats.PoolBreakdown = append(stats.PoolBreakdown, ps)
		stats.TotalComponents += ps.Count
		if ps.ChunkCount > 0 {
			stats.TotalChunks += ps.ChunkCount
		}
	}
	stats.PoolCount = len(stats.PoolBreakdown)

	slices.SortFunc(stats.PoolBreakdown, func(a, b PoolStats) int {
		return strings.Compare(a.Type, b.Type)
	})
	return stats
}

// typeId hashes the package path and printed name of t. Unlike reflect.Type
// identity the hash is stable across runs.
func typeId(t reflect.Type) uint64 {
	return xxhash.Sum64String(t.PkgPath() + "/" + t.String())
}
