package helpers

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BatchChunkSize caps how many identifiers go into a single "value in set"
// query. Firestore-style stores limit IN clauses to 10 values; Postgres has
// no such limit but the batches stay small enough either way.
const BatchChunkSize = 10

func DistinctUUIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	var distinct []uuid.UUID
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	return distinct
}

func ChunkUUIDs(ids []uuid.UUID, size int) [][]uuid.UUID {
	if size <= 0 {
		size = BatchChunkSize
	}
	var chunks [][]uuid.UUID
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// LoadByIDs resolves a set of foreign keys without issuing one query per row.
// The identifiers are de-duplicated, partitioned into chunks of at most
// BatchChunkSize, fetched in parallel, and merged into a lookup table keyed
// by keyOf. The first failed chunk fails the whole load.
func LoadByIDs[T any](ids []uuid.UUID, fetch func([]uuid.UUID) ([]T, error), keyOf func(T) uuid.UUID) (map[uuid.UUID]T, error) {
	result := make(map[uuid.UUID]T)
	distinct := DistinctUUIDs(ids)
	if len(distinct) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	var g errgroup.Group
	for _, chunk := range ChunkUUIDs(distinct, BatchChunkSize) {
		chunk := chunk
		g.Go(func() error {
			rows, err := fetch(chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			for _, row := range rows {
				result[keyOf(row)] = row
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
