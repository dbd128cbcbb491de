package helpers

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestChunkUUIDs(t *testing.T) {
	ids := makeIDs(23)

	chunks := ChunkUUIDs(ids, 10)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[1], 10)
	assert.Len(t, chunks[2], 3)

	assert.Nil(t, ChunkUUIDs(nil, 10))

	// Non-positive sizes fall back to the default chunk size.
	chunks = ChunkUUIDs(ids, 0)
	require.Len(t, chunks, 3)
}

func TestDistinctUUIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	distinct := DistinctUUIDs([]uuid.UUID{a, b, a, uuid.Nil, b})
	assert.Equal(t, []uuid.UUID{a, b}, distinct)
}

type row struct {
	ID   uuid.UUID
	Name string
}

func TestLoadByIDsMergesChunks(t *testing.T) {
	ids := makeIDs(25)
	store := make(map[uuid.UUID]row, len(ids))
	for i, id := range ids {
		store[id] = row{ID: id, Name: string(rune('a' + i%26))}
	}

	var mu sync.Mutex
	var chunkSizes []int
	fetch := func(chunk []uuid.UUID) ([]row, error) {
		mu.Lock()
		chunkSizes = append(chunkSizes, len(chunk))
		mu.Unlock()

		var rows []row
		for _, id := range chunk {
			if r, ok := store[id]; ok {
				rows = append(rows, r)
			}
		}
		return rows, nil
	}

	result, err := LoadByIDs(ids, fetch, func(r row) uuid.UUID { return r.ID })
	require.NoError(t, err)
	assert.Len(t, result, 25)
	for _, id := range ids {
		assert.Equal(t, store[id], result[id])
	}

	for _, size := range chunkSizes {
		assert.LessOrEqual(t, size, BatchChunkSize)
	}
	assert.Len(t, chunkSizes, 3)
}

func TestLoadByIDsDeduplicates(t *testing.T) {
	id := uuid.New()
	calls := 0
	fetch := func(chunk []uuid.UUID) ([]row, error) {
		calls++
		require.Len(t, chunk, 1)
		return []row{{ID: id}}, nil
	}

	result, err := LoadByIDs([]uuid.UUID{id, id, id}, fetch, func(r row) uuid.UUID { return r.ID })
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, 1, calls)
}

func TestLoadByIDsEmptyInput(t *testing.T) {
	fetch := func(chunk []uuid.UUID) ([]row, error) {
		t.Fatal("fetch must not run for empty input")
		return nil, nil
	}

	result, err := LoadByIDs(nil, fetch, func(r row) uuid.UUID { return r.ID })
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestLoadByIDsPropagatesFirstError(t *testing.T) {
	boom := errors.New("store unavailable")
	fetch := func(chunk []uuid.UUID) ([]row, error) {
		return nil, boom
	}

	result, err := LoadByIDs(makeIDs(15), fetch, func(r row) uuid.UUID { return r.ID })
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, result)
}
