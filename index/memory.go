package index

import (
	"context"
	"math"
	"sort"
	"sync"

	"claimpilot-backend/models"
)

type memoryEntry struct {
	clause models.Clause
	vector []float64
}

// MemoryIndex is a brute-force in-memory store. It serves tests and
// small corpora where a database is not worth running.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries []memoryEntry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (idx *MemoryIndex) Rebuild(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = nil
	return nil
}

func (idx *MemoryIndex) Add(ctx context.Context, clause models.Clause, vector []float64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	v := make([]float64, len(vector))
	copy(v, vector)
	idx.entries = append(idx.entries, memoryEntry{clause: clause, vector: v})
	return nil
}

func (idx *MemoryIndex) Query(ctx context.Context, vector []float64, k int) ([]models.RetrievedClause, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]models.RetrievedClause, 0, len(idx.entries))
	for _, e := range idx.entries {
		results = append(results, models.RetrievedClause{
			Clause:   e.clause,
			Distance: 1 - cosineSimilarity(vector, e.vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (idx *MemoryIndex) Count(ctx context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries), nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
