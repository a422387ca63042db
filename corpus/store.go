package corpus

import (
	"fmt"

	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/vector"
)

// Store is an immutable matrix of N embedding vectors of dimension D plus the
// parallel sequence of book ids. ids[i] identifies vectors[i].
type Store struct {
	ids     []core.BookID
	vectors [][]float32
	norms   []float64
	dim     int
}

// New validates ids and vectors and builds a Store from a private copy of
// them. Mismatched lengths, inconsistent dimensions, zero or duplicate ids,
// and non-finite components are rejected with core.ErrCorpusUnavailable.
// Nothing is truncated.
func New(ids []core.BookID, vectors [][]float32) (*Store, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("%w: %d ids for %d vectors", core.ErrCorpusUnavailable, len(ids), len(vectors))
	}
	if len(ids) == 0 {
		return &Store{}, nil
	}

	dim := len(vectors[0])
	seen := make(map[core.BookID]int, len(ids))
	for i, id := range ids {
		record := core.EmbeddingRecord{BookId: id, Vector: vectors[i]}
		if err := core.ValidateEmbeddingRecord(&record, dim); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", core.ErrCorpusUnavailable, i, err)
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: book %d appears at rows %d and %d", core.ErrCorpusUnavailable, id, prev, i)
		}
		seen[id] = i
	}

	// One contiguous backing array keeps the scan cache-friendly.
	flat := make([]float32, len(ids)*dim)
	s := &Store{
		ids:     make([]core.BookID, len(ids)),
		vectors: make([][]float32, len(ids)),
		norms:   make([]float64, len(ids)),
		dim:     dim,
	}
	copy(s.ids, ids)
	for i, v := range vectors {
		row := flat[i*dim : (i+1)*dim : (i+1)*dim]
		copy(row, v)
		s.vectors[i] = row
		s.norms[i] = vector.Norm(row)
	}
	return s, nil
}

// Len returns the number of stored vectors.
func (s *Store) Len() int { return len(s.ids) }

// Dim returns the vector dimension, or 0 for an empty store.
func (s *Store) Dim() int { return s.dim }

// ID returns the book id of row i.
func (s *Store) ID(i int) core.BookID { return s.ids[i] }

// Vector returns row i. Callers must not modify it.
func (s *Store) Vector(i int) []float32 { return s.vectors[i] }

// Norm returns the precomputed Euclidean length of row i.
func (s *Store) Norm(i int) float64 { return s.norms[i] }
