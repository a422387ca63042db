package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AmanChauhan7010/bookfinder/core"
)

// ResourceState describes a lazily loaded resource.
type ResourceState int

const (
	// NotLoaded means no load has completed since creation or the last Reset.
	NotLoaded ResourceState = iota
	// Ready means the last load succeeded.
	Ready
	// Failed means the last load failed. Searches fail fast until Reload.
	Failed
)

func (s ResourceState) String() string {
	switch s {
	case NotLoaded:
		return "not loaded"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the searcher's model and corpus.
type Status struct {
	Model          ResourceState
	ModelError     error
	ModelLoadedAt  time.Time
	Corpus         ResourceState
	CorpusError    error
	CorpusLoadedAt time.Time
	CorpusSize     int
	Dimension      int
}

// Ready reports whether both the model and the corpus are loaded.
func (st Status) Ready() bool {
	return st.Model == Ready && st.Corpus == Ready
}

// Status reports what has been loaded so far. It never triggers a load.
func (s *Searcher) Status() Status {
	var st Status
	if o, ok := s.model.peek(); ok {
		st.Model, st.ModelError, st.ModelLoadedAt = stateOf(o.err), o.err, o.loadedAt
	}
	if o, ok := s.corpus.peek(); ok {
		st.Corpus, st.CorpusError, st.CorpusLoadedAt = stateOf(o.err), o.err, o.loadedAt
		if o.value != nil {
			st.CorpusSize = o.value.Len()
			st.Dimension = o.value.Dim()
		}
	}
	return st
}

func stateOf(err error) ResourceState {
	if err != nil {
		return Failed
	}
	return Ready
}

// Reload discards the cached model and corpus and loads both again. Use it
// after the embedding store has been rebuilt or to recover from a failed
// load. Both loads are attempted even if one fails.
func (s *Searcher) Reload(ctx context.Context) error {
	_, modelErr := s.model.reload(ctx)
	_, corpusErr := s.corpus.reload(ctx)
	if err := errors.Join(modelErr, corpusErr); err != nil {
		return fmt.Errorf("%w: %w", core.ErrSearchUnavailable, err)
	}
	s.logger.Info("search resources reloaded")
	return nil
}

// Reset forgets the cached model and corpus. The next search loads them again.
func (s *Searcher) Reset() {
	s.model.reset()
	s.corpus.reset()
}
