package search

import (
	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/dedupe"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string, limit int)
	AfterEncode(vector []float32)
	AfterRank(ranked core.RankedResult)
	AfterMetadataFetch(books []*core.Book)
	// MissingMetadata reports a ranked id the book store had no row for.
	MissingMetadata(candidate core.ScoredCandidate)
	Duplicate(candidate core.ScoredCandidate, reason dedupe.Reason)
	// Widen reports another ranking pass with a larger candidate pool.
	Widen(topK int)
	Finish(results []core.Result)
}

var _ dedupe.Observer = (SearchMonitor)(nil)

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                             {}
func (n *noopMonitor) AfterEncode(_ []float32)                           {}
func (n *noopMonitor) AfterRank(_ core.RankedResult)                     {}
func (n *noopMonitor) AfterMetadataFetch(_ []*core.Book)                 {}
func (n *noopMonitor) MissingMetadata(_ core.ScoredCandidate)            {}
func (n *noopMonitor) Duplicate(_ core.ScoredCandidate, _ dedupe.Reason) {}
func (n *noopMonitor) Widen(_ int)                                       {}
func (n *noopMonitor) Finish(_ []core.Result)                            {}

// selectionLog buffers the dedupe callbacks of one selection pass. A widened
// search replays only its final pass, so each candidate is reported once.
type selectionLog struct {
	events []selectionEvent
}

type selectionEvent struct {
	candidate core.ScoredCandidate
	reason    dedupe.Reason // zero for missing metadata
}

var _ dedupe.Observer = (*selectionLog)(nil)

func (l *selectionLog) MissingMetadata(candidate core.ScoredCandidate) {
	l.events = append(l.events, selectionEvent{candidate: candidate})
}

func (l *selectionLog) Duplicate(candidate core.ScoredCandidate, reason dedupe.Reason) {
	l.events = append(l.events, selectionEvent{candidate: candidate, reason: reason})
}

func (l *selectionLog) replay(monitor SearchMonitor) {
	for _, e := range l.events {
		if e.reason == 0 {
			monitor.MissingMetadata(e.candidate)
		} else {
			monitor.Duplicate(e.candidate, e.reason)
		}
	}
}
