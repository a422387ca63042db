// Package rank scores a query vector against a corpus and returns the top-K
// book ids by cosine similarity.
//
// The contract is (vector, corpus) -> ranked ids over the Corpus interface,
// so an approximate nearest-neighbour index can replace LinearRanker without
// touching its callers.
//
// LinearRanker performs an exact linear scan. Ties are broken by corpus order:
// of two rows with equal score, the one stored first ranks first. Given a
// worker pool it scores large corpora in parallel shards; the merged output
// is identical to the sequential scan.
package rank
