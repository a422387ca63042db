// Package dedupe collapses duplicate editions of the same book out of a
// ranked candidate list.
//
// Two candidates are the same book when they share a non-empty ISBN, or when
// their normalized (title, author) pairs match. Normalization lowercases and
// trims whitespace. Candidates are visited in rank order, so the best-scoring
// edition of every book is the one kept.
package dedupe
