package badger

import (
	"encoding/binary"

	"github.com/AmanChauhan7010/bookfinder/core"
)

// Key prefixes for different data types
const (
	embeddingPrefix     = "embrec:"
	embeddingMetaPrefix = "embmeta:"
	dimensionKey        = embeddingMetaPrefix + "dim"
)

// makeEmbeddingKey generates a key for a book's embedding.
// Format: prefix + big-endian id, so prefix iteration yields id order.
func makeEmbeddingKey(id core.BookID) []byte {
	prefixBytes := []byte(embeddingPrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// parseEmbeddingKey extracts the book id from an embedding key.
func parseEmbeddingKey(key []byte) (core.BookID, bool) {
	if len(key) != len(embeddingPrefix)+8 {
		return 0, false
	}
	return core.BookID(binary.BigEndian.Uint64(key[len(embeddingPrefix):])), true
}

func encodeDimension(dim int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(dim))
	return buf
}

func decodeDimension(val []byte) (int, bool) {
	if len(val) != 8 {
		return 0, false
	}
	return int(binary.BigEndian.Uint64(val)), true
}
