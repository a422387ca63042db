package core

import (
	"errors"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// float32Size is the encoded size of one raw float32 component.
const float32Size = 4

// ErrMalformedRecord indicates encoded bytes that cannot be a valid record.
var ErrMalformedRecord = errors.New("malformed encoded record")

// BookIDMUS serializes a BookID as a varint.
var BookIDMUS = bookIDMUS{}

// EmbeddingRecordMUS serializes an EmbeddingRecord as
// varint(id) varint(len) raw float32 * len.
var EmbeddingRecordMUS = embeddingRecordMUS{}

var (
	_ mus.Serializer[BookID]          = BookIDMUS
	_ mus.Serializer[EmbeddingRecord] = EmbeddingRecordMUS
)

type bookIDMUS struct{}

func (s bookIDMUS) Marshal(v BookID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s bookIDMUS) Unmarshal(bs []byte) (v BookID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return BookID(u), n, err
}

func (s bookIDMUS) Size(v BookID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s bookIDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type embeddingRecordMUS struct{}

func (s embeddingRecordMUS) Marshal(v EmbeddingRecord, bs []byte) (n int) {
	n = BookIDMUS.Marshal(v.BookId, bs)
	n += varint.Uint64.Marshal(uint64(len(v.Vector)), bs[n:])
	for _, f := range v.Vector {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (s embeddingRecordMUS) Unmarshal(bs []byte) (v EmbeddingRecord, n int, err error) {
	v.BookId, n, err = BookIDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	length, n1, err := varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	// Reject lengths the remaining bytes cannot hold before allocating.
	if length > uint64(len(bs)-n)/float32Size {
		err = ErrMalformedRecord
		return
	}
	v.Vector = make([]float32, length)
	for i := range v.Vector {
		var n2 int
		v.Vector[i], n2, err = raw.Float32.Unmarshal(bs[n:])
		n += n2
		if err != nil {
			return
		}
	}
	return
}

func (s embeddingRecordMUS) Size(v EmbeddingRecord) (size int) {
	size = BookIDMUS.Size(v.BookId)
	size += varint.Uint64.Size(uint64(len(v.Vector)))
	return size + len(v.Vector)*float32Size
}

func (s embeddingRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = BookIDMUS.Skip(bs)
	if err != nil {
		return
	}
	length, n1, err := varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length > uint64(len(bs)-n)/float32Size {
		err = ErrMalformedRecord
		return
	}
	n += int(length) * float32Size
	return
}
