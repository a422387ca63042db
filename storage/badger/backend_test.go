package badger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "embeddings")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_PathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	backend, err := OpenBackend(file, false)
	require.Error(t, err)
	assert.Nil(t, backend)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestOpenBackend_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	backend, err := OpenBackend("", true, WithLogger(logger))
	require.NoError(t, err)
	defer backend.Close()

	assert.Same(t, logger, backend.logger)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestBackendWithTx(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	err = backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte("k"), []byte("v")); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	err = backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte("k"))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			assert.Equal(t, []byte("v"), val)
			return nil
		})
	}, false)
	require.NoError(t, err)
}

func TestBackendWithTx_UncommittedIsDiscarded(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	err = backend.WithTx(func(tx *badger.Txn) error {
		return tx.Set([]byte("k"), []byte("v"))
	}, true)
	require.NoError(t, err)

	err = backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte("k"))
		return err
	}, false)
	assert.ErrorIs(t, err, badger.ErrKeyNotFound)
}

func TestEmbeddingKeyOrdering(t *testing.T) {
	a := makeEmbeddingKey(2)
	b := makeEmbeddingKey(256)
	assert.Negative(t, bytes.Compare(a, b))

	id, ok := parseEmbeddingKey(b)
	require.True(t, ok)
	assert.EqualValues(t, 256, id)

	_, ok = parseEmbeddingKey([]byte("embrec:short"))
	assert.False(t, ok)
}
