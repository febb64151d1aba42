package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()
	require.Equal(t, tmpDir, store.Root())

	name := "Gaia2Bin/sortedBin/z451"
	data := []byte("header and records for zone 451")

	require.NoError(t, store.Put(ctx, name, data))

	_, err := os.Stat(filepath.Join(tmpDir, "Gaia2Bin", "sortedBin", "z451"))
	require.NoError(t, err)

	blob, err := store.Open(ctx, name)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 7)
	n, err := blob.ReadAt(ctx, buf, 11)
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.Equal(t, "records", string(buf))

	m, ok := blob.(Mappable)
	require.True(t, ok)
	b, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, b)

	adv, ok := blob.(SequentialAdvisor)
	require.True(t, ok)
	assert.NoError(t, adv.AdviseSequential(0, int64(len(data))))

	rc, err := blob.ReadRange(ctx, 11, 7)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "records", string(content))

	require.NoError(t, store.Put(ctx, "Gaia2Mass/IDgaiaSort", []byte("x")))
	names, err := store.List(ctx, "Gaia2Bin/")
	require.NoError(t, err)
	assert.Equal(t, []string{name}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{name, "Gaia2Mass/IDgaiaSort"}, all)

	require.NoError(t, store.Delete(ctx, name))
	require.NoError(t, store.Delete(ctx, name))

	_, err = store.Open(ctx, name)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_ReadRange_Boundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "boundary.bin", []byte("0123456789")))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	r, err := blob.ReadRange(ctx, 8, 5)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "89", string(content))

	_, err = blob.ReadRange(ctx, 20, 5)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFull(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "id1", []byte("0123456789")))

	blob, err := store.Open(ctx, "id1")
	require.NoError(t, err)

	buf := make([]byte, 4)
	require.NoError(t, ReadFull(ctx, blob, buf, 2))
	assert.Equal(t, "2345", string(buf))

	err = ReadFull(ctx, blob, buf, 8)
	assert.ErrorIs(t, err, ErrShortRead)

	err = ReadFull(ctx, blob, buf, 100)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	src := []byte("abc")
	require.NoError(t, store.Put(ctx, "Gaia2Mass/IDhatSort", src))
	src[0] = 'z'

	blob, err := store.Open(ctx, "Gaia2Mass/IDhatSort")
	require.NoError(t, err)
	buf := make([]byte, 3)
	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf))

	_, isMappable := blob.(Mappable)
	assert.False(t, isMappable)

	names, err := store.List(ctx, "Gaia2Mass/")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gaia2Mass/IDhatSort"}, names)

	require.NoError(t, store.Delete(ctx, "Gaia2Mass/IDhatSort"))
	_, err = store.Open(ctx, "Gaia2Mass/IDhatSort")
	assert.ErrorIs(t, err, ErrNotFound)
}
