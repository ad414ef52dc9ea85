package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/inkspire/inkspire-client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the contract every driver must meet
func exerciseStore(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, KeyToken, "abc"))
	require.NoError(t, s.Set(ctx, KeyUser, `{"id":1}`))

	value, ok, err := s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	require.NoError(t, s.Remove(ctx, KeyToken, KeyUser))

	_, ok, err = s.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeyToken, "persisted"))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	value, ok, err := second.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", value)

	info, err := os.Stat(second.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("{not json"), 0o600))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	_, ok, err := s.Get(context.Background(), KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(context.Background(), KeyToken, "fresh"))
}

func TestNew_SelectsDriver(t *testing.T) {
	ctx := context.Background()

	mem, err := New(ctx, config.StorageConfig{Driver: config.StorageDriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, mem)

	file, err := New(ctx, config.StorageConfig{Driver: config.StorageDriverFile, StateDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, file)

	_, err = New(ctx, config.StorageConfig{Driver: "etcd"})
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("INKSPIRE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("INKSPIRE_TEST_REDIS_URL not set")
	}

	s, err := NewRedisStore(context.Background(), url, "test")
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}
