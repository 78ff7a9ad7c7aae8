package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", Memory)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetSet(t *testing.T) {
	s := openMemory(t)

	_, ok, err := s.Get("language")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("language", "fr"))
	v, ok, err := s.Get("language")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fr", v)

	require.NoError(t, s.Set("language", "en"))
	v, _, err = s.Get("language")
	require.NoError(t, err)
	assert.Equal(t, "en", v)
}

func TestSet_EmptyValueIsPresent(t *testing.T) {
	s := openMemory(t)
	require.NoError(t, s.Set("k", ""))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestDelete(t *testing.T) {
	s := openMemory(t)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Set(k, k))
	}

	require.NoError(t, s.Delete("a", "c", "missing"))
	keys, err := s.keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)

	require.NoError(t, s.Delete())
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "folio.db")

	s, err := Open("sqlite", path)
	require.NoError(t, err)
	require.NoError(t, s.Set("language", "fr"))
	require.NoError(t, s.Close())

	s, err = Open("sqlite", path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get("language")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fr", v)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("nope", Memory)
	require.Error(t, err)
}
