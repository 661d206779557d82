package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.Get("carrinho")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("carrinho", `[{"productId":"p1"}]`))
	v, ok, err := s.Get("carrinho")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"productId":"p1"}]`, v)

	require.NoError(t, s.Set("carrinho", ""))
	v, ok, err = s.Get("carrinho")
	require.NoError(t, err)
	assert.True(t, ok, "empty value still exists")
	assert.Empty(t, v)

	require.NoError(t, s.Remove("carrinho"))
	require.NoError(t, s.Remove("carrinho"))
	_, ok, err = s.Get("carrinho")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestDir(t *testing.T) {
	exercise(t, mustDir(t, t.TempDir()))
}

func TestDir_SharedBetweenInstances(t *testing.T) {
	root := t.TempDir()
	a := mustDir(t, root)
	b := mustDir(t, root)

	require.NoError(t, a.Set("tenant_data_changed", "x"))
	v, ok, err := b.Get("tenant_data_changed")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestDir_RejectsPathKeys(t *testing.T) {
	d := mustDir(t, t.TempDir())
	for _, key := range []string{"", "../escape", "a/b", "with space"} {
		assert.Error(t, d.Set(key, "v"), key)
		_, _, err := d.Get(key)
		assert.Error(t, err, key)
	}
}

func TestNewDir_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "state")
	_, err := NewDir(root)
	require.NoError(t, err)
	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func mustDir(t *testing.T, root string) *Dir {
	t.Helper()
	d, err := NewDir(root)
	require.NoError(t, err)
	return d
}
