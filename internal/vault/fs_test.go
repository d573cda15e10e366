package vault

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVault(t *testing.T) (*FS, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	return NewFS(mem, "/library"), mem
}

func TestFSReadWrite(t *testing.T) {
	v, _ := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Write(ctx, "Books/collection.json", `{"fields":[]}`))

	content, err := v.Read(ctx, "Books/collection.json")
	require.NoError(t, err)
	assert.Equal(t, `{"fields":[]}`, content)
}

func TestFSReadMissing(t *testing.T) {
	v, _ := newTestVault(t)
	_, err := v.Read(context.Background(), "nope.json")
	assert.Error(t, err)
}

func TestFSExists(t *testing.T) {
	v, _ := newTestVault(t)
	ctx := context.Background()

	ok, err := v.Exists(ctx, "x.json")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, v.Write(ctx, "x.json", "{}"))
	ok, err = v.Exists(ctx, "x.json")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFSModTime(t *testing.T) {
	v, mem := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.Write(ctx, "x.json", "{}"))
	first, err := v.ModTime(ctx, "x.json")
	require.NoError(t, err)

	later := first.Add(2 * time.Second)
	require.NoError(t, mem.Chtimes("/library/x.json", later, later))

	second, err := v.ModTime(ctx, "x.json")
	require.NoError(t, err)
	assert.True(t, second.After(first))
}

func TestFSCreateFolder(t *testing.T) {
	v, mem := newTestVault(t)
	ctx := context.Background()

	require.NoError(t, v.CreateFolder(ctx, "Books/covers"))
	require.NoError(t, v.CreateFolder(ctx, "Books/covers")) // idempotent

	info, err := mem.Stat("/library/Books/covers")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFSHonorsContextCancellation(t *testing.T) {
	v, _ := newTestVault(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Read(ctx, "x.json")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, v.Write(ctx, "x.json", "{}"), context.Canceled)
}
