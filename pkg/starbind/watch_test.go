package starbind

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.star")
	require.NoError(t, os.WriteFile(path, []byte(`photo = {"PhotoID": 42}`), 0o644))

	script, err := Load(path)
	require.NoError(t, err)

	reloaded := make(chan error, 1)
	w, err := script.Watch(func(err error) { reloaded <- err })
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, os.WriteFile(path, []byte(`photo = {"PhotoID": 99}`), 0o644))

	select {
	case err := <-reloaded:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback was not invoked")
	}

	obj, err := script.Resolve("photo")
	require.NoError(t, err)
	id, err := forward.ReadAs[int64](context.Background(), obj, "PhotoID")
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)
}

func TestWatch_ReloadErrorSurfaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.star")
	require.NoError(t, os.WriteFile(path, []byte(`photo = {"PhotoID": 42}`), 0o644))

	script, err := Load(path)
	require.NoError(t, err)

	reloaded := make(chan error, 1)
	w, err := script.Watch(func(err error) { reloaded <- err })
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, os.WriteFile(path, []byte(`photo = (((`), 0o644))

	select {
	case err := <-reloaded:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback was not invoked")
	}

	// Globals from the last good load stay resolvable.
	obj, err := script.Resolve("photo")
	require.NoError(t, err)
	id, err := forward.ReadAs[int64](context.Background(), obj, "PhotoID")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestWatch_RequiresFileBackedScript(t *testing.T) {
	script, err := LoadSource("inline", `photo = {"PhotoID": 42}`)
	require.NoError(t, err)

	_, err = script.Watch(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not file-backed")
}
