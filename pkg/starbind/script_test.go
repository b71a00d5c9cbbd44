package starbind

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

const gallerySource = `
photo = {"PhotoID": 42, "Title": "sunset"}

albums = ["travel", "family"]

def describe(title, rating):
    return title + " (" + str(rating) + ")"

def make_photo(id):
    return {"PhotoID": id}

api = {
    "describe": describe,
    "make_photo": make_photo,
    "version": 3,
}
`

func loadGallery(t *testing.T) *Script {
	t.Helper()
	script, err := LoadSource("gallery.star", gallerySource)
	require.NoError(t, err)
	return script
}

func TestLoadSource(t *testing.T) {
	script := loadGallery(t)
	assert.Equal(t, "gallery.star", script.Name())
	assert.Equal(t, []string{"albums", "api", "describe", "make_photo", "photo"}, script.Globals())
}

func TestLoadSource_SyntaxError(t *testing.T) {
	_, err := LoadSource("bad.star", "def broken(:\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.star")
}

func TestScript_Resolve(t *testing.T) {
	script := loadGallery(t)

	t.Run("existing global", func(t *testing.T) {
		obj, err := script.Resolve("photo")
		require.NoError(t, err)
		assert.Equal(t, "script object", obj.Kind())
	})

	t.Run("missing global fails with MemberNotFound", func(t *testing.T) {
		_, err := script.Resolve("nonexistent")
		require.Error(t, err)
		assert.True(t, forward.IsMemberNotFound(err))
		assert.Contains(t, err.Error(), "photo")
	})
}

func TestScript_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gallery.star")
	require.NoError(t, os.WriteFile(path, []byte(gallerySource), 0o644))

	script, err := Load(path)
	require.NoError(t, err)

	obj, err := script.Resolve("photo")
	require.NoError(t, err)

	id, err := forward.ReadAs[int](context.Background(), obj, "PhotoID")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestScript_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.star")
	require.NoError(t, os.WriteFile(path, []byte("count = 1\n"), 0o644))

	script, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("count = 2\ncolor = \"red\"\n"), 0o644))
	require.NoError(t, script.Reload())

	assert.Equal(t, []string{"color", "count"}, script.Globals())
}

func TestScript_ReloadWithoutFile(t *testing.T) {
	script := loadGallery(t)
	err := script.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not file-backed")
}

func TestScript_PrintRoutesToScriptLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	source := `
def announce(title):
    print("announcing " + title)
    return title

api = {"announce": announce}

print("gallery loaded")
`
	script, err := LoadSource("gallery.star", source, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "gallery loaded")

	api, err := script.Resolve("api")
	require.NoError(t, err)
	_, err = api.InvokeValue(context.Background(), "announce", "sunset")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "announcing sunset")
}
