package image

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	bg, err := Load(writePNG(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, 40, bg.Width())
	assert.Equal(t, 20, bg.Height())

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("world_map.PNG"))
	assert.True(t, IsSupportedFormat("/maps/world.tif"))
	assert.False(t, IsSupportedFormat("chinook.db"))
}

func TestCacheLogsFailureOnce(t *testing.T) {
	var logs bytes.Buffer
	c := NewCache(zerolog.New(&logs))
	missing := filepath.Join(t.TempDir(), "missing.png")

	assert.Nil(t, c.Get(missing))
	assert.Nil(t, c.Get(missing))
	assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("background image unavailable")))

	path := writePNG(t, 4, 4)
	first := c.Get(path)
	require.NotNil(t, first)
	require.NoError(t, os.Remove(path))
	assert.Same(t, first, c.Get(path))

	c.Forget(path)
	assert.Nil(t, c.Get(path))
}
