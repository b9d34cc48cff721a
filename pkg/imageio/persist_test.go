package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chenBenjamin97/football-coach/pkg/video"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactName(t *testing.T) {
	id := uuid.MustParse("0a1b2c3d-0000-4000-8000-000000000000")
	name := ArtifactName(time.UnixMilli(1700000000123), id)
	assert.Equal(t, "processed_image_1700000000123_0a1b2c3d.png", name)
}

func TestPersist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ProcessedImages")
	p := NewPersister(dir)
	p.now = func() time.Time { return time.UnixMilli(42) }

	frame := image.NewRGBA(image.Rect(0, 0, 3, 2))
	frame.SetRGBA(1, 1, color.RGBA{R: 232, G: 10, B: 20, A: 255})

	path, err := p.Persist(frame)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "processed_image_42_"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	written, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), written.Bounds())

	r, g, b, a := written.At(1, 1).RGBA()
	assert.Equal(t, []uint32{232, 10, 20, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})

	second, err := p.Persist(frame)
	require.NoError(t, err)
	assert.NotEqual(t, path, second, "runs in the same millisecond never overwrite each other")
}

func TestPersist_Unwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := NewPersister(filepath.Join(blocker, "out")).Persist(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	var persistErr *video.PersistError
	assert.ErrorAs(t, err, &persistErr)
}
