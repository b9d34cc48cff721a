package imageio

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/chenBenjamin97/football-coach/pkg/video"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//writePNG writes a 4x2 opaque image, left half red and right half blue
func writePNG(t *testing.T, dir string) string {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= 2 {
				c = color.RGBA{B: 255, A: 255}
			}
			src.SetRGBA(x, y, c)
		}
	}

	path := filepath.Join(dir, "frame.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, src))
	return path
}

//writeJPEG writes a 64x32 black JPEG with a white top-left 32x16 quadrant. An orientation
//other than 0 is stored in an EXIF APP1 segment.
func writeJPEG(t *testing.T, dir string, orientation uint16) string {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			c := color.RGBA{A: 255}
			if x < 32 && y < 16 {
				c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			}
			src.SetRGBA(x, y, c)
		}
	}

	buf := &bytes.Buffer{}
	require.NoError(t, jpeg.Encode(buf, src, &jpeg.Options{Quality: 95}))
	data := buf.Bytes()

	if orientation != 0 {
		//little endian TIFF with a single IFD entry: Orientation (0x0112), SHORT, count 1
		tiff := []byte{'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00}
		ifd := make([]byte, 2+12+4)
		binary.LittleEndian.PutUint16(ifd[0:], 1)
		binary.LittleEndian.PutUint16(ifd[2:], 0x0112)
		binary.LittleEndian.PutUint16(ifd[4:], 3)
		binary.LittleEndian.PutUint32(ifd[6:], 1)
		binary.LittleEndian.PutUint16(ifd[10:], orientation)

		payload := append(append([]byte("Exif\x00\x00"), tiff...), ifd...)
		app1 := []byte{0xFF, 0xE1, 0, 0}
		binary.BigEndian.PutUint16(app1[2:], uint16(len(payload)+2))
		app1 = append(app1, payload...)

		//right after SOI
		data = append(append(append([]byte{}, data[:2]...), app1...), data[2:]...)
	}

	path := filepath.Join(dir, "frame.jpg")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func isWhite(img *video.Image, x, y int) bool {
	r, g, b := img.RGB(x, y)
	return r > 200 && g > 200 && b > 200
}

func isBlack(img *video.Image, x, y int) bool {
	r, g, b := img.RGB(x, y)
	return r < 50 && g < 50 && b < 50
}

func TestDecode_ExifOrientation(t *testing.T) {
	tests := []struct {
		name          string
		orientation   uint16
		width, height int
		white, black  image.Point
	}{
		{"no exif", 0, 64, 32, image.Pt(16, 8), image.Pt(48, 24)},
		{"upright", 1, 64, 32, image.Pt(16, 8), image.Pt(48, 24)},
		{"rotate 90", 6, 32, 64, image.Pt(24, 16), image.Pt(8, 48)},
		{"rotate 180", 3, 64, 32, image.Pt(48, 24), image.Pt(16, 8)},
		{"rotate 270", 8, 32, 64, image.Pt(8, 48), image.Pt(24, 16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.orientation != 0 {
				path := writeJPEG(t, t.TempDir(), tt.orientation)
				buf, err := os.ReadFile(path)
				require.NoError(t, err)
				degrees, err := exifRotation(buf)
				require.NoError(t, err)
				assert.Equal(t, RotationDegrees(int(tt.orientation)), degrees)
			}

			img, err := NewDecoder(0).Decode(writeJPEG(t, t.TempDir(), tt.orientation))
			require.NoError(t, err)
			assert.Equal(t, tt.width, img.Width)
			assert.Equal(t, tt.height, img.Height)
			assert.True(t, isWhite(img, tt.white.X, tt.white.Y), "quadrant expected at %v", tt.white)
			assert.True(t, isBlack(img, tt.black.X, tt.black.Y), "background expected at %v", tt.black)
		})
	}
}

func TestRotationDegrees(t *testing.T) {
	for orientation, want := range map[int]int{0: 0, 1: 0, 2: 0, 3: 180, 5: 0, 6: 90, 7: 0, 8: 270} {
		assert.Equal(t, want, RotationDegrees(orientation), "orientation %d", orientation)
	}
}

func TestDownsampleFactor(t *testing.T) {
	assert.Equal(t, 1, DownsampleFactor(4000, 3000, 0))
	assert.Equal(t, 1, DownsampleFactor(800, 600, 800))
	assert.Equal(t, 2, DownsampleFactor(801, 600, 800))
	assert.Equal(t, 3, DownsampleFactor(3000, 4000, 1600))
}

func TestDecode(t *testing.T) {
	path := writePNG(t, t.TempDir())

	img, err := NewDecoder(0).Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 2, img.Height)

	r, g, b := img.RGB(0, 1)
	assert.Equal(t, []uint8{255, 0, 0}, []uint8{r, g, b}, "channels are in RGB order")
	r, g, b = img.RGB(3, 0)
	assert.Equal(t, []uint8{0, 0, 255}, []uint8{r, g, b})
}

func TestDecode_Downsample(t *testing.T) {
	path := writePNG(t, t.TempDir())

	img, err := NewDecoder(2).Decode(path)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 1, img.Height)
}

func TestDecode_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewDecoder(0).Decode(filepath.Join(dir, "missing.jpg"))
	var decodeErr *video.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.True(t, os.IsNotExist(decodeErr.Err))

	garbage := filepath.Join(dir, "garbage.jpg")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not a jpeg"), 0644))
	_, err = NewDecoder(0).Decode(garbage)
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, garbage, decodeErr.Path)
}
