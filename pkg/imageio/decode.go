//Package imageio reads input frames and writes overlay artifacts using OpenCV
package imageio

import (
	"bytes"
	"errors"
	"image"
	"os"

	"github.com/chenBenjamin97/football-coach/pkg/video"
	"github.com/rs/zerolog/log"
	"github.com/rwcarlsen/goexif/exif"
	"gocv.io/x/gocv"
)

//Decoder decodes JPEG/PNG files into upright RGB images
type Decoder struct {
	//MaxDimension bounds both image dimensions by integer downsampling, 0 disables it
	MaxDimension int
}

func NewDecoder(maxDimension int) *Decoder {
	return &Decoder{MaxDimension: maxDimension}
}

//Decode reads the file at path, rotates it upright according to its EXIF orientation and downsamples it if needed.
//Missing or unreadable EXIF data means no rotation.
func (d *Decoder) Decode(path string) (*video.Image, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &video.DecodeError{Path: path, Err: err}
	}

	//orientation is handled below, OpenCV must not apply it a second time
	mat, err := gocv.IMDecode(buf, gocv.IMReadColor|gocv.IMReadIgnoreOrientation)
	if err != nil {
		return nil, &video.DecodeError{Path: path, Err: err}
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, &video.DecodeError{Path: path, Err: errors.New("unsupported image format")}
	}

	degrees, err := exifRotation(buf)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("No usable EXIF orientation, assuming upright")
	}

	upright := rotate(mat, degrees)
	defer upright.Close()

	factor := DownsampleFactor(upright.Cols(), upright.Rows(), d.MaxDimension)
	small := downsample(upright, factor)
	defer small.Close()

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(small, &rgb, gocv.ColorBGRToRGB)

	img, err := video.NewImage(rgb.Cols(), rgb.Rows(), rgb.ToBytes())
	if err != nil {
		return nil, &video.DecodeError{Path: path, Err: err}
	}

	log.Debug().
		Str("path", path).
		Int("rotation", degrees).
		Int("downsample", factor).
		Int("width", img.Width).
		Int("height", img.Height).
		Msg("Image decoded")

	return img, nil
}

//exifRotation returns the clockwise rotation (0/90/180/270) needed to make the image upright
func exifRotation(buf []byte) (int, error) {
	x, err := exif.Decode(bytes.NewReader(buf))
	if err != nil {
		return 0, err
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0, err
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 0, err
	}

	return RotationDegrees(orientation), nil
}

//RotationDegrees maps an EXIF orientation value to clockwise rotation degrees.
//Mirrored orientations are not rotations and map to 0.
func RotationDegrees(orientation int) int {
	switch orientation {
	case 6:
		return 90
	case 3:
		return 180
	case 8:
		return 270
	default:
		return 0
	}
}

//DownsampleFactor returns the smallest integer factor making both dimensions <= maxDimension
func DownsampleFactor(width, height, maxDimension int) int {
	if maxDimension <= 0 {
		return 1
	}

	longest := width
	if height > longest {
		longest = height
	}

	factor := (longest + maxDimension - 1) / maxDimension
	if factor < 1 {
		factor = 1
	}
	return factor
}

//rotate returns a new Mat rotated clockwise by given degrees, caller has to close it
func rotate(src gocv.Mat, degrees int) gocv.Mat {
	dst := gocv.NewMat()

	switch degrees {
	case 90:
		gocv.Rotate(src, &dst, gocv.Rotate90Clockwise)
	case 180:
		gocv.Rotate(src, &dst, gocv.Rotate180Clockwise)
	case 270:
		gocv.Rotate(src, &dst, gocv.Rotate90CounterClockwise)
	default:
		src.CopyTo(&dst)
	}

	return dst
}

//downsample returns a new Mat shrunk by given integer factor, caller has to close it
func downsample(src gocv.Mat, factor int) gocv.Mat {
	dst := gocv.NewMat()
	if factor <= 1 {
		src.CopyTo(&dst)
		return dst
	}

	size := image.Pt(max(1, src.Cols()/factor), max(1, src.Rows()/factor))
	gocv.Resize(src, &dst, size, 0, 0, gocv.InterpolationArea)
	return dst
}
