package video

import (
	"image"
	"image/color"

	"github.com/chenBenjamin97/football-coach/pkg/utils"
)

//Palette holds the overlay color of each team. Alpha of given colors is ignored, utils.OverlayAlpha is used.
type Palette struct {
	Attacking color.RGBA
	Opposing  color.RGBA
}

var DefaultPalette = Palette{
	Attacking: color.RGBA{255, 0, 0, utils.OverlayAlpha},
	Opposing:  color.RGBA{0, 0, 255, utils.OverlayAlpha},
}

func (p Palette) colorOf(t Team) (color.RGBA, bool) {
	switch t {
	case TeamA:
		return p.Attacking, true
	case TeamB:
		return p.Opposing, true
	}
	return color.RGBA{}, false
}

//Render returns a copy of img with every classified subject's confident mask pixels painted
//in its team color. Unclassified subjects and low-confidence pixels inside boxes are left untouched.
func Render(img *Image, subjects []ClassifiedSubject, palette Palette) *image.RGBA {
	frame := img.ToRGBA()

	for i := range subjects {
		plotSubjectOnFrame(frame, &subjects[i], palette)
	}

	return frame
}

//plotSubjectOnFrame paints subject's mask point by point
func plotSubjectOnFrame(frame *image.RGBA, s *ClassifiedSubject, palette Palette) {
	plotColor, ok := palette.colorOf(s.Team)
	if !ok {
		return
	}

	bounds := frame.Bounds()
	for y := 0; y < s.Box.Height; y++ {
		for x := 0; x < s.Box.Width; x++ {
			if s.Confidence(x, y) <= utils.MaskConfidenceThreshold {
				continue
			}

			pt := image.Pt(s.Box.X+x, s.Box.Y+y)
			if !pt.In(bounds) {
				continue
			}

			i := frame.PixOffset(pt.X, pt.Y)
			frame.Pix[i] = blend(plotColor.R, frame.Pix[i])
			frame.Pix[i+1] = blend(plotColor.G, frame.Pix[i+1])
			frame.Pix[i+2] = blend(plotColor.B, frame.Pix[i+2])
			//destination stays opaque
		}
	}
}

//blend composites src over dst with utils.OverlayAlpha
func blend(src, dst uint8) uint8 {
	const a = utils.OverlayAlpha
	return uint8((int(src)*a + int(dst)*(255-a) + 127) / 255)
}
