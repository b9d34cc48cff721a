package video

import "testing"

//solidImage returns a width x height image filled with one color
func solidImage(t *testing.T, width, height int, r, g, b uint8) *Image {
	t.Helper()
	pix := make([]uint8, width*height*3)
	for i := 0; i < len(pix); i += 3 {
		pix[i], pix[i+1], pix[i+2] = r, g, b
	}
	img, err := NewImage(width, height, pix)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	return img
}

func setPixel(img *Image, x, y int, r, g, b uint8) {
	i := (y*img.Width + x) * 3
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
}

//fullMask returns a subject whose whole box has given confidence
func fullMask(id int, box BoundingBox, confidence float32) Subject {
	mask := make([]float32, box.Width*box.Height)
	for i := range mask {
		mask[i] = confidence
	}
	return Subject{ID: id, Box: box, Mask: mask}
}

func classified(id int, box BoundingBox, team Team) ClassifiedSubject {
	return ClassifiedSubject{Subject: fullMask(id, box, 1), Team: team}
}
