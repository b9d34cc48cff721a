package video

import (
	"fmt"
	"image"
)

//Image is a decoded, upright RGB frame. Pix holds 3 bytes per pixel in row-major order.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

//NewImage wraps given RGB buffer. The buffer length must be width*height*3.
func NewImage(width, height int, pix []uint8) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("NewImage: invalid dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*3 {
		return nil, fmt.Errorf("NewImage: expected %d bytes for %dx%d, got %d", width*height*3, width, height, len(pix))
	}
	return &Image{Width: width, Height: height, Pix: pix}, nil
}

//RGB returns the channels of the pixel at (x, y). Caller is responsible for bounds.
func (img *Image) RGB(x, y int) (r, g, b uint8) {
	i := (y*img.Width + x) * 3
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

//In reports whether (x, y) is inside the image
func (img *Image) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < img.Width && y < img.Height
}

//ToRGBA returns a fully opaque mutable copy of the image
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i, j := 0, 0; i < len(img.Pix); i, j = i+3, j+4 {
		out.Pix[j] = img.Pix[i]
		out.Pix[j+1] = img.Pix[i+1]
		out.Pix[j+2] = img.Pix[i+2]
		out.Pix[j+3] = 0xff
	}
	return out
}

//BoundingBox is a subject's box in image pixels
type BoundingBox struct {
	X      int
	Y      int
	Width  int
	Height int
}

//Rect converts the box to an image.Rectangle, [X, X+Width) x [Y, Y+Height)
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

//Center returns box center, rounded down like integer pixel centers are
func (b BoundingBox) Center() image.Point {
	return image.Pt((2*b.X+b.Width)>>1, (2*b.Y+b.Height)>>1)
}

//Subject is one segmented foreground region. Mask holds one confidence value per
//pixel of the bounding box, row-major, len(Mask) == Box.Width*Box.Height.
type Subject struct {
	ID   int
	Box  BoundingBox
	Mask []float32
}

//Confidence returns mask value at (x, y) relative to the box origin
func (s *Subject) Confidence(x, y int) float32 {
	return s.Mask[y*s.Box.Width+x]
}

//Validate makes sure mask size matches box size
func (s *Subject) Validate() error {
	if s.Box.Width < 0 || s.Box.Height < 0 {
		return fmt.Errorf("subject %d: negative box size %dx%d", s.ID, s.Box.Width, s.Box.Height)
	}
	if len(s.Mask) != s.Box.Width*s.Box.Height {
		return fmt.Errorf("subject %d: mask has %d values, box %dx%d needs %d", s.ID, len(s.Mask), s.Box.Width, s.Box.Height, s.Box.Width*s.Box.Height)
	}
	return nil
}

//Team is the classification outcome of a subject
type Team int

const (
	Unclassified Team = iota
	TeamA             //attacking (ball carrying) team
	TeamB             //opposing team
)

func (t Team) String() string {
	switch t {
	case TeamA:
		return "TeamA"
	case TeamB:
		return "TeamB"
	default:
		return "Unclassified"
	}
}

func (t Team) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

//ClassifiedSubject is a subject with its team label
type ClassifiedSubject struct {
	Subject
	Team Team
}

//Token is a locale independent feedback outcome
type Token int

const (
	NoPlayersFree Token = iota
	PassLeft
	PassRight
	PassForward
	PassSlightlyLeft
	PassSlightlyRight
)

//Tokens lists every defined token, used by localization tables checks
var Tokens = []Token{NoPlayersFree, PassLeft, PassRight, PassForward, PassSlightlyLeft, PassSlightlyRight}

func (t Token) String() string {
	switch t {
	case PassLeft:
		return "PassLeft"
	case PassRight:
		return "PassRight"
	case PassForward:
		return "PassForward"
	case PassSlightlyLeft:
		return "PassSlightlyLeft"
	case PassSlightlyRight:
		return "PassSlightlyRight"
	default:
		return "NoPlayersFree"
	}
}

func (t Token) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

//FeedbackResult is the outcome of one pipeline run
type FeedbackResult struct {
	RunID         string  `json:"runId"`
	Tokens        []Token `json:"feedbackTokens"`
	LocalizedText string  `json:"localizedText"`
	Locale        string  `json:"locale"`
	ArtifactPath  string  `json:"artifactPath"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	TeamACount    int     `json:"teamACount"`
	TeamBCount    int     `json:"teamBCount"`
	FreePlayers   []int   `json:"freePlayers"`
}
