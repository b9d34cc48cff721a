package video

import (
	"fmt"
	"strings"

	"github.com/chenBenjamin97/football-coach/pkg/utils"
)

//Channel is one of the RGB channels a team's jersey is expected to be dominant in
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

//ParseChannel parses "red", "green" or "blue" (case insensitive)
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	case "blue":
		return Blue, nil
	}
	return 0, fmt.Errorf("ParseChannel: unknown channel '%s'", s)
}

//dominant returns true if channel c is strictly larger than both other channels
func (c Channel) dominant(r, g, b uint8) bool {
	switch c {
	case Red:
		return r > g && r > b
	case Green:
		return g > r && g > b
	case Blue:
		return b > r && b > g
	}
	return false
}

//TeamColors holds the dominant channel of each team's uniform
type TeamColors struct {
	Attacking Channel
	Opposing  Channel
}

func (tc TeamColors) Validate() error {
	if tc.Attacking == tc.Opposing {
		return fmt.Errorf("TeamColors: both teams use %s", tc.Attacking)
	}
	return nil
}

//Classifier labels subjects by the dominant color under their mask
type Classifier struct {
	Colors TeamColors
}

func NewClassifier(colors TeamColors) (*Classifier, error) {
	if err := colors.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{Colors: colors}, nil
}

//Count returns how many confident mask pixels are dominant in the attacking and the opposing channel.
//Pixels with no strictly dominant configured channel count for nothing. Mask pixels falling outside the image are skipped.
func (c *Classifier) Count(img *Image, s *Subject) (attacking, opposing int) {
	for y := 0; y < s.Box.Height; y++ {
		for x := 0; x < s.Box.Width; x++ {
			if s.Confidence(x, y) <= utils.MaskConfidenceThreshold {
				continue
			}

			px, py := s.Box.X+x, s.Box.Y+y
			if !img.In(px, py) {
				continue
			}

			r, g, b := img.RGB(px, py)
			if c.Colors.Attacking.dominant(r, g, b) {
				attacking++
			}
			if c.Colors.Opposing.dominant(r, g, b) {
				opposing++
			}
		}
	}

	return attacking, opposing
}

//Label picks the team with strictly more pixels, equal counts are Unclassified
func Label(attacking, opposing int) Team {
	if attacking > opposing {
		return TeamA
	}
	if opposing > attacking {
		return TeamB
	}
	return Unclassified
}

func (c *Classifier) Classify(img *Image, s Subject) ClassifiedSubject {
	a, o := c.Count(img, &s)
	return ClassifiedSubject{Subject: s, Team: Label(a, o)}
}

//ClassifyAll classifies every subject, keeping segmentation order
func (c *Classifier) ClassifyAll(img *Image, subjects []Subject) []ClassifiedSubject {
	res := make([]ClassifiedSubject, 0, len(subjects))
	for _, s := range subjects {
		res = append(res, c.Classify(img, s))
	}
	return res
}
