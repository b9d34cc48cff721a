package video

import (
	"fmt"
	"strings"
)

//Policy is the version of the direction resolver in use. A run uses exactly one of them.
type Policy int

const (
	//PolicyMulti lists the zone of every free player
	PolicyMulti Policy = iota
	//PolicyBest picks a single target, foot preference breaks distance ties
	PolicyBest
)

func (p Policy) String() string {
	if p == PolicyBest {
		return "best"
	}
	return "multi"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "multi":
		return PolicyMulti, nil
	case "best":
		return PolicyBest, nil
	}
	return 0, fmt.Errorf("ParsePolicy: unknown policy '%s'", s)
}

//Zone classifies a horizontal box center into one of the five pass zones.
//Boundaries are center +- width/8, exact center is forward.
func Zone(cx, width int) Token {
	centerX := width / 2
	eighth := width / 8

	switch {
	case cx < centerX-eighth:
		return PassLeft
	case cx > centerX+eighth:
		return PassRight
	case cx == centerX:
		return PassForward
	case cx < centerX:
		return PassSlightlyLeft
	default:
		return PassSlightlyRight
	}
}

//Resolver turns free players into feedback with one Policy
type Resolver struct {
	Policy Policy
}

//Resolve turns free players into feedback tokens. opposing is only looked at by PolicyBest,
//leftFoot only changes PolicyBest's tie-break.
func (r Resolver) Resolve(free, opposing []ClassifiedSubject, width int, leftFoot bool) []Token {
	if len(free) == 0 {
		return []Token{NoPlayersFree}
	}

	if r.Policy == PolicyBest {
		target, _ := BestTarget(free, opposing, width, leftFoot)
		return []Token{Zone(target.Box.Center().X, width)}
	}

	//one token per free player, same order, duplicates kept
	tokens := make([]Token, 0, len(free))
	for _, p := range free {
		tokens = append(tokens, Zone(p.Box.Center().X, width))
	}
	return tokens
}

//BestTarget selects the free player farthest from its nearest opposing box (center to center).
//Without opposing players it selects the one horizontally closest to the image center, vertical position is ignored.
//Equal distances go to the player on the preferred foot's side, then to the earlier player.
func BestTarget(free, opposing []ClassifiedSubject, width int, leftFoot bool) (ClassifiedSubject, bool) {
	if len(free) == 0 {
		return ClassifiedSubject{}, false
	}

	centerX := width / 2
	best := 0
	bestScore := score(free[0], opposing, centerX)

	for i := 1; i < len(free); i++ {
		s := score(free[i], opposing, centerX)
		if s > bestScore || (s == bestScore && footSide(free[i], free[best], leftFoot)) {
			best, bestScore = i, s
		}
	}

	return free[best], true
}

//score is larger for better targets. Squared integer distances keep ties exact.
func score(p ClassifiedSubject, opposing []ClassifiedSubject, centerX int) int {
	c := p.Box.Center()

	if len(opposing) == 0 {
		dx := c.X - centerX
		return -dx * dx
	}

	nearest := -1
	for _, o := range opposing {
		oc := o.Box.Center()
		dx, dy := c.X-oc.X, c.Y-oc.Y
		if d := dx*dx + dy*dy; nearest < 0 || d < nearest {
			nearest = d
		}
	}
	return nearest
}

//footSide returns true if candidate is strictly more on the preferred foot's side than current
func footSide(candidate, current ClassifiedSubject, leftFoot bool) bool {
	cx, bx := candidate.Box.Center().X, current.Box.Center().X
	if leftFoot {
		return cx < bx
	}
	return cx > bx
}
