package video

//Intersects returns true if both boxes overlap on both axises. Touching edges are not an intersection.
func Intersects(a, b BoundingBox) bool {
	return a.Rect().Overlaps(b.Rect())
}

//SplitTeams partitions classified subjects by label, dropping unclassified ones
func SplitTeams(subjects []ClassifiedSubject) (attacking, opposing []ClassifiedSubject) {
	attacking = make([]ClassifiedSubject, 0)
	opposing = make([]ClassifiedSubject, 0)

	for _, s := range subjects {
		switch s.Team {
		case TeamA:
			attacking = append(attacking, s)
		case TeamB:
			opposing = append(opposing, s)
		}
	}

	return attacking, opposing
}

//IsCovered returns true if given subject's box intersects any of the opposing boxes
func IsCovered(s ClassifiedSubject, opposing []ClassifiedSubject) bool {
	for _, o := range opposing {
		if Intersects(s.Box, o.Box) {
			return true
		}
	}
	return false
}

//FreePlayers returns attacking team subjects not covered by any opposing subject, in their original order
func FreePlayers(subjects []ClassifiedSubject) []ClassifiedSubject {
	attacking, opposing := SplitTeams(subjects)

	free := make([]ClassifiedSubject, 0, len(attacking))
	for _, a := range attacking {
		if !IsCovered(a, opposing) {
			free = append(free, a)
		}
	}

	return free
}
