package qscore

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// roundDiv returns num/den rounded half away from zero. den must be positive.
func roundDiv(num, den int) int {
	if num >= 0 {
		return (2*num + den) / (2 * den)
	}
	return -((-2*num + den) / (2 * den))
}

// normalize turns a points tally into a 0-100 score.
func normalize(points, maxPoints int) int {
	if maxPoints <= 0 {
		return 0
	}
	return clamp(roundDiv(points*100, maxPoints), 0, 100)
}
