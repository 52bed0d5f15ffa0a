package entity

import "math"

// LevelThresholds holds the minimum xp for levels 2, 3, 4...
// Level 1 starts at 0.
var LevelThresholds = []int{100, 300, 600}

// MaxScore bounds a single submission.
const MaxScore = 1_000_000

// LevelForXP maps accumulated xp to a level. It is a non-decreasing step function.
func LevelForXP(xp int) int {
	level := 1
	for _, t := range LevelThresholds {
		if xp < t {
			break
		}
		level++
	}
	return level
}

// NextLevelXP returns the xp needed for the next level, or false at the top level.
func NextLevelXP(xp int) (int, bool) {
	for _, t := range LevelThresholds {
		if xp < t {
			return t, true
		}
	}
	return 0, false
}

// CoerceScore turns an arbitrary decoded JSON value into a safe xp delta.
// Anything that is not a finite number counts as 0; fractions are floored.
func CoerceScore(v any) int {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= MaxScore {
		return MaxScore
	}
	return int(math.Floor(f))
}
