package utils

import "golang.org/x/exp/constraints"

// Clamp limits t to the closed range between min and max. The bounds may be given in either order.
func Clamp[T constraints.Integer | constraints.Float](t, min, max T) T {
	if min > max {
		min, max = max, min
	}
	if t < min {
		return min
	}
	if t > max {
		return max
	}
	return t
}
