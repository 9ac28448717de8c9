package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Min returns the smallest of its arguments.
func Min[T constraints.Ordered](a T, rest ...T) T {
	for _, v := range rest {
		if v < a {
			a = v
		}
	}
	return a
}
