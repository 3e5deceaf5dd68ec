package util

import "cmp"

// Number is any integer or floating point type.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// Present returns the values behind the non-nil pointers of ps, in order.
func Present[T any](ps []*T) []T {
	out := make([]T, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// Map applies fn to every element of s.
func Map[T, U any](s []T, fn func(T) U) []U {
	out := make([]U, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Flatten concatenates the inner slices of s.
func Flatten[T any](s [][]T) []T {
	var n int
	for _, inner := range s {
		n += len(inner)
	}
	out := make([]T, 0, n)
	for _, inner := range s {
		out = append(out, inner...)
	}
	return out
}

// Sum adds up s.
func Sum[T Number](s []T) T {
	var total T
	for _, v := range s {
		total += v
	}
	return total
}

// Mean is the arithmetic mean of s, or 0 for an empty s.
func Mean[T Number](s []T) float64 {
	if len(s) == 0 {
		return 0
	}
	return float64(Sum(s)) / float64(len(s))
}

// Max returns the largest element of s; ok is false when s is empty.
func Max[T cmp.Ordered](s []T) (T, bool) {
	var m T
	for i, v := range s {
		if i == 0 || v > m {
			m = v
		}
	}
	return m, len(s) > 0
}

// Unique drops repeated elements, keeping the first occurrence.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]bool, len(s))
	out := make([]T, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Coalesce returns the first of values that is not the zero value.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
