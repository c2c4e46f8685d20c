package accumulate

import (
	"iter"
	"slices"

	"golang.org/x/exp/constraints"
)

// Addable is any type whose values can be combined with the + operator.
type Addable interface {
	constraints.Integer | constraints.Float | constraints.Complex | ~string
}

// Sum yields the running total of seq at each element.
func Sum[T Addable](seq iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		var total T

		for value := range seq {
			total += value

			if !yield(total) {
				return
			}
		}
	}
}

// Slice returns the prefix sums of values, same length and order.
func Slice[T Addable](values []T) []T {
	result := slices.Collect(Sum(slices.Values(values)))
	if result == nil {
		return []T{}
	}

	return result
}
