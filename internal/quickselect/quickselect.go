// Package quickselect implements expected-linear partial selection.
//
// Sorting a million candidates to keep the best fifty is wasted work;
// selecting first and sorting only the survivors is not.
package quickselect

// Select partitions data so that its k smallest elements (according to less)
// occupy data[:k], in no particular order. The slice is modified in place.
// Expected linear time via median-of-three Hoare/Lomuto partitioning.
//
// k <= 0 and k >= len(data) are no-ops.
func Select[T any](data []T, k int, less func(a, b T) bool) {
	if k <= 0 || k >= len(data) {
		return
	}

	lo, hi := 0, len(data)-1
	for lo < hi {
		p := partition(data, lo, hi, less)

		switch {
		case p == k-1:
			return
		case p < k-1:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

// partition reorders data[lo:hi+1] around a median-of-three pivot and
// returns the pivot's final position.
func partition[T any](data []T, lo, hi int, less func(a, b T) bool) int {
	mid := lo + (hi-lo)/2

	if less(data[mid], data[lo]) {
		data[lo], data[mid] = data[mid], data[lo]
	}
	if less(data[hi], data[lo]) {
		data[lo], data[hi] = data[hi], data[lo]
	}
	if less(data[hi], data[mid]) {
		data[mid], data[hi] = data[hi], data[mid]
	}

	// Median now at mid; stash it at hi and sweep.
	data[mid], data[hi] = data[hi], data[mid]
	pivot := data[hi]

	i := lo
	for j := lo; j < hi; j++ {
		if less(data[j], pivot) {
			data[i], data[j] = data[j], data[i]
			i++
		}
	}

	data[i], data[hi] = data[hi], data[i]

	return i
}
