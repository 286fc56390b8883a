package quickselect

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lessInt(a, b int) bool { return a < b }

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		data []int
		k    int
	}{
		{"Middle", []int{9, 1, 8, 2, 7, 3, 6, 4, 5}, 4},
		{"One", []int{5, 3, 9, 1}, 1},
		{"AlmostAll", []int{5, 3, 9, 1}, 3},
		{"Sorted", []int{1, 2, 3, 4, 5}, 2},
		{"Reversed", []int{5, 4, 3, 2, 1}, 2},
		{"Duplicates", []int{3, 1, 3, 1, 2, 2, 3, 1}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := append([]int(nil), tt.data...)
			sort.Ints(expected)
			expected = expected[:tt.k]

			got := append([]int(nil), tt.data...)
			Select(got, tt.k, lessInt)

			front := append([]int(nil), got[:tt.k]...)
			sort.Ints(front)
			assert.Equal(t, expected, front)

			// The rest must still be a permutation of the input.
			rest := append([]int(nil), got...)
			sort.Ints(rest)
			all := append([]int(nil), tt.data...)
			sort.Ints(all)
			assert.Equal(t, all, rest)
		})
	}
}

func TestSelectNoop(t *testing.T) {
	data := []int{3, 1, 2}

	Select(data, 0, lessInt)
	assert.Equal(t, []int{3, 1, 2}, data)

	Select(data, 3, lessInt)
	assert.Equal(t, []int{3, 1, 2}, data)

	Select(data, 10, lessInt)
	assert.Equal(t, []int{3, 1, 2}, data)

	Select(nil, 1, lessInt)
}

func TestSelectRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(200)
		k := 1 + rng.Intn(n)

		data := make([]int, n)
		for i := range data {
			data[i] = rng.Intn(50)
		}

		expected := append([]int(nil), data...)
		sort.Ints(expected)

		Select(data, k, lessInt)

		front := append([]int(nil), data[:k]...)
		sort.Ints(front)
		require.Equal(t, expected[:k], front, "n=%d k=%d", n, k)
	}
}
