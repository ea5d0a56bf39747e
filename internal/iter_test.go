package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"A": 1}
	b := map[string]int{"B": 2}

	got := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"A": 1, "B": 2}, got)

	var count int
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterSeq2Sorted(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"SIG_HALT": 0xf0, "SIG_DUMP": 0xf3}
	b := map[string]int{"SIG_HALT": 0xf1}

	var keys []string
	var values []int
	for k, v := range IterSeq2Sorted(IterSeq2Concat(maps.All(a), maps.All(b))) {
		keys = append(keys, k)
		values = append(values, v)
	}

	assert.Equal([]string{"SIG_DUMP", "SIG_HALT"}, keys)
	assert.Equal([]int{0xf3, 0xf1}, values)
	assert.True(slices.IsSorted(keys))
}
