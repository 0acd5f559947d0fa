package internal

import (
	"maps"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := map[string]int{"a": 1}
	second := map[string]int{"b": 2, "c": 3}

	all := maps.Collect(IterSeq2Concat(maps.All(first), maps.All(second)))
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, all)

	count := 0
	for range IterSeq2Concat(maps.All(first), maps.All(second)) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)
}

func TestIterSeq2Map(t *testing.T) {
	assert := assert.New(t)

	seq := IterSeq2Map(slices.All([]int{5, 6}), strconv.Itoa)
	assert.Equal(map[int]string{0: "5", 1: "6"}, maps.Collect(seq))
}

func TestIterSeqKeyed(t *testing.T) {
	assert := assert.New(t)

	seq := IterSeqKeyed(slices.Values([]int{10, 20}), strconv.Itoa)
	assert.Equal(map[string]int{"10": 10, "20": 20}, maps.Collect(seq))
}
