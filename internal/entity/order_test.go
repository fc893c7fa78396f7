package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxesNeeded(t *testing.T) {
	cases := map[int]int{1: 1, 24: 1, 25: 1, 26: 2, 50: 2, 51: 3, 499: 20, 500: 20}
	for howMany, want := range cases {
		assert.Equal(t, want, BoxesNeeded(howMany), "how many %d", howMany)
	}
}

func TestOrderIsOverdue(t *testing.T) {
	o := &Order{ReturnOn: MustParseDate("2024-03-10")}

	assert.False(t, o.IsOverdue(MustParseDate("2024-03-09")))
	assert.False(t, o.IsOverdue(MustParseDate("2024-03-10")))
	assert.True(t, o.IsOverdue(MustParseDate("2024-03-11")))
}
