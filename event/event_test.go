package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemaining(t *testing.T) {
	assert.Equal(t, int64(100), Remaining(100, 0))
	assert.Equal(t, int64(1), Remaining(100, 99))
	assert.Equal(t, int64(0), Remaining(100, 100))
}

func TestRemainingNeverNegative(t *testing.T) {
	assert.Equal(t, int64(0), Remaining(100, 150))
}
