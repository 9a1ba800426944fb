package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentsToDecimal(t *testing.T) {
	assert.Equal(t, "20", CentsToDecimal(2000).String())
	assert.Equal(t, "19.99", CentsToDecimal(1999).String())
	assert.Equal(t, "0", CentsToDecimal(0).String())
	assert.Equal(t, "0.05", CentsToDecimal(5).String())
}
