package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustParseUint(t *testing.T) {
	assert.Equal(t, uint(42), MustParseUint("42"))
	assert.Equal(t, uint(0), MustParseUint("not-a-number"))
	assert.Equal(t, uint(0), MustParseUint(""))
	assert.Equal(t, uint(0), MustParseUint("-5"))
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0, ClampPercent(-10))
	assert.Equal(t, 0, ClampPercent(0))
	assert.Equal(t, 67, ClampPercent(67))
	assert.Equal(t, 100, ClampPercent(100))
	assert.Equal(t, 100, ClampPercent(150))
}
