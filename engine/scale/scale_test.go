package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToUnitClamp(t *testing.T) {
	t.Parallel()

	f := ToUnitClamp(20, 420)
	assert.Equal(t, 0.0, f(20))
	assert.Equal(t, 0.25, f(120))
	assert.Equal(t, 1.0, f(420))
	assert.Equal(t, 0.0, f(-5))
	assert.Equal(t, 1.0, f(1000))
}

func TestClampDegenerateRange(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3.0, Clamp(5, 5, 3, 9)(7))
}
