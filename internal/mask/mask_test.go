package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	e := DefaultEllipse()
	const w, h = 1000, 1000

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"center", 500, 560, true},
		{"just inside right edge", 870, 560, true},
		{"just outside right edge", 890, 560, false},
		{"top-left corner", 0, 0, false},
		{"bottom-right corner", 999, 999, false},
		{"above bowl", 500, 100, false},
		{"inside upper bowl", 500, 200, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Contains(tt.x, tt.y, w, h))
		})
	}
}

func TestContainsScalesWithDimensions(t *testing.T) {
	e := DefaultEllipse()
	// The same fractional position is inside regardless of resolution.
	assert.True(t, e.Contains(50, 56, 100, 100))
	assert.True(t, e.Contains(320, 358, 640, 640))
	assert.False(t, e.Contains(5, 5, 100, 100))
	assert.False(t, e.Contains(32, 32, 640, 640))
}

func TestDegenerateRadii(t *testing.T) {
	e := Ellipse{CenterX: 0.5, CenterY: 0.5, RadiusX: 0, RadiusY: 0.4}
	assert.False(t, e.Contains(50, 50, 100, 100))
}
