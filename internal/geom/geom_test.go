package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestAngleTo(t *testing.T) {
	cases := []struct {
		name string
		a, b mgl64.Vec2
		want float64
	}{
		{"quarter left", mgl64.Vec2{1, 0}, mgl64.Vec2{0, 1}, math.Pi / 2},
		{"quarter right", mgl64.Vec2{1, 0}, mgl64.Vec2{0, -3}, -math.Pi / 2},
		{"same", mgl64.Vec2{2, 2}, mgl64.Vec2{1, 1}, 0},
		{"opposite", mgl64.Vec2{1, 0}, mgl64.Vec2{-1, 0}, math.Pi},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, AngleTo(tc.a, tc.b), 1e-9)
		})
	}
}

func TestRotateAbout(t *testing.T) {
	p := RotateAbout(mgl64.Vec2{2, 1}, mgl64.Vec2{1, 1}, math.Pi/2)
	assert.InDelta(t, 1, p.X(), 1e-9)
	assert.InDelta(t, 2, p.Y(), 1e-9)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, -math.Pi/2, NormalizeAngle(3*math.Pi/2), 1e-9)
	assert.InDelta(t, math.Pi/2, NormalizeAngle(-3*math.Pi/2), 1e-9)
	assert.InDelta(t, math.Pi, NormalizeAngle(math.Pi), 1e-9)
	assert.InDelta(t, 0.25, NormalizeAngle(0.25+4*math.Pi), 1e-9)
}

func TestDirectionFallback(t *testing.T) {
	fb := mgl64.Vec2{0, 1}
	assert.Equal(t, fb, Direction(mgl64.Vec2{3, 3}, mgl64.Vec2{3, 3}, fb))
	d := Direction(mgl64.Vec2{0, 0}, mgl64.Vec2{0, -10}, fb)
	assert.InDelta(t, -1, d.Y(), 1e-9)
}
