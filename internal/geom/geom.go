// Package geom provides the planar geometry the planners need on top of mgl64:
// signed angles, rotations and axis helpers. Angles are radians, counter-clockwise
// positive, measured from +X.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AngleTo returns the signed angle that rotates a onto b, in (-π, π].
func AngleTo(a, b mgl64.Vec2) float64 {
	return math.Atan2(a.X()*b.Y()-a.Y()*b.X(), a.Dot(b))
}

// Angle returns the heading of v.
func Angle(v mgl64.Vec2) float64 { return math.Atan2(v.Y(), v.X()) }

// Unit returns the unit vector with the given heading.
func Unit(angle float64) mgl64.Vec2 {
	s, c := math.Sincos(angle)
	return mgl64.Vec2{c, s}
}

// Rotate rotates v counter-clockwise by angle.
func Rotate(v mgl64.Vec2, angle float64) mgl64.Vec2 {
	s, c := math.Sincos(angle)
	return mgl64.Vec2{c*v.X() - s*v.Y(), s*v.X() + c*v.Y()}
}

// RotateAbout rotates p counter-clockwise by angle around center.
func RotateAbout(p, center mgl64.Vec2, angle float64) mgl64.Vec2 {
	return center.Add(Rotate(p.Sub(center), angle))
}

// Perp returns v rotated a quarter turn counter-clockwise (its left normal).
func Perp(v mgl64.Vec2) mgl64.Vec2 { return mgl64.Vec2{-v.Y(), v.X()} }

// NormalizeAngle wraps a into (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Direction returns the unit vector from a to b, or fallback when they coincide.
func Direction(a, b, fallback mgl64.Vec2) mgl64.Vec2 {
	d := b.Sub(a)
	if l := d.Len(); l > 1e-9 {
		return d.Mul(1 / l)
	}
	return fallback
}

// Flatten drops the Z component.
func Flatten(v mgl64.Vec3) mgl64.Vec2 { return mgl64.Vec2{v.X(), v.Y()} }

// Lift adds a Z component.
func Lift(v mgl64.Vec2, z float64) mgl64.Vec3 { return mgl64.Vec3{v.X(), v.Y(), z} }

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, x)) }

// Sign returns -1 for negative x and 1 otherwise.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
