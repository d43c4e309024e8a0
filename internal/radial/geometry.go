// Package radial implements a polar layout engine for round displays.
//
// Angles are in degrees with 0° at the top of the display, increasing
// clockwise. A layout is a set of concentric rings, each holding elements
// placed by angle.
package radial

import "math"

// PositionOnRing converts a ring radius and angle to pixel coordinates.
func PositionOnRing(cx, cy, r int, deg float64) (x, y int) {
	theta := (deg - 90) * math.Pi / 180
	x = cx + int(math.Round(float64(r)*math.Cos(theta)))
	y = cy + int(math.Round(float64(r)*math.Sin(theta)))
	return x, y
}
