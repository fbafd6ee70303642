// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"github.com/chewxy/math32"
)

const (
	Pi = math32.Pi
)

// Lerp returns a + (b-a)*frac
func Lerp(a, b, frac float32) float32 {
	return a + (b-a)*frac
}

// DegToRad converts degrees to radians
func DegToRad(d float32) float32 {
	return d * (Pi / 180)
}

func Abs(x float32) float32 {
	return math32.Abs(x)
}

func Cos(x float32) float32 {
	return math32.Cos(x)
}
