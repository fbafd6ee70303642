// SPDX-License-Identifier: GPL-2.0-or-later

// Package collision sweeps boxes and lines through the brushes of a level.
package collision

import (
	"bspworld/math/vec"
)

type Trace struct {
	AllSolid   bool // the whole sweep was inside a brush
	StartSolid bool // the start position was inside a brush
	Fraction   float32
	EndPos     vec.Vec3
	Plane      int // index of the hit plane, -1 if nothing was hit
	Normal     vec.Vec3
	Contents   uint32 // contents of the hit brush
}

// Hit reports whether something blocked the sweep before its end.
func (t *Trace) Hit() bool {
	return t.Fraction < 1
}
