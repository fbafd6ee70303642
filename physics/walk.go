// SPDX-License-Identifier: GPL-2.0-or-later

package physics

import (
	"bspworld/collision"
	"bspworld/math/vec"
)

// Body is a box moved by WalkMove.
type Body struct {
	Origin   vec.Vec3 // center of the box
	Velocity vec.Vec3
	Extents  vec.Vec3 // half size
	Grounded bool
}

// groundSpeed is the downward speed kept while standing so the next move
// still touches the ground.
const groundSpeed = 1

// WalkMove advances b by dt. wish is the wanted horizontal velocity, its z is
// ignored. Grounded bodies climb steps up to StepHeight and follow the ground
// down the same amount. Airborne bodies fall with Gravity.
func (m *Mover) WalkMove(b *Body, wish vec.Vec3, dt float32) {
	minZ := m.Config.minNormalZ()
	ext := b.Extents
	pos := b.Origin
	prevZ := b.Velocity[2]

	xy := vec.Vec3{wish[0], wish[1], 0}
	if b.Grounded && xy != (vec.Vec3{}) {
		pos, xy = m.stepMove(pos, xy, dt, ext, minZ)
	} else {
		pos, xy, _ = m.slide(pos, xy, dt, ext)
	}

	z := vec.Vec3{0, 0, b.Velocity[2]}
	var t collision.Trace
	if b.Grounded {
		t = m.Sweep(pos, vec.Scale(dt, z), ext)
		if !t.AllSolid {
			pos = t.EndPos
		}
	} else {
		pos, z, t = m.slide(pos, z, dt, ext)
	}

	switch {
	case t.Hit() && prevZ < 0:
		b.Grounded = t.Normal[2] >= minZ
	case t.Hit() && prevZ > 0:
		// head hit the ceiling
		z[2] = 0
		b.Grounded = false
	default:
		b.Grounded = false
	}

	v := vec.Add(xy, z)
	v[2] = min(v[2], prevZ)
	if b.Grounded {
		v[2] = -groundSpeed
	} else {
		v[2] -= m.Config.Gravity * dt
	}
	b.Origin = pos
	b.Velocity = v
}

// stepMove moves a grounded box horizontally. The box is lifted by
// StepHeight, slid and put down again so it can climb stairs.
func (m *Mover) stepMove(pos, xy vec.Vec3, dt float32, ext vec.Vec3, minZ float32) (vec.Vec3, vec.Vec3) {
	step := m.Config.StepHeight
	orig := pos

	up := m.Sweep(pos, vec.Vec3{0, 0, step}, ext)
	if !up.AllSolid {
		pos = up.EndPos
	}
	pos, v, _ := m.slide(pos, xy, dt, ext)

	down := m.Sweep(pos, vec.Vec3{0, 0, -step}, ext)
	if !down.AllSolid {
		pos = down.EndPos
	}
	switch {
	case !down.Hit():
		// walked off a ledge, follow the ground if it is close below
		if d := m.Sweep(pos, vec.Vec3{0, 0, -step}, ext); d.Hit() && !d.AllSolid {
			pos = d.EndPos
		}
	case down.Normal[2] < minZ:
		// landed on a slope too steep to stand on
		pos, v, _ = m.slide(orig, xy, dt, ext)
	}
	v[2] = min(v[2], 0)
	return pos, v
}
