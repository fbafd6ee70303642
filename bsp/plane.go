// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"log/slog"

	"bspworld/math/vec"
)

const (
	PlaneX = iota
	PlaneY
	PlaneZ
	PlaneAnyX
	PlaneAnyY
	PlaneAnyZ
)

func newPlane(n vec.Vec3, dist float32, typ byte) Plane {
	p := Plane{
		Normal: n,
		Dist:   dist,
		Type:   typ,
	}
	for i := 0; i < 3; i++ {
		if n[i] < 0 {
			p.SignBits |= 1 << i
		}
	}
	return p
}

// NewPlane returns a plane with type and sign bits derived from n.
func NewPlane(n vec.Vec3, dist float32) Plane {
	for i := 0; i < 3; i++ {
		if n[i] == 1 || n[i] == -1 {
			return newPlane(n, dist, byte(PlaneX+i))
		}
	}
	a := vec.Abs(n)
	typ := PlaneAnyZ
	if a[0] >= a[1] && a[0] >= a[2] {
		typ = PlaneAnyX
	} else if a[1] >= a[2] {
		typ = PlaneAnyY
	}
	return newPlane(n, dist, byte(typ))
}

// Axial reports whether the fast single component test is valid.
// Only planes facing the positive axis qualify, compilers also mark negative
// facing planes as axial.
func (p *Plane) Axial() bool {
	return p.Type < 3 && p.Normal[p.Type] == 1
}

// Distance returns the signed distance of v to the plane, positive in front.
func (p *Plane) Distance(v vec.Vec3) float32 {
	if p.Axial() {
		return v[p.Type] - p.Dist
	}
	return vec.Dot(p.Normal, v) - p.Dist
}

// BoxOnPlaneSide returns bit 1 if any corner of the box is on or in front of
// the plane and bit 2 if any corner is behind it.
func (p *Plane) BoxOnPlaneSide(mins, maxs vec.Vec3) int {
	if p.Axial() {
		if p.Dist <= mins[int(p.Type)] {
			return 1
		}
		if p.Dist > maxs[int(p.Type)] {
			return 2
		}
		return 3
	}
	d1, d2 := func() (float32, float32) {
		n := p.Normal
		switch p.SignBits {
		case 0:
			d1 := n[0]*maxs[0] + n[1]*maxs[1] + n[2]*maxs[2]
			d2 := n[0]*mins[0] + n[1]*mins[1] + n[2]*mins[2]
			return d1, d2
		case 1:
			d1 := n[0]*mins[0] + n[1]*maxs[1] + n[2]*maxs[2]
			d2 := n[0]*maxs[0] + n[1]*mins[1] + n[2]*mins[2]
			return d1, d2
		case 2:
			d1 := n[0]*maxs[0] + n[1]*mins[1] + n[2]*maxs[2]
			d2 := n[0]*mins[0] + n[1]*maxs[1] + n[2]*mins[2]
			return d1, d2
		case 3:
			d1 := n[0]*mins[0] + n[1]*mins[1] + n[2]*maxs[2]
			d2 := n[0]*maxs[0] + n[1]*maxs[1] + n[2]*mins[2]
			return d1, d2
		case 4:
			d1 := n[0]*maxs[0] + n[1]*maxs[1] + n[2]*mins[2]
			d2 := n[0]*mins[0] + n[1]*mins[1] + n[2]*maxs[2]
			return d1, d2
		case 5:
			d1 := n[0]*mins[0] + n[1]*maxs[1] + n[2]*mins[2]
			d2 := n[0]*maxs[0] + n[1]*mins[1] + n[2]*maxs[2]
			return d1, d2
		case 6:
			d1 := n[0]*maxs[0] + n[1]*mins[1] + n[2]*mins[2]
			d2 := n[0]*mins[0] + n[1]*maxs[1] + n[2]*maxs[2]
			return d1, d2
		case 7:
			d1 := n[0]*mins[0] + n[1]*mins[1] + n[2]*mins[2]
			d2 := n[0]*maxs[0] + n[1]*maxs[1] + n[2]*maxs[2]
			return d1, d2
		default:
			slog.Error("BoxOnPlaneSide: Bad signbits", slog.Int("signbits", int(p.SignBits)))
			panic("BoxOnPlaneSide: bad signbits")
		}
	}()
	sides := 0
	if d1 >= p.Dist {
		sides = 1
	}
	if d2 < p.Dist {
		sides |= 2
	}
	return sides
}
