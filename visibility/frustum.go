// SPDX-License-Identifier: GPL-2.0-or-later

// Package visibility answers which parts of a level a viewer can see.
package visibility

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"bspworld/bsp"
	qmath "bspworld/math"
	"bspworld/math/vec"
)

// Frustum is a set of inward facing planes. A point is inside if it is in
// front of all of them.
type Frustum struct {
	Planes []bsp.Plane
}

// FrustumFromMatrix extracts the six clip planes of a combined
// view projection matrix.
func FrustumFromMatrix(m mgl32.Mat4) *Frustum {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	eqs := [6]mgl32.Vec4{
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Add(r1), // bottom
		r3.Sub(r1), // top
		r3.Add(r2), // near
		r3.Sub(r2), // far
	}
	f := &Frustum{Planes: make([]bsp.Plane, 0, len(eqs))}
	for _, e := range eqs {
		n := vec.Vec3{e[0], e[1], e[2]}
		l := n.Length()
		if l == 0 {
			continue
		}
		f.Planes = append(f.Planes, bsp.NewPlane(vec.Scale(1/l, n), -e[3]/l))
	}
	return f
}

// PerspectiveFrustum builds the frustum of a camera at eye looking at center.
// fovy is in degrees.
func PerspectiveFrustum(eye, center, up vec.Vec3, fovy, aspect, near, far float32) *Frustum {
	proj := mgl32.Perspective(mgl32.DegToRad(fovy), aspect, near, far)
	view := mgl32.LookAtV(mgl32.Vec3(eye), mgl32.Vec3(center), mgl32.Vec3(up))
	return FrustumFromMatrix(proj.Mul4(view))
}

func turnVector(org, forward, side vec.Vec3, angle float32) bsp.Plane {
	scaleSide, scaleForward := math32.Sincos(qmath.DegToRad(angle))
	n := vec.Add(vec.Scale(scaleForward, forward), vec.Scale(scaleSide, side))
	return bsp.NewPlane(n, vec.Dot(org, n))
}

// ViewFrustum returns the four side planes of a view at org with the given
// field of view in degrees. It has no near or far plane.
func ViewFrustum(org, forward, right, up vec.Vec3, fovx, fovy float32) *Frustum {
	return &Frustum{Planes: []bsp.Plane{
		turnVector(org, forward, right, fovx/2-90), // left
		turnVector(org, forward, right, 90-fovx/2), // right
		turnVector(org, forward, up, 90-fovy/2),    // bottom
		turnVector(org, forward, up, fovy/2-90),    // top
	}}
}

// CullBox returns true if the box is completely outside the frustum
func (f *Frustum) CullBox(mins, maxs vec.Vec3) bool {
	for i := range f.Planes {
		p := &f.Planes[i]
		// corner furthest along the normal
		var c vec.Vec3
		for j := 0; j < 3; j++ {
			if p.SignBits&(1<<j) != 0 {
				c[j] = mins[j]
			} else {
				c[j] = maxs[j]
			}
		}
		if vec.Dot(p.Normal, c) < p.Dist {
			return true
		}
	}
	return false
}
