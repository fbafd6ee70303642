// SPDX-License-Identifier: GPL-2.0-or-later

// Package physics moves boxes through a level, sliding along the surfaces
// they hit.
package physics

import (
	"log/slog"

	"bspworld/bsp"
	"bspworld/collision"
	"bspworld/math/vec"
)

type Mover struct {
	tracer *collision.Tracer
	Config Config
	Mask   uint32
}

func NewMover(t *collision.Tracer, c Config) *Mover {
	return &Mover{
		tracer: t,
		Config: c,
		Mask:   bsp.MaskPlayerSolid,
	}
}

// Sweep moves a box by move and stops at the first hit.
func (m *Mover) Sweep(start, move, extents vec.Vec3) collision.Trace {
	return m.tracer.BoxTrace(m.Mask, start, vec.Add(start, move), extents)
}

// SlideMove moves a box centered on start with velocity for dt seconds. On
// each hit the remaining velocity is clipped to run along the hit surfaces.
// It returns the final position and the remaining velocity.
func (m *Mover) SlideMove(start, velocity vec.Vec3, dt float32, extents vec.Vec3) (vec.Vec3, vec.Vec3) {
	pos, vel, _ := m.slide(start, velocity, dt, extents)
	return pos, vel
}

// slide is SlideMove which also returns the first blocking trace, or a trace
// with fraction 1 if nothing was hit.
func (m *Mover) slide(start, velocity vec.Vec3, dt float32, extents vec.Vec3) (vec.Vec3, vec.Vec3, collision.Trace) {
	pos := start
	vel := velocity
	blocked := collision.Trace{Fraction: 1, Plane: -1, EndPos: start}
	if vel == (vec.Vec3{}) {
		return pos, vel, blocked
	}

	// one plane per iteration at most
	planes := make([]vec.Vec3, 0, m.Config.MaxIterations)
	timeLeft := dt

	for i := 0; i < m.Config.MaxIterations; i++ {
		end := vec.Add(pos, vec.Scale(timeLeft, vel))
		t := m.tracer.BoxTrace(m.Mask, pos, end, extents)

		if t.AllSolid {
			slog.Warn("Box is stuck", slog.Any("pos", pos), slog.Any("extents", extents))
			return pos, vec.Vec3{}, t
		}
		if t.Fraction > 0 {
			pos = t.EndPos
			timeLeft -= timeLeft * t.Fraction
			planes = planes[:0]
		}
		if t.Fraction == 1 {
			break
		}
		if !blocked.Hit() {
			blocked = t
		}

		planes = append(planes, t.Normal)

		var ok bool
		vel, ok = m.resolvePlanes(vel, planes)
		if !ok {
			// wedged between three or more planes
			vel = vec.Vec3{}
			break
		}
	}
	return pos, vel, blocked
}

// clipVelocity removes the part of v going into the plane with normal n.
// overbounce > 1 pushes slightly away from the plane.
func clipVelocity(v, n vec.Vec3, overbounce float32) vec.Vec3 {
	backoff := vec.Dot(v, n) * overbounce
	return vec.Sub(v, vec.Scale(backoff, n))
}

// resolvePlanes finds a velocity not going into any of planes. It is false if
// no such direction is left.
func (m *Mover) resolvePlanes(v vec.Vec3, planes []vec.Vec3) (vec.Vec3, bool) {
	for i := range planes {
		v = clipVelocity(v, planes[i], m.Config.Overbounce)
		j := 0
		for ; j < len(planes); j++ {
			if j != i && vec.Dot(v, planes[j]) < 0 {
				break
			}
		}
		if j == len(planes) {
			return v, true
		}
	}
	if len(planes) != 2 {
		return vec.Vec3{}, false
	}
	// go along the crease
	dir := vec.Cross(planes[0], planes[1])
	return vec.Scale(vec.Dot(dir, v), dir), true
}
