// SPDX-License-Identifier: GPL-2.0-or-later

package collision

import (
	"github.com/chewxy/math32"

	"bspworld/bsp"
	"bspworld/math/vec"
)

// distEpsilon keeps the end of a trace off the surface it hit.
const distEpsilon = 0.01

// Tracer runs traces against one level. The level can be shared by many
// tracers but a Tracer itself must not be used concurrently.
type Tracer struct {
	level *bsp.Level

	// visited[b] == gen if brush b was already clipped by the running trace
	visited []uint32
	gen     uint32
	stack   []bsp.Child
	tests   int

	mask       uint32
	start, end vec.Vec3
	extents    vec.Vec3
	trace      Trace
}

func NewTracer(l *bsp.Level) *Tracer {
	return &Tracer{
		level:   l,
		visited: make([]uint32, len(l.Brushes)),
	}
}

func (t *Tracer) Level() *bsp.Level {
	return t.level
}

// BrushTests returns the number of brushes clipped by the last trace.
func (t *Tracer) BrushTests() int {
	return t.tests
}

// BoxTrace sweeps a box with half size extents centered on start to end.
func (t *Tracer) BoxTrace(mask uint32, start, end, extents vec.Vec3) Trace {
	tr := t.run(t.level.HeadNode(), mask, start, end, extents)
	tr.EndPos = endPos(start, end, tr.Fraction)
	return tr
}

func (t *Tracer) LineTrace(mask uint32, start, end vec.Vec3) Trace {
	return t.BoxTrace(mask, start, end, vec.Vec3{})
}

// BoxCheck reports whether a box placed at pos overlaps any brush in mask.
func (t *Tracer) BoxCheck(mask uint32, pos, extents vec.Vec3) bool {
	return t.BoxTrace(mask, pos, pos, extents).StartSolid
}

// ModelTrace traces against submodel model moved to origin, like a door or
// a platform. Positions of the result are in world space.
func (t *Tracer) ModelTrace(model int, origin vec.Vec3, mask uint32, start, end, extents vec.Vec3) Trace {
	head := t.level.Submodels[model].HeadNode
	tr := t.run(head, mask, vec.Sub(start, origin), vec.Sub(end, origin), extents)
	tr.EndPos = endPos(start, end, tr.Fraction)
	return tr
}

func (t *Tracer) PointContents(p vec.Vec3) uint32 {
	return t.level.ContentsAt(p)
}

func endPos(start, end vec.Vec3, frac float32) vec.Vec3 {
	if frac == 1 {
		return end
	}
	return vec.Lerp(start, end, frac)
}

func (t *Tracer) run(head int, mask uint32, start, end, extents vec.Vec3) Trace {
	t.gen++
	if t.gen == 0 {
		clear(t.visited)
		t.gen = 1
	}
	t.tests = 0
	t.mask = mask
	t.start = start
	t.end = end
	t.extents = extents
	t.trace = Trace{
		Fraction: 1,
		Plane:    -1,
	}
	t.walk(head)
	tr := t.trace
	if tr.Plane >= 0 {
		tr.Normal = t.level.Planes[tr.Plane].Normal
	}
	return tr
}

// walk visits every leaf the swept box can touch. The segment is never split,
// a node straddled by the sweep sends it down both sides.
func (t *Tracer) walk(head int) {
	l := t.level
	t.stack = append(t.stack[:0], bsp.NodeChild(head))
	for len(t.stack) > 0 {
		if t.trace.Fraction <= 0 {
			break
		}
		c := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		if c.IsLeaf() {
			t.traceLeaf(c.Index())
			continue
		}
		n := &l.Nodes[c.Index()]
		p := &l.Planes[n.Plane]
		t1 := p.Distance(t.start)
		t2 := p.Distance(t.end)
		var offset float32
		if p.Axial() {
			offset = t.extents[p.Type]
		} else {
			offset = math32.Abs(t.extents[0]*p.Normal[0]) +
				math32.Abs(t.extents[1]*p.Normal[1]) +
				math32.Abs(t.extents[2]*p.Normal[2])
		}
		switch {
		case t1 >= offset && t2 >= offset:
			t.stack = append(t.stack, n.Children[0])
		case t1 < -offset && t2 < -offset:
			t.stack = append(t.stack, n.Children[1])
		default:
			// front is handled first
			t.stack = append(t.stack, n.Children[1], n.Children[0])
		}
	}
}

func (t *Tracer) traceLeaf(i int) {
	l := t.level
	if l.Leafs[i].Contents&t.mask == 0 {
		return
	}
	for _, b := range l.LeafBrushList(i) {
		if t.visited[b] == t.gen {
			continue
		}
		t.visited[b] = t.gen
		brush := &l.Brushes[b]
		if brush.Contents&t.mask == 0 {
			continue
		}
		t.clipBrush(brush)
		if t.trace.Fraction <= 0 {
			return
		}
	}
}

// clipBrush intersects the sweep with one convex brush. The brush planes are
// pushed out by the box extents so the box can be handled as a point.
func (t *Tracer) clipBrush(b *bsp.Brush) {
	if b.NumSides == 0 {
		return
	}
	t.tests++
	l := t.level

	hitPlane := -1
	enter := float32(-math32.MaxFloat32)
	exit := float32(1)
	startOut := false
	getOut := false

	for _, s := range l.Sides(b) {
		p := &l.Planes[s.Plane]
		var offs vec.Vec3
		for i := 0; i < 3; i++ {
			if p.Normal[i] < 0 {
				offs[i] = t.extents[i]
			} else {
				offs[i] = -t.extents[i]
			}
		}
		dist := p.Dist - vec.Dot(offs, p.Normal)
		d1 := vec.Dot(t.start, p.Normal) - dist
		d2 := vec.Dot(t.end, p.Normal) - dist

		if d2 > 0 {
			getOut = true // endpoint is not in solid
		}
		if d1 > 0 {
			startOut = true
		}
		// completely in front of this face, no intersection
		if d1 > 0 && d2 >= d1 {
			return
		}
		if d1 <= 0 && d2 <= 0 {
			continue
		}
		if d1 > d2 { // enter
			f := (d1 - distEpsilon) / (d1 - d2)
			if f > enter {
				enter = f
				hitPlane = s.Plane
			}
		} else { // leave
			f := (d1 + distEpsilon) / (d1 - d2)
			if f < exit {
				exit = f
			}
		}
	}

	if !startOut {
		t.trace.StartSolid = true
		if !getOut {
			t.trace.AllSolid = true
		}
		t.trace.Contents = b.Contents
		return
	}
	if enter < exit && enter > -math32.MaxFloat32 && enter < t.trace.Fraction {
		if enter < 0 {
			enter = 0
		}
		t.trace.Fraction = enter
		t.trace.Plane = hitPlane
		t.trace.Contents = b.Contents
	}
}
