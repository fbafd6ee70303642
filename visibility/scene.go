// SPDX-License-Identifier: GPL-2.0-or-later

package visibility

import (
	"bspworld/bsp"
	"bspworld/math/vec"
)

const unsetCluster = -2

// Scene holds the per viewer visibility state of one level. The level itself
// is shared, a Scene is not safe for concurrent use.
type Scene struct {
	level *bsp.Level

	clusters    []bool // potentially visible set of viewCluster
	viewCluster int
	marks       []bool // per leaf
	visible     []int
	stack       []bsp.Child
}

func NewScene(l *bsp.Level) *Scene {
	return &Scene{
		level:       l,
		clusters:    make([]bool, l.ClusterCount()),
		viewCluster: unsetCluster,
		marks:       make([]bool, len(l.Leafs)),
	}
}

// ViewCluster returns the cluster of the last Update.
func (s *Scene) ViewCluster() int {
	return s.viewCluster
}

// Update recomputes the visible leaves for a viewer at pos. The cluster row
// is only decoded when the viewer changed cluster. A viewer outside of any
// cluster, like inside a wall, sees nothing. f may be nil to skip frustum
// culling.
func (s *Scene) Update(pos vec.Vec3, f *Frustum) {
	c := s.level.Leafs[s.level.LeafOf(pos)].Cluster
	if c != s.viewCluster {
		s.viewCluster = c
		s.level.DecodeVisibleSet(c, s.clusters)
	}
	s.MarkVisible(s.clusters, f)
}

func (s *Scene) push(c bsp.Child) {
	s.stack = append(s.stack, c)
}

func (s *Scene) pop() bsp.Child {
	c := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return c
}

// MarkVisible marks the leaves whose cluster is set in clusters and whose
// bounds are not culled by f. Subtrees outside the frustum are skipped.
func (s *Scene) MarkVisible(clusters []bool, f *Frustum) {
	clear(s.marks)
	s.visible = s.visible[:0]
	s.stack = s.stack[:0]
	l := s.level

	s.push(bsp.NodeChild(l.HeadNode()))
	for len(s.stack) > 0 {
		c := s.pop()
		if !c.IsLeaf() {
			n := &l.Nodes[c.Index()]
			if f != nil && f.CullBox(n.Mins, n.Maxs) {
				continue
			}
			s.push(n.Children[1])
			s.push(n.Children[0])
			continue
		}
		i := c.Index()
		if s.marks[i] {
			continue
		}
		leaf := &l.Leafs[i]
		if leaf.Cluster == bsp.NoCluster || leaf.Cluster >= len(clusters) || !clusters[leaf.Cluster] {
			continue
		}
		if f != nil && f.CullBox(leaf.Mins, leaf.Maxs) {
			continue
		}
		s.marks[i] = true
		s.visible = append(s.visible, i)
	}
}

// VisibleLeaves returns the leaves marked by the last MarkVisible. The slice
// is reused by the next call.
func (s *Scene) VisibleLeaves() []int {
	return s.visible
}

func (s *Scene) LeafVisible(i int) bool {
	return s.marks[i]
}

func overlaps(amins, amaxs, bmins, bmaxs vec.Vec3) bool {
	for i := 0; i < 3; i++ {
		if amins[i] > bmaxs[i] || amaxs[i] < bmins[i] {
			return false
		}
	}
	return true
}

// BoxVisible reports whether any marked leaf touched by the box overlaps it.
// Used to cull entities against the current scene.
func (s *Scene) BoxVisible(mins, maxs vec.Vec3) bool {
	l := s.level
	s.stack = append(s.stack[:0], bsp.NodeChild(l.HeadNode()))
	for len(s.stack) > 0 {
		c := s.pop()
		if c.IsLeaf() {
			i := c.Index()
			lf := &l.Leafs[i]
			if s.marks[i] && overlaps(lf.Mins, lf.Maxs, mins, maxs) {
				s.stack = s.stack[:0]
				return true
			}
			continue
		}
		n := &l.Nodes[c.Index()]
		side := l.Planes[n.Plane].BoxOnPlaneSide(mins, maxs)
		if side&2 != 0 {
			s.push(n.Children[1])
		}
		if side&1 != 0 {
			s.push(n.Children[0])
		}
	}
	return false
}
