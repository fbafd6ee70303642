// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bspworld/math/vec"
)

// LeafOf returns the index of the world leaf containing p.
func (l *Level) LeafOf(p vec.Vec3) int {
	return l.LeafOfNode(l.HeadNode(), p)
}

// LeafOfNode descends from node head. Points on a plane belong to its front.
func (l *Level) LeafOfNode(head int, p vec.Vec3) int {
	c := NodeChild(head)
	for !c.IsLeaf() {
		n := &l.Nodes[c.Index()]
		if l.Planes[n.Plane].Distance(p) >= 0 {
			c = n.Children[0]
		} else {
			c = n.Children[1]
		}
	}
	return c.Index()
}

func (l *Level) ContentsAt(p vec.Vec3) uint32 {
	return l.Leafs[l.LeafOf(p)].Contents
}
