// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/google/uuid"

	"bspworld/math/vec"
)

// NoCluster marks a leaf which is never visible.
const NoCluster = -1

type Plane struct {
	Normal   vec.Vec3
	Dist     float32
	Type     byte
	SignBits byte // bit i is set if Normal[i] < 0
}

// Child is a decoded node child, either a node or a leaf index.
type Child struct {
	leaf  bool
	index int
}

func NodeChild(i int) Child {
	return Child{index: i}
}

func LeafChild(i int) Child {
	return Child{leaf: true, index: i}
}

// decodeChild decodes the on disk child encoding where leaf i is stored as -(i+1).
func decodeChild(c int32) Child {
	if c < 0 {
		return LeafChild(int(-c - 1))
	}
	return NodeChild(int(c))
}

func (c Child) IsLeaf() bool {
	return c.leaf
}

func (c Child) Index() int {
	return c.index
}

type Node struct {
	Plane    int
	Children [2]Child // front, back
	Mins     vec.Vec3
	Maxs     vec.Vec3

	FirstFace int
	NumFaces  int
}

type Leaf struct {
	Contents uint32
	Cluster  int
	Area     int
	Mins     vec.Vec3
	Maxs     vec.Vec3

	FirstLeafFace  int
	NumLeafFaces   int
	FirstLeafBrush int
	NumLeafBrushes int
}

type Brush struct {
	FirstSide int
	NumSides  int
	Contents  uint32
}

type BrushSide struct {
	Plane int
}

// Submodel 0 is the world, all others are brush entities like doors or
// platforms sharing the node tree of the world.
type Submodel struct {
	Mins      vec.Vec3
	Maxs      vec.Vec3
	Origin    vec.Vec3
	HeadNode  int
	FirstFace int
	NumFaces  int
}

// Vis is the potentially visible set of all clusters. Offsets[c] points into
// Data at the compressed row of cluster c.
type Vis struct {
	Offsets []int
	Data    []byte
}

// Level is the immutable collision and visibility data of a loaded map.
// Nothing in this package modifies a Level after Load returns.
type Level struct {
	ID       uuid.UUID
	Checksum uint16 // CRC of the file
	name     string
	clusters int

	Planes      []Plane
	Nodes       []Node
	Leafs       []Leaf
	LeafFaces   []int
	LeafBrushes []int
	Brushes     []Brush
	BrushSides  []BrushSide
	Submodels   []Submodel
	Vis         Vis
	Entities    []*Entity
}

func (l *Level) Name() string {
	return l.name
}

func (l *Level) Mins() vec.Vec3 {
	return l.Submodels[0].Mins
}

func (l *Level) Maxs() vec.Vec3 {
	return l.Submodels[0].Maxs
}

// HeadNode returns the root node of the world.
func (l *Level) HeadNode() int {
	return l.Submodels[0].HeadNode
}

// LeafBrushList returns the brush indices referenced by leaf i.
func (l *Level) LeafBrushList(i int) []int {
	lf := &l.Leafs[i]
	return l.LeafBrushes[lf.FirstLeafBrush : lf.FirstLeafBrush+lf.NumLeafBrushes]
}

// Sides returns the sides of brush b.
func (l *Level) Sides(b *Brush) []BrushSide {
	return l.BrushSides[b.FirstSide : b.FirstSide+b.NumSides]
}

func (l *Level) EntitiesByClass(classname string) []*Entity {
	var r []*Entity
	for _, e := range l.Entities {
		if n, ok := e.Name(); ok && n == classname {
			r = append(r, e)
		}
	}
	return r
}
