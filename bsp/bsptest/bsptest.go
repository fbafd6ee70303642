// SPDX-License-Identifier: GPL-2.0-or-later

// Package bsptest writes small IBSP level images for tests.
package bsptest

import (
	"bytes"
	"encoding/binary"
)

const (
	Magic   = 'I' | 'B'<<8 | 'S'<<16 | 'P'<<24
	Version = 38

	lumpCount = 19

	lumpEntities    = 0
	lumpPlanes      = 1
	lumpVisibility  = 3
	lumpNodes       = 4
	lumpLeafs       = 8
	lumpLeafFaces   = 9
	lumpLeafBrushes = 10
	lumpModels      = 13
	lumpBrushes     = 14
	lumpBrushSides  = 15
)

const (
	ContentsSolid  = 1
	ContentsWindow = 2
	ContentsWater  = 32

	NoCluster = -1
)

type Plane struct {
	Normal [3]float32
	Dist   float32
	Type   uint32
}

type Node struct {
	Plane     uint32
	Front     int32
	Back      int32
	Mins      [3]int16
	Maxs      [3]int16
	FirstFace uint16
	NumFaces  uint16
}

type Leaf struct {
	Contents       uint32
	Cluster        int16
	Area           int16
	Mins           [3]int16
	Maxs           [3]int16
	FirstLeafFace  uint16
	NumLeafFaces   uint16
	FirstLeafBrush uint16
	NumLeafBrushes uint16
}

type Brush struct {
	FirstSide int32
	NumSides  int32
	Contents  uint32
}

type BrushSide struct {
	Plane   uint16
	TexInfo int16
}

type Model struct {
	Mins      [3]float32
	Maxs      [3]float32
	Origin    [3]float32
	HeadNode  int32
	FirstFace int32
	NumFaces  int32
}

// Map is a level under construction. Bytes serializes it.
type Map struct {
	Magic    uint32
	Version  uint32
	Entities string

	Planes      []Plane
	Nodes       []Node
	Leafs       []Leaf
	LeafFaces   []uint16
	LeafBrushes []uint16
	Models      []Model
	Brushes     []Brush
	BrushSides  []BrushSide

	// VisRows holds the already compressed row of each cluster. nil means the
	// level has no visibility lump.
	VisRows [][]byte
}

func New() *Map {
	return &Map{Magic: Magic, Version: Version}
}

// LeafChild encodes leaf index i as a node child.
func LeafChild(i int) int32 {
	return int32(-i - 1)
}

func planeType(n [3]float32) uint32 {
	for i := 0; i < 3; i++ {
		if n[i] == 1 || n[i] == -1 {
			return uint32(i)
		}
	}
	return 3
}

func (m *Map) AddPlane(normal [3]float32, dist float32) int {
	m.Planes = append(m.Planes, Plane{Normal: normal, Dist: dist, Type: planeType(normal)})
	return len(m.Planes) - 1
}

// AddBox adds an axis aligned brush with outward facing side planes. The side
// order is +x, -x, +y, -y, +z, -z. It returns the brush index.
func (m *Map) AddBox(mins, maxs [3]float32, contents uint32) int {
	first := len(m.BrushSides)
	for axis := 0; axis < 3; axis++ {
		var n [3]float32
		n[axis] = 1
		p := m.AddPlane(n, maxs[axis])
		m.BrushSides = append(m.BrushSides, BrushSide{Plane: uint16(p)})
		n[axis] = -1
		p = m.AddPlane(n, -mins[axis])
		m.BrushSides = append(m.BrushSides, BrushSide{Plane: uint16(p)})
	}
	m.Brushes = append(m.Brushes, Brush{
		FirstSide: int32(first),
		NumSides:  6,
		Contents:  contents,
	})
	return len(m.Brushes) - 1
}

// AddBrush adds a convex brush from arbitrary outward planes.
func (m *Map) AddBrush(contents uint32, planes ...int) int {
	first := len(m.BrushSides)
	for _, p := range planes {
		m.BrushSides = append(m.BrushSides, BrushSide{Plane: uint16(p)})
	}
	m.Brushes = append(m.Brushes, Brush{
		FirstSide: int32(first),
		NumSides:  int32(len(planes)),
		Contents:  contents,
	})
	return len(m.Brushes) - 1
}

func (m *Map) AddLeaf(contents uint32, cluster int16, mins, maxs [3]int16, brushes ...int) int {
	l := Leaf{
		Contents:       contents,
		Cluster:        cluster,
		Mins:           mins,
		Maxs:           maxs,
		FirstLeafBrush: uint16(len(m.LeafBrushes)),
		NumLeafBrushes: uint16(len(brushes)),
		FirstLeafFace:  uint16(len(m.LeafFaces)),
	}
	for _, b := range brushes {
		m.LeafBrushes = append(m.LeafBrushes, uint16(b))
	}
	m.Leafs = append(m.Leafs, l)
	return len(m.Leafs) - 1
}

func (m *Map) AddNode(plane int, front, back int32, mins, maxs [3]int16) int {
	m.Nodes = append(m.Nodes, Node{
		Plane: uint32(plane),
		Front: front,
		Back:  back,
		Mins:  mins,
		Maxs:  maxs,
	})
	return len(m.Nodes) - 1
}

func (m *Map) AddModel(head int, mins, maxs, origin [3]float32) int {
	m.Models = append(m.Models, Model{
		Mins:     mins,
		Maxs:     maxs,
		Origin:   origin,
		HeadNode: int32(head),
	})
	return len(m.Models) - 1
}

type lump struct {
	Offset uint32
	Length uint32
}

func encode(data any) []byte {
	var b bytes.Buffer
	if err := binary.Write(&b, binary.LittleEndian, data); err != nil {
		panic(err)
	}
	return b.Bytes()
}

func (m *Map) visLump() []byte {
	if m.VisRows == nil {
		return nil
	}
	n := len(m.VisRows)
	hdr := 4 + 8*n
	offsets := make([]uint32, 0, 1+2*n)
	offsets = append(offsets, uint32(n))
	var rows []byte
	for _, r := range m.VisRows {
		o := uint32(hdr + len(rows))
		offsets = append(offsets, o, o)
		rows = append(rows, r...)
	}
	return append(encode(offsets), rows...)
}

// Bytes returns the IBSP image of the map.
func (m *Map) Bytes() []byte {
	var lumps [lumpCount][]byte
	lumps[lumpEntities] = append([]byte(m.Entities), 0)
	lumps[lumpPlanes] = encode(m.Planes)
	lumps[lumpVisibility] = m.visLump()
	lumps[lumpNodes] = encode(m.Nodes)
	lumps[lumpLeafs] = encode(m.Leafs)
	lumps[lumpLeafFaces] = encode(m.LeafFaces)
	lumps[lumpLeafBrushes] = encode(m.LeafBrushes)
	lumps[lumpModels] = encode(m.Models)
	lumps[lumpBrushes] = encode(m.Brushes)
	lumps[lumpBrushSides] = encode(m.BrushSides)

	var dir [lumpCount]lump
	offset := uint32(8 + lumpCount*8)
	for i, l := range lumps {
		dir[i] = lump{Offset: offset, Length: uint32(len(l))}
		offset += uint32(len(l))
	}
	var b bytes.Buffer
	b.Write(encode([2]uint32{m.Magic, m.Version}))
	b.Write(encode(dir))
	for _, l := range lumps {
		b.Write(l)
	}
	return b.Bytes()
}
