// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

// On disk records of an IBSP version 38 file. All values are little endian.

const (
	bspMagic   = 'I' | 'B'<<8 | 'S'<<16 | 'P'<<24
	bspVersion = 38
)

// called lump_t in c
type directory struct {
	Offset uint32
	Size   uint32
}

const (
	lumpEntities = iota
	lumpPlanes
	lumpVertexes
	lumpVisibility
	lumpNodes
	lumpTexInfo
	lumpFaces
	lumpLighting
	lumpLeafs
	lumpLeafFaces
	lumpLeafBrushes
	lumpEdges
	lumpSurfEdges
	lumpModels
	lumpBrushes
	lumpBrushSides
	lumpPop
	lumpAreas
	lumpAreaPortals
	lumpCount
)

type header struct {
	Magic   uint32
	Version uint32
	Lumps   [lumpCount]directory
}

type dplane struct {
	Normal [3]float32
	Dist   float32
	Type   uint32 // 0-2 axial plane in X, Y, Z, 3-5 non axial snapped to the nearest
}

type dnode struct {
	PlaneID   uint32
	Children  [2]int32 // negative numbers are -(leafs+1), not nodes
	Mins      [3]int16 // for frustum culling
	Maxs      [3]int16
	FirstFace uint16
	FaceCount uint16 // counting both sides
}

type dleaf struct {
	Contents       uint32 // OR of all brushes (not needed?)
	Cluster        uint16
	Area           uint16
	Mins           [3]int16
	Maxs           [3]int16
	FirstLeafFace  uint16
	LeafFaceCount  uint16
	FirstLeafBrush uint16
	LeafBrushCount uint16
}

type dbrush struct {
	FirstSide uint32
	SideCount uint32
	Contents  uint32
}

type dbrushside struct {
	PlaneID uint16 // facing out of the leaf
	TexInfo int16
}

type dmodel struct {
	Mins      [3]float32
	Maxs      [3]float32
	Origin    [3]float32 // for sounds or lights
	HeadNode  uint32
	FirstFace uint32 // submodels just draw faces without walking the bsp tree
	FaceCount uint32
}

const (
	sizeofPlane     = 20
	sizeofNode      = 28
	sizeofLeaf      = 28
	sizeofBrush     = 12
	sizeofBrushSide = 4
	sizeofModel     = 48
)
