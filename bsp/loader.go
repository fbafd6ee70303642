// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"bspworld/crc"
	"bspworld/math/vec"
)

var lumpNames = [lumpCount]string{
	"entities", "planes", "vertexes", "visibility", "nodes", "texinfo",
	"faces", "lighting", "leafs", "leaffaces", "leafbrushes", "edges",
	"surfedges", "models", "brushes", "brushsides", "pop", "areas",
	"areaportals",
}

const sizeofHeader = 8 + lumpCount*8

// LoadFile reads the level stored at path.
func LoadFile(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, &IOError{Op: "stat", Path: path, Err: err}
	}
	return Load(path, f, fi.Size())
}

func LoadBytes(name string, data []byte) (*Level, error) {
	return Load(name, bytes.NewReader(data), int64(len(data)))
}

type loader struct {
	name string
	r    io.ReaderAt
	size int64
	h    header
}

// Load parses an IBSP version 38 level of the given size from r.
// Malformed data returns an error wrapping ErrFormat, failing reads an *IOError.
func Load(name string, r io.ReaderAt, size int64) (*Level, error) {
	ld := &loader{name: name, r: r, size: size}
	if err := ld.readHeader(); err != nil {
		return nil, err
	}
	lvl := &Level{
		ID:   uuid.New(),
		name: name,
	}
	steps := []func(*Level) error{
		ld.loadPlanes,
		ld.loadBrushSides,
		ld.loadBrushes,
		ld.loadLeafBrushes,
		ld.loadLeafFaces,
		ld.loadVisibility,
		ld.loadLeafs,
		ld.loadNodes,
		ld.loadSubmodels,
		ld.loadEntities,
		ld.checksum,
	}
	for _, s := range steps {
		if err := s(lvl); err != nil {
			return nil, err
		}
	}
	if err := lvl.checkTrees(); err != nil {
		return nil, err
	}
	slog.Info("Loaded level",
		slog.String("name", name),
		slog.String("id", lvl.ID.String()),
		slog.Int("nodes", len(lvl.Nodes)),
		slog.Int("leafs", len(lvl.Leafs)),
		slog.Int("brushes", len(lvl.Brushes)),
		slog.Int("clusters", lvl.clusters),
		slog.Int("entities", len(lvl.Entities)),
		slog.String("checksum", fmt.Sprintf("%04x", lvl.Checksum)))
	return lvl, nil
}

// checksum fingerprints the whole file so two copies of a level can be
// compared.
func (ld *loader) checksum(lvl *Level) error {
	h := crc.New()
	if _, err := io.Copy(h, io.NewSectionReader(ld.r, 0, ld.size)); err != nil {
		return &IOError{Op: "read", Path: ld.name, Err: err}
	}
	lvl.Checksum = h.Sum16()
	return nil
}

func (ld *loader) readHeader() error {
	if ld.size < sizeofHeader {
		return formatErrorf("%s: file too short for a header (%d bytes)", ld.name, ld.size)
	}
	err := binary.Read(io.NewSectionReader(ld.r, 0, sizeofHeader), binary.LittleEndian, &ld.h)
	if err != nil {
		return &IOError{Op: "read", Path: ld.name, Err: err}
	}
	if ld.h.Magic != bspMagic {
		return formatErrorf("%s: bad magic 0x%08x", ld.name, ld.h.Magic)
	}
	if ld.h.Version != bspVersion {
		return formatErrorf("%s has wrong version number (%d should be %d)", ld.name, ld.h.Version, bspVersion)
	}
	for i, d := range ld.h.Lumps {
		if int64(d.Offset)+int64(d.Size) > ld.size {
			return formatErrorf("%s: lump %s [%d, %d) exceeds file size %d",
				ld.name, lumpNames[i], d.Offset, int64(d.Offset)+int64(d.Size), ld.size)
		}
	}
	return nil
}

func (ld *loader) raw(lump int) ([]byte, error) {
	d := ld.h.Lumps[lump]
	b := make([]byte, d.Size)
	if d.Size == 0 {
		return b, nil
	}
	if _, err := ld.r.ReadAt(b, int64(d.Offset)); err != nil && err != io.EOF {
		return nil, &IOError{Op: "read", Path: ld.name, Err: err}
	}
	return b, nil
}

func readLump[T any](ld *loader, lump int, recordSize uint32) ([]T, error) {
	d := ld.h.Lumps[lump]
	if d.Size%recordSize != 0 {
		return nil, formatErrorf("%s: funny lump size of %s (%d is no multiple of %d)",
			ld.name, lumpNames[lump], d.Size, recordSize)
	}
	v := make([]T, d.Size/recordSize)
	if len(v) == 0 {
		return v, nil
	}
	sr := io.NewSectionReader(ld.r, int64(d.Offset), int64(d.Size))
	if err := binary.Read(sr, binary.LittleEndian, v); err != nil {
		return nil, &IOError{Op: "read", Path: ld.name, Err: err}
	}
	return v, nil
}

func toVec(v [3]float32) vec.Vec3 {
	return vec.Vec3(v)
}

func shortsToVec(v [3]int16) vec.Vec3 {
	return vec.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func (ld *loader) loadPlanes(lvl *Level) error {
	in, err := readLump[dplane](ld, lumpPlanes, sizeofPlane)
	if err != nil {
		return err
	}
	lvl.Planes = make([]Plane, len(in))
	for i, p := range in {
		lvl.Planes[i] = newPlane(toVec(p.Normal), p.Dist, byte(p.Type))
	}
	return nil
}

func (ld *loader) loadBrushSides(lvl *Level) error {
	in, err := readLump[dbrushside](ld, lumpBrushSides, sizeofBrushSide)
	if err != nil {
		return err
	}
	lvl.BrushSides = make([]BrushSide, len(in))
	for i, s := range in {
		if int(s.PlaneID) >= len(lvl.Planes) {
			return formatErrorf("%s: brush side %d references plane %d of %d", ld.name, i, s.PlaneID, len(lvl.Planes))
		}
		lvl.BrushSides[i] = BrushSide{Plane: int(s.PlaneID)}
	}
	return nil
}

func (ld *loader) loadBrushes(lvl *Level) error {
	in, err := readLump[dbrush](ld, lumpBrushes, sizeofBrush)
	if err != nil {
		return err
	}
	lvl.Brushes = make([]Brush, len(in))
	for i, b := range in {
		if uint64(b.FirstSide)+uint64(b.SideCount) > uint64(len(lvl.BrushSides)) {
			return formatErrorf("%s: brush %d sides [%d+%d] out of range", ld.name, i, b.FirstSide, b.SideCount)
		}
		lvl.Brushes[i] = Brush{
			FirstSide: int(b.FirstSide),
			NumSides:  int(b.SideCount),
			Contents:  b.Contents,
		}
	}
	return nil
}

func (ld *loader) loadLeafBrushes(lvl *Level) error {
	in, err := readLump[uint16](ld, lumpLeafBrushes, 2)
	if err != nil {
		return err
	}
	lvl.LeafBrushes = make([]int, len(in))
	for i, b := range in {
		if int(b) >= len(lvl.Brushes) {
			return formatErrorf("%s: leaf brush %d references brush %d of %d", ld.name, i, b, len(lvl.Brushes))
		}
		lvl.LeafBrushes[i] = int(b)
	}
	return nil
}

func (ld *loader) loadLeafFaces(lvl *Level) error {
	in, err := readLump[uint16](ld, lumpLeafFaces, 2)
	if err != nil {
		return err
	}
	lvl.LeafFaces = make([]int, len(in))
	for i, f := range in {
		lvl.LeafFaces[i] = int(f)
	}
	return nil
}

// loadVisibility reads the cluster count, the pvs and phs offset pairs and
// keeps the compressed rows. Offsets are made relative to the row data.
func (ld *loader) loadVisibility(lvl *Level) error {
	b, err := ld.raw(lumpVisibility)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	if len(b) < 4 {
		return formatErrorf("%s: visibility lump too short (%d bytes)", ld.name, len(b))
	}
	n := binary.LittleEndian.Uint32(b)
	hdr := 4 + 8*uint64(n)
	if hdr > uint64(len(b)) {
		return formatErrorf("%s: visibility lump too short for %d clusters", ld.name, n)
	}
	data := b[hdr:]
	offsets := make([]int, n)
	for c := range offsets {
		pvs := uint64(binary.LittleEndian.Uint32(b[4+8*c:]))
		if pvs < hdr || pvs-hdr >= uint64(len(data)) {
			return formatErrorf("%s: cluster %d visibility offset %d out of range", ld.name, c, pvs)
		}
		offsets[c] = int(pvs - hdr)
		if !walkRow(data, offsets[c], int(n), func(int) bool { return true }) {
			return formatErrorf("%s: cluster %d visibility row truncated", ld.name, c)
		}
	}
	lvl.Vis = Vis{Offsets: offsets, Data: data}
	lvl.clusters = int(n)
	return nil
}

func (ld *loader) loadLeafs(lvl *Level) error {
	in, err := readLump[dleaf](ld, lumpLeafs, sizeofLeaf)
	if err != nil {
		return err
	}
	if len(in) == 0 {
		return formatErrorf("%s: map with no leafs", ld.name)
	}
	hasVis := lvl.Vis.Offsets != nil
	lvl.Leafs = make([]Leaf, len(in))
	for i, l := range in {
		cluster := NoCluster
		if l.Cluster != 0xffff {
			cluster = int(l.Cluster)
		}
		if hasVis && cluster >= lvl.clusters {
			return formatErrorf("%s: leaf %d cluster %d out of range (%d clusters)", ld.name, i, cluster, lvl.clusters)
		}
		if !hasVis && cluster >= lvl.clusters {
			lvl.clusters = cluster + 1
		}
		if int(l.FirstLeafBrush)+int(l.LeafBrushCount) > len(lvl.LeafBrushes) {
			return formatErrorf("%s: leaf %d brushes [%d+%d] out of range", ld.name, i, l.FirstLeafBrush, l.LeafBrushCount)
		}
		if int(l.FirstLeafFace)+int(l.LeafFaceCount) > len(lvl.LeafFaces) {
			return formatErrorf("%s: leaf %d faces [%d+%d] out of range", ld.name, i, l.FirstLeafFace, l.LeafFaceCount)
		}
		lvl.Leafs[i] = Leaf{
			Contents:       l.Contents,
			Cluster:        cluster,
			Area:           int(l.Area),
			Mins:           shortsToVec(l.Mins),
			Maxs:           shortsToVec(l.Maxs),
			FirstLeafFace:  int(l.FirstLeafFace),
			NumLeafFaces:   int(l.LeafFaceCount),
			FirstLeafBrush: int(l.FirstLeafBrush),
			NumLeafBrushes: int(l.LeafBrushCount),
		}
	}
	return nil
}

func (ld *loader) loadNodes(lvl *Level) error {
	in, err := readLump[dnode](ld, lumpNodes, sizeofNode)
	if err != nil {
		return err
	}
	lvl.Nodes = make([]Node, len(in))
	for i, n := range in {
		if int(n.PlaneID) >= len(lvl.Planes) {
			return formatErrorf("%s: node %d references plane %d of %d", ld.name, i, n.PlaneID, len(lvl.Planes))
		}
		node := Node{
			Plane:     int(n.PlaneID),
			Mins:      shortsToVec(n.Mins),
			Maxs:      shortsToVec(n.Maxs),
			FirstFace: int(n.FirstFace),
			NumFaces:  int(n.FaceCount),
		}
		for j, c := range n.Children {
			child := decodeChild(c)
			if child.IsLeaf() && child.Index() >= len(lvl.Leafs) {
				return formatErrorf("%s: node %d child %d references leaf %d of %d", ld.name, i, j, child.Index(), len(lvl.Leafs))
			}
			if !child.IsLeaf() && child.Index() >= len(in) {
				return formatErrorf("%s: node %d child %d references node %d of %d", ld.name, i, j, child.Index(), len(in))
			}
			node.Children[j] = child
		}
		lvl.Nodes[i] = node
	}
	return nil
}

func (ld *loader) loadSubmodels(lvl *Level) error {
	in, err := readLump[dmodel](ld, lumpModels, sizeofModel)
	if err != nil {
		return err
	}
	if len(in) == 0 {
		return formatErrorf("%s: map with no models", ld.name)
	}
	lvl.Submodels = make([]Submodel, len(in))
	for i, m := range in {
		if int(m.HeadNode) >= len(lvl.Nodes) {
			return formatErrorf("%s: model %d head node %d of %d", ld.name, i, m.HeadNode, len(lvl.Nodes))
		}
		lvl.Submodels[i] = Submodel{
			// spread the mins / maxs by a pixel
			Mins:      vec.Sub(toVec(m.Mins), vec.Vec3{1, 1, 1}),
			Maxs:      vec.Add(toVec(m.Maxs), vec.Vec3{1, 1, 1}),
			Origin:    toVec(m.Origin),
			HeadNode:  int(m.HeadNode),
			FirstFace: int(m.FirstFace),
			NumFaces:  int(m.FaceCount),
		}
	}
	return nil
}

func (ld *loader) loadEntities(lvl *Level) error {
	b, err := ld.raw(lumpEntities)
	if err != nil {
		return err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	es, err := ParseEntities(b)
	if err != nil {
		return formatErrorf("%s: %v", ld.name, err)
	}
	lvl.Entities = es
	return nil
}

// checkTrees rejects node graphs where a node can reach itself. Tree walks
// rely on this to terminate.
func (l *Level) checkTrees() error {
	const (
		white = iota
		grey
		black
	)
	type frame struct {
		node int
		next int
	}
	colour := make([]byte, len(l.Nodes))
	var stack []frame
	for m, sm := range l.Submodels {
		if colour[sm.HeadNode] == black {
			continue
		}
		colour[sm.HeadNode] = grey
		stack = append(stack[:0], frame{node: sm.HeadNode})
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next == len(l.Nodes[f.node].Children) {
				colour[f.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			c := l.Nodes[f.node].Children[f.next]
			f.next++
			if c.IsLeaf() {
				continue
			}
			switch colour[c.Index()] {
			case grey:
				return formatErrorf("%s: model %d: node %d is its own ancestor", l.name, m, c.Index())
			case white:
				colour[c.Index()] = grey
				stack = append(stack, frame{node: c.Index()})
			}
		}
	}
	return nil
}
