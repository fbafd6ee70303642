// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bspworld/bsp/bsptest"
	"bspworld/crc"
)

func TestLoadSplit(t *testing.T) {
	data := bsptest.Split().Bytes()
	l, err := LoadBytes("split", data)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if got, want := l.Checksum, crc.Update(data); got != want {
		t.Errorf("Checksum = 0x%04x, want 0x%04x", got, want)
	}
	if got := l.Name(); got != "split" {
		t.Errorf("Name() = %q, want %q", got, "split")
	}
	if len(l.Planes) != 1 || len(l.Nodes) != 1 || len(l.Leafs) != 2 || len(l.Submodels) != 1 {
		t.Errorf("counts planes %d nodes %d leafs %d models %d, want 1 1 2 1",
			len(l.Planes), len(l.Nodes), len(l.Leafs), len(l.Submodels))
	}
	if got, want := l.Nodes[0].Children, [2]Child{LeafChild(bsptest.SplitFront), LeafChild(bsptest.SplitBack)}; got != want {
		t.Errorf("Children = %v, want %v", got, want)
	}
	if got := l.ClusterCount(); got != 2 {
		t.Errorf("ClusterCount() = %d, want 2", got)
	}
	if got := len(l.Entities); got != 2 {
		t.Errorf("%d entities, want 2", got)
	}
	if l.Planes[0].Type != PlaneX || !l.Planes[0].Axial() {
		t.Errorf("plane 0 not axial x: %v", l.Planes[0])
	}
}

func TestLoadNoCluster(t *testing.T) {
	l, err := LoadBytes("cube", bsptest.Cube(32).Bytes())
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if got := l.Leafs[bsptest.CubeInsideLeaf].Cluster; got != NoCluster {
		t.Errorf("inside cluster = %d, want %d", got, NoCluster)
	}
	if got := l.Leafs[bsptest.CubeInsideLeaf].Contents; got != ContentsSolid {
		t.Errorf("inside contents = %d, want %d", got, ContentsSolid)
	}
}

func TestLoadDistinctIDs(t *testing.T) {
	b := bsptest.Split().Bytes()
	l1, err := LoadBytes("a", b)
	if err != nil {
		t.Fatal(err)
	}
	l2, err := LoadBytes("a", b)
	if err != nil {
		t.Fatal(err)
	}
	if l1.ID == l2.ID {
		t.Errorf("two loads share the id %v", l1.ID)
	}
}

// setLumpSize patches the directory entry of lump i.
func setLumpSize(b []byte, i int, size uint32) {
	binary.LittleEndian.PutUint32(b[8+i*8+4:], size)
}

func TestLoadFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		data func() []byte
	}{
		{"empty", func() []byte { return nil }},
		{"short header", func() []byte { return bsptest.Split().Bytes()[:40] }},
		{"bad magic", func() []byte {
			m := bsptest.Split()
			m.Magic = 0x50534249 + 1
			return m.Bytes()
		}},
		{"quake 1 version", func() []byte {
			m := bsptest.Split()
			m.Version = 29
			return m.Bytes()
		}},
		{"truncated", func() []byte {
			b := bsptest.Split().Bytes()
			return b[:len(b)-4]
		}},
		{"odd plane lump", func() []byte {
			b := bsptest.Split().Bytes()
			setLumpSize(b, lumpPlanes, sizeofPlane-1)
			return b
		}},
		{"leaf child out of range", func() []byte {
			m := bsptest.Split()
			m.Nodes[0].Front = bsptest.LeafChild(7)
			return m.Bytes()
		}},
		{"node child out of range", func() []byte {
			m := bsptest.Split()
			m.Nodes[0].Front = 3
			return m.Bytes()
		}},
		{"node plane out of range", func() []byte {
			m := bsptest.Split()
			m.Nodes[0].Plane = 9
			return m.Bytes()
		}},
		{"cluster out of range", func() []byte {
			m := bsptest.Split()
			m.Leafs[0].Cluster = 5
			return m.Bytes()
		}},
		{"vis offset out of range", func() []byte {
			m := bsptest.Split()
			m.VisRows[1] = nil
			return m.Bytes()
		}},
		{"vis row truncated", func() []byte {
			m := bsptest.Split()
			m.VisRows = [][]byte{{0x01}, {0x00}}
			return m.Bytes()
		}},
		{"vis skip count missing", func() []byte {
			m := bsptest.Split()
			m.VisRows = [][]byte{{0x00, 0x01}, {0x00}}
			return m.Bytes()
		}},
		{"leaf brushes out of range", func() []byte {
			m := bsptest.Corner()
			m.Leafs[2].NumLeafBrushes = 9
			return m.Bytes()
		}},
		{"brush side plane out of range", func() []byte {
			m := bsptest.Corner()
			m.BrushSides[0].Plane = 999
			return m.Bytes()
		}},
		{"no models", func() []byte {
			m := bsptest.Split()
			m.Models = nil
			return m.Bytes()
		}},
		{"cycle", func() []byte {
			m := bsptest.Split()
			n := m.AddNode(0, 0, bsptest.LeafChild(bsptest.SplitBack), [3]int16{}, [3]int16{})
			m.Nodes[0].Front = int32(n)
			return m.Bytes()
		}},
		{"unclosed entity", func() []byte {
			m := bsptest.Split()
			m.Entities = `{ "classname" "worldspawn"`
			return m.Bytes()
		}},
	}
	for _, tc := range tests {
		_, err := LoadBytes(tc.name, tc.data())
		if !errors.Is(err, ErrFormat) {
			t.Errorf("%s: got %v, want ErrFormat", tc.name, err)
		}
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			t.Errorf("%s: got IOError %v", tc.name, err)
		}
	}
}

type failingReader struct{}

func (failingReader) ReadAt(p []byte, off int64) (int, error) {
	return 0, errors.New("device gone")
}

func TestLoadIOError(t *testing.T) {
	_, err := Load("broken", failingReader{}, 4096)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Load = %v, want *IOError", err)
	}
	if ioErr.Path != "broken" {
		t.Errorf("Path = %q, want %q", ioErr.Path, "broken")
	}
	if errors.Is(err, ErrFormat) {
		t.Errorf("IOError %v matches ErrFormat", err)
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.bsp"))
	if !errors.As(err, &ioErr) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing) = %v, want not exist IOError", err)
	}
}

func TestLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "split.bsp")
	if err := os.WriteFile(p, bsptest.Split().Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if l.Name() != p {
		t.Errorf("Name() = %q, want %q", l.Name(), p)
	}
}
