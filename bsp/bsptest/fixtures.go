// SPDX-License-Identifier: GPL-2.0-or-later

package bsptest

var (
	worldMins = [3]int16{-1024, -1024, -1024}
	worldMaxs = [3]int16{1024, 1024, 1024}
)

func box16(mins, maxs [3]float32) ([3]int16, [3]int16) {
	var a, b [3]int16
	for i := 0; i < 3; i++ {
		a[i] = int16(mins[i])
		b[i] = int16(maxs[i])
	}
	return a, b
}

// Leaf indices of the Split level.
const (
	SplitBack  = 0
	SplitFront = 1
)

// Split is a two leaf level divided by the plane x = 0. The back leaf
// (x < 0) is cluster 0, the front leaf cluster 1. Cluster 0 sees only itself,
// cluster 1 sees both.
func Split() *Map {
	m := New()
	p := m.AddPlane([3]float32{1, 0, 0}, 0)
	back := m.AddLeaf(0, 0, [3]int16{-128, -128, -128}, [3]int16{0, 128, 128})
	front := m.AddLeaf(0, 1, [3]int16{0, -128, -128}, [3]int16{128, 128, 128})
	n := m.AddNode(p, LeafChild(front), LeafChild(back),
		[3]int16{-128, -128, -128}, [3]int16{128, 128, 128})
	m.AddModel(n, [3]float32{-128, -128, -128}, [3]float32{128, 128, 128}, [3]float32{})
	m.VisRows = [][]byte{{0x01}, {0x03}}
	m.Entities = `{
"classname" "worldspawn"
"message" "split"
}
{
"classname" "info_player_start"
"origin" "-64 0 0"
"angle" "90"
}
`
	return m
}

// Cube is a level holding a single solid cube brush spanning [-half, half] on
// every axis. The tree cuts space along the six faces; the six outer leaves
// are empty and the inner leaf holds the brush. CubeInsideLeaf is the index of
// that inner leaf.
func Cube(half float32) *Map {
	m := New()
	mins := [3]float32{-half, -half, -half}
	maxs := [3]float32{half, half, half}
	b := m.AddBox(mins, maxs, ContentsSolid)
	bmins, bmaxs := box16(mins, maxs)
	inside := m.AddLeaf(ContentsSolid, NoCluster, bmins, bmaxs, b)

	next := LeafChild(inside)
	for axis := 2; axis >= 0; axis-- {
		var n [3]float32
		n[axis] = 1
		lo := m.AddPlane(n, -half)
		hi := m.AddPlane(n, half)

		outMins, outMaxs := worldMins, worldMaxs
		outMaxs[axis] = int16(-half)
		below := m.AddLeaf(0, 0, outMins, outMaxs)
		inner := m.AddNode(lo, next, LeafChild(below), worldMins, worldMaxs)

		outMins, outMaxs = worldMins, worldMaxs
		outMins[axis] = int16(half)
		above := m.AddLeaf(0, 0, outMins, outMaxs)
		next = int32(m.AddNode(hi, LeafChild(above), int32(inner), worldMins, worldMaxs))
	}
	fw := [3]float32{-1024, -1024, -1024}
	bw := [3]float32{1024, 1024, 1024}
	m.AddModel(int(next), fw, bw, [3]float32{})
	m.VisRows = [][]byte{{0x01}}
	m.Entities = `{
"classname" "worldspawn"
}
`
	return m
}

const CubeInsideLeaf = 0

// Brush indices of the Corner level.
const (
	CornerWallX = 0
	CornerWallY = 1
)

// Corner is a level with two perpendicular walls forming an interior corner at
// x = 64, y = 64. Wall X covers x in [64, 128], wall Y covers y in [64, 128].
// Wall Y is referenced by two leaves.
func Corner() *Map {
	m := New()
	wx := m.AddBox([3]float32{64, -256, -256}, [3]float32{128, 128, 256}, ContentsSolid)
	wy := m.AddBox([3]float32{-256, 64, -256}, [3]float32{128, 128, 256}, ContentsSolid)

	px := m.AddPlane([3]float32{1, 0, 0}, 64)
	py := m.AddPlane([3]float32{0, 1, 0}, 64)

	a := m.AddLeaf(ContentsSolid, 0, [3]int16{64, -256, -256}, [3]int16{128, 128, 256}, wx, wy)
	b := m.AddLeaf(ContentsSolid, 0, [3]int16{-256, 64, -256}, [3]int16{64, 128, 256}, wy)
	c := m.AddLeaf(0, 0, [3]int16{-256, -256, -256}, [3]int16{64, 64, 256})

	ny := m.AddNode(py, LeafChild(b), LeafChild(c), [3]int16{-256, -256, -256}, [3]int16{64, 128, 256})
	nx := m.AddNode(px, LeafChild(a), int32(ny), [3]int16{-256, -256, -256}, [3]int16{128, 128, 256})
	m.AddModel(nx, [3]float32{-256, -256, -256}, [3]float32{128, 128, 256}, [3]float32{})
	return m
}

// Soup is a level with a single node whose children both point at one leaf
// holding every brush. Collision works but the tree does not cull.
func Soup(build func(m *Map) []int) *Map {
	m := New()
	brushes := build(m)
	var contents uint32
	for _, b := range brushes {
		contents |= m.Brushes[b].Contents
	}
	p := m.AddPlane([3]float32{0, 0, 1}, 0)
	l := m.AddLeaf(contents, 0, worldMins, worldMaxs, brushes...)
	n := m.AddNode(p, LeafChild(l), LeafChild(l), worldMins, worldMaxs)
	m.AddModel(n, [3]float32{-1024, -1024, -1024}, [3]float32{1024, 1024, 1024}, [3]float32{})
	return m
}

// Stairs is a soup level with a floor at z = 0 and a single step of the given
// height starting at x = 64. A wall blocks x >= 512.
func Stairs(step float32) *Map {
	return Soup(func(m *Map) []int {
		return []int{
			m.AddBox([3]float32{-1024, -1024, -64}, [3]float32{1024, 1024, 0}, ContentsSolid),
			m.AddBox([3]float32{64, -1024, 0}, [3]float32{1024, 1024, step}, ContentsSolid),
			m.AddBox([3]float32{512, -1024, 0}, [3]float32{1024, 1024, 512}, ContentsSolid),
		}
	})
}
