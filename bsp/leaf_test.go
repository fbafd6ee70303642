// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"testing"

	"bspworld/bsp/bsptest"
	"bspworld/math/vec"
)

func mustLoad(t *testing.T, m *bsptest.Map) *Level {
	t.Helper()
	l, err := LoadBytes(t.Name(), m.Bytes())
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	return l
}

func TestLeafOfSplit(t *testing.T) {
	l := mustLoad(t, bsptest.Split())
	tests := []struct {
		p    vec.Vec3
		want int
	}{
		{vec.Vec3{-1, 0, 0}, bsptest.SplitBack},
		{vec.Vec3{-100, 50, -20}, bsptest.SplitBack},
		{vec.Vec3{1, 0, 0}, bsptest.SplitFront},
		{vec.Vec3{0, 0, 0}, bsptest.SplitFront}, // on the plane
		{vec.Vec3{0, -77, 12}, bsptest.SplitFront},
	}
	for _, tc := range tests {
		if got := l.LeafOf(tc.p); got != tc.want {
			t.Errorf("LeafOf(%v) = %d, want %d", tc.p, got, tc.want)
		}
		// deterministic
		if got := l.LeafOf(tc.p); got != tc.want {
			t.Errorf("second LeafOf(%v) = %d, want %d", tc.p, got, tc.want)
		}
	}
}

func TestContentsAtCube(t *testing.T) {
	l := mustLoad(t, bsptest.Cube(32))
	tests := []struct {
		p    vec.Vec3
		want uint32
	}{
		{vec.Vec3{0, 0, 0}, ContentsSolid},
		{vec.Vec3{31, -31, 31}, ContentsSolid},
		{vec.Vec3{-32, -32, -32}, ContentsSolid}, // lower corner is in front of the lo planes
		{vec.Vec3{32, 0, 0}, 0},                  // upper face is in front of the hi plane
		{vec.Vec3{100, 0, 0}, 0},
		{vec.Vec3{0, 0, -500}, 0},
	}
	for _, tc := range tests {
		if got := l.ContentsAt(tc.p); got != tc.want {
			t.Errorf("ContentsAt(%v) = %d, want %d", tc.p, got, tc.want)
		}
	}
	if got := l.LeafOf(vec.Vec3{}); got != bsptest.CubeInsideLeaf {
		t.Errorf("LeafOf(origin) = %d, want %d", got, bsptest.CubeInsideLeaf)
	}
}

func TestLeafOfNode(t *testing.T) {
	l := mustLoad(t, bsptest.Corner())
	// node 0 splits on y = 64 below the root
	if got, want := l.LeafOfNode(0, vec.Vec3{0, 100, 0}), 1; got != want {
		t.Errorf("LeafOfNode(0, y=100) = %d, want %d", got, want)
	}
	if got, want := l.LeafOfNode(0, vec.Vec3{0, 0, 0}), 2; got != want {
		t.Errorf("LeafOfNode(0, y=0) = %d, want %d", got, want)
	}
	if got, want := l.LeafOf(vec.Vec3{100, 0, 0}), 0; got != want {
		t.Errorf("LeafOf(x=100) = %d, want %d", got, want)
	}
}
