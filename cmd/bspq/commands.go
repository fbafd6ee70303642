// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"bspworld/bsp"
	"bspworld/cmd"
	"bspworld/collision"
	qmath "bspworld/math"
	"bspworld/math/vec"
	"bspworld/physics"
	"bspworld/rand"
	"bspworld/visibility"
)

var masks = map[string]uint32{
	"all":    bsp.MaskAll,
	"player": bsp.MaskPlayerSolid,
	"shot":   bsp.MaskShot,
	"solid":  bsp.MaskSolid,
	"water":  bsp.MaskWater,
}

var contentNames = []struct {
	flag uint32
	name string
}{
	{bsp.ContentsSolid, "solid"},
	{bsp.ContentsWindow, "window"},
	{bsp.ContentsLava, "lava"},
	{bsp.ContentsSlime, "slime"},
	{bsp.ContentsWater, "water"},
	{bsp.ContentsMist, "mist"},
	{bsp.ContentsPlayerClip, "playerclip"},
	{bsp.ContentsMonsterClip, "monsterclip"},
	{bsp.ContentsDetail, "detail"},
	{bsp.ContentsTranslucent, "translucent"},
	{bsp.ContentsLadder, "ladder"},
}

func contentsString(c uint32) string {
	if c == 0 {
		return "empty"
	}
	var n []string
	for _, cn := range contentNames {
		if c&cn.flag != 0 {
			n = append(n, cn.name)
		}
	}
	if len(n) == 0 {
		return fmt.Sprintf("0x%x", c)
	}
	return strings.Join(n, "|")
}

func (a *app) mask() (uint32, error) {
	s := a.cvars.TraceMask.String()
	if m, ok := masks[s]; ok {
		return m, nil
	}
	m, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, errors.Errorf("tr_mask %q is no mask", s)
	}
	return uint32(m), nil
}

func (a *app) addCommands() error {
	for name, f := range map[string]cmd.Func{
		"cmdlist":  a.cmds.ListFunc(a.out),
		"contents": a.contents,
		"entities": a.entities,
		"leaf":     a.leaf,
		"move":     a.move,
		"probe":    a.probe,
		"pvs":      a.pvs,
		"stats":    a.stats,
		"trace":    a.trace,
		"view":     a.view,
		"wait":     a.wait,
		"walk":     a.walk,
	} {
		if err := a.cmds.Add(name, f); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) wait(cmd.Arguments) error {
	a.buf.Wait()
	return nil
}

// leaf x y z
func (a *app) leaf(args cmd.Arguments) error {
	p, err := args.Vec3(1)
	if err != nil {
		return err
	}
	i := a.level.LeafOf(p)
	l := &a.level.Leafs[i]
	fmt.Fprintf(a.out, "leaf %d cluster %d area %d contents %s brushes %d\n",
		i, l.Cluster, l.Area, contentsString(l.Contents), len(a.level.LeafBrushList(i)))
	return nil
}

// contents x y z
func (a *app) contents(args cmd.Arguments) error {
	p, err := args.Vec3(1)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n", contentsString(a.tracer.PointContents(p)))
	return nil
}

func (a *app) printTrace(t *collision.Trace) {
	fmt.Fprintf(a.out, "fraction %g end %v", t.Fraction, t.EndPos)
	if t.Hit() {
		fmt.Fprintf(a.out, " plane %d normal %v contents %s", t.Plane, t.Normal, contentsString(t.Contents))
	}
	if t.StartSolid {
		fmt.Fprintf(a.out, " startsolid")
	}
	if t.AllSolid {
		fmt.Fprintf(a.out, " allsolid")
	}
	fmt.Fprintf(a.out, " brushes %d\n", a.tracer.BrushTests())
}

// optionalVec3 parses the vector at from if it is there.
func optionalVec3(args cmd.Arguments, from int) (vec.Vec3, error) {
	if args.Len() <= from {
		return vec.Vec3{}, nil
	}
	return args.Vec3(from)
}

// trace x y z x y z [ex ey ez]
func (a *app) trace(args cmd.Arguments) error {
	if args.Len() != 7 && args.Len() != 10 {
		return errors.New("trace <start> <end> [extents]")
	}
	start, err := args.Vec3(1)
	if err != nil {
		return err
	}
	end, err := args.Vec3(4)
	if err != nil {
		return err
	}
	ext, err := optionalVec3(args, 7)
	if err != nil {
		return err
	}
	mask, err := a.mask()
	if err != nil {
		return err
	}
	t := a.tracer.BoxTrace(mask, start, end, ext)
	a.printTrace(&t)
	return nil
}

// move x y z vx vy vz dt [ex ey ez]
func (a *app) move(args cmd.Arguments) error {
	if args.Len() != 8 && args.Len() != 11 {
		return errors.New("move <start> <velocity> <dt> [extents]")
	}
	start, err := args.Vec3(1)
	if err != nil {
		return err
	}
	vel, err := args.Vec3(4)
	if err != nil {
		return err
	}
	dt, err := args.Floats(7, 1)
	if err != nil {
		return err
	}
	ext, err := optionalVec3(args, 8)
	if err != nil {
		return err
	}
	a.mover.Config = physics.ConfigFromCvars(a.cvars)
	pos, v := a.mover.SlideMove(start, vel, dt[0], ext)
	fmt.Fprintf(a.out, "pos %v vel %v\n", pos, v)
	return nil
}

var playerExtents = vec.Vec3{16, 16, 24}

// walk x y z wx wy frames, 10 frames per second
func (a *app) walk(args cmd.Arguments) error {
	if args.Len() != 7 {
		return errors.New("walk <origin> <wish x> <wish y> <frames>")
	}
	org, err := args.Vec3(1)
	if err != nil {
		return err
	}
	wish, err := args.Floats(4, 3)
	if err != nil {
		return err
	}
	a.mover.Config = physics.ConfigFromCvars(a.cvars)
	b := &physics.Body{Origin: org, Extents: playerExtents}
	frames := qmath.Clamp(0, int(wish[2]), 10000)
	for i := 0; i < frames; i++ {
		a.mover.WalkMove(b, vec.Vec3{wish[0], wish[1], 0}, 0.1)
	}
	fmt.Fprintf(a.out, "origin %v velocity %v grounded %v\n", b.Origin, b.Velocity, b.Grounded)
	return nil
}

// probe n [seed] runs n random line traces inside the level bounds.
func (a *app) probe(args cmd.Arguments) error {
	if args.Len() != 2 && args.Len() != 3 {
		return errors.New("probe <count> [seed]")
	}
	n := args.Argv(1).Int()
	if n <= 0 {
		return errors.Errorf("probe count %d must be positive", n)
	}
	seed := uint32(1)
	if args.Len() == 3 {
		seed = uint32(args.Argv(2).Int())
	}
	mask, err := a.mask()
	if err != nil {
		return err
	}
	g := rand.New(seed)
	mins, maxs := a.level.Mins(), a.level.Maxs()
	hits, solid, tests := 0, 0, 0
	for i := 0; i < n; i++ {
		t := a.tracer.LineTrace(mask, g.InBox(mins, maxs), g.InBox(mins, maxs))
		tests += a.tracer.BrushTests()
		switch {
		case t.StartSolid:
			solid++
		case t.Hit():
			hits++
		}
	}
	fmt.Fprintf(a.out, "probes %d hits %d startsolid %d brushes/trace %.2f\n",
		n, hits, solid, float32(tests)/float32(n))
	return nil
}

// pvs cluster
func (a *app) pvs(args cmd.Arguments) error {
	if args.Len() != 2 {
		return errors.New("pvs <cluster>")
	}
	c := args.Argv(1).Int()
	n := a.level.ClusterCount()
	if c < 0 || c >= n {
		return errors.Errorf("cluster %d out of range [0, %d)", c, n)
	}
	vis := make([]bool, n)
	a.level.DecodeVisibleSet(c, vis)
	var seen []string
	for i, v := range vis {
		if v {
			seen = append(seen, strconv.Itoa(i))
		}
	}
	fmt.Fprintf(a.out, "%d of %d clusters: %s\n", len(seen), n, strings.Join(seen, " "))
	return nil
}

// view x y z [yaw]
func (a *app) view(args cmd.Arguments) error {
	if args.Len() != 4 && args.Len() != 5 {
		return errors.New("view <origin> [yaw]")
	}
	org, err := args.Vec3(1)
	if err != nil {
		return err
	}
	var f *visibility.Frustum
	if args.Len() == 5 {
		yaw, err := args.Floats(4, 1)
		if err != nil {
			return err
		}
		s, c := math32.Sincos(qmath.DegToRad(yaw[0]))
		forward := vec.Vec3{c, s, 0}
		right := vec.Vec3{s, -c, 0}
		fov := a.cvars.Fov.Value()
		f = visibility.ViewFrustum(org, forward, right, vec.Vec3{0, 0, 1}, fov, fov)
	}
	a.scene.Update(org, f)
	leafs := a.scene.VisibleLeaves()
	fmt.Fprintf(a.out, "cluster %d leafs %d %v\n", a.scene.ViewCluster(), len(leafs), leafs)
	return nil
}

// entities [classname]
func (a *app) entities(args cmd.Arguments) error {
	es := a.level.Entities
	if args.Len() > 1 {
		es = a.level.EntitiesByClass(args.Argv(1).String())
	}
	return a.printEntities(es, 0)
}

func (a *app) stats(cmd.Arguments) error {
	l := a.level
	mins, maxs := l.Mins(), l.Maxs()
	fmt.Fprintf(a.out, "level %s id %s checksum %04x\n", l.Name(), l.ID, l.Checksum)
	fmt.Fprintf(a.out, "bounds %v %v\n", mins, maxs)
	fmt.Fprintf(a.out, "planes %d nodes %d leafs %d brushes %d models %d clusters %d entities %d\n",
		len(l.Planes), len(l.Nodes), len(l.Leafs), len(l.Brushes), len(l.Submodels),
		l.ClusterCount(), len(l.Entities))
	return nil
}
