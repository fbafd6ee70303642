// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"testing"

	"bspworld/math/vec"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in     string
		wantF  string
		wantAS string
		wantA  []string
	}{
		{
			in:     `say hello world`,
			wantF:  `say hello world`,
			wantAS: `hello world`,
			wantA:  []string{"say", "hello", "world"},
		},
		{
			in:     `say "hello world"`,
			wantF:  `say "hello world"`,
			wantAS: `hello world`,
			wantA:  []string{"say", "hello world"},
		},
		{
			in:     ` say_team  foo bar baz `,
			wantF:  `say_team  foo bar baz`,
			wantAS: `foo bar baz`,
			wantA:  []string{"say_team", "foo", "bar", "baz"},
		},
		{
			in:     "alias far \"leaf 64 0 0; stats\"\tx//y",
			wantF:  "alias far \"leaf 64 0 0; stats\"\tx//y",
			wantAS: "far \"leaf 64 0 0; stats\"\tx//y",
			wantA:  []string{"alias", "far", "leaf 64 0 0; stats", "x//y"},
		},
		{
			in:     `echo "open`,
			wantF:  `echo "open`,
			wantAS: `open`,
			wantA:  []string{"echo"},
		},
	} {
		arg := Parse(tc.in)
		if tc.wantF != arg.Full() {
			t.Errorf("Parse(%q).Full()=%q, want %q", tc.in, arg.Full(), tc.wantF)
		}
		if tc.wantAS != arg.ArgumentString() {
			t.Errorf("Parse(%q).ArgumentString()=%q, want %q", tc.in, arg.ArgumentString(), tc.wantAS)
		}
		as := arg.Args()
		if len(tc.wantA) != len(as) {
			t.Fatalf("Parse(%q).Args() has len(%d), want %d", tc.in, len(as), len(tc.wantA))
		}
		for i := range tc.wantA {
			if tc.wantA[i] != as[i].String() {
				t.Errorf("Arg[%d]=%q, want %q", i, as[i], tc.wantA[i])
			}
		}
	}
}

func TestVec3(t *testing.T) {
	for _, tc := range []struct {
		in      string
		from    int
		want    vec.Vec3
		wantErr bool
	}{
		{in: "leaf 1 2 3", from: 1, want: vec.Vec3{1, 2, 3}},
		{in: "trace 0 0 0 -1.5 2e2 .25", from: 4, want: vec.Vec3{-1.5, 200, 0.25}},
		{in: "leaf 1 2", from: 1, wantErr: true},
		{in: "leaf 1 x 3", from: 1, wantErr: true},
	} {
		a := Parse(tc.in)
		got, err := a.Vec3(tc.from)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q).Vec3(%d) err = %v, wantErr %v", tc.in, tc.from, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q).Vec3(%d) = %v, want %v", tc.in, tc.from, got, tc.want)
		}
	}
}

func TestNumbers(t *testing.T) {
	a := Parse(`walk 20 -3.5 1e2 +7 twelve ""`)
	for i, want := range []struct {
		isNum bool
		f     float32
		i     int
	}{
		{false, 0, 0},
		{true, 20, 20},
		{true, -3.5, -3},
		{true, 100, 100},
		{true, 7, 7},
		{false, 0, 0},
		{false, 0, 0},
	} {
		got := a.Argv(i)
		if got.IsNumber() != want.isNum || got.Float32() != want.f || got.Int() != want.i {
			t.Errorf("Argv(%d) = %q (%v, %v, %v), want (%v, %v, %v)",
				i, got, got.IsNumber(), got.Float32(), got.Int(), want.isNum, want.f, want.i)
		}
	}
	if _, err := a.Floats(1, 4); err != nil {
		t.Errorf("Floats(1, 4): %v", err)
	}
	if _, err := a.Floats(3, 3); err == nil {
		t.Errorf("Floats(3, 3) accepted %q", a.Argv(5))
	}
}

func TestParseComment(t *testing.T) {
	a := Parse(`set mv_gravity 800 // moon`)
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	if got := a.Argv(2).Float32(); got != 800 {
		t.Errorf("Argv(2).Float32() = %v, want 800", got)
	}
	if got := a.Argv(7).String(); got != "" {
		t.Errorf("Argv(7) = %q, want empty", got)
	}
}
