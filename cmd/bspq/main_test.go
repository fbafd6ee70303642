// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bspworld/bsp/bsptest"
	"bspworld/cbuf"
)

func baseDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "maps"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "maps", "split.bsp"), bsptest.Split().Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func runBspq(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, strings.NewReader(stdin), &out, io.Discard)
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := baseDir(t)
	for _, tc := range []struct {
		cmd  string
		want string
	}{
		{"leaf -64 0 0", "leaf 0 cluster 0 area 0 contents empty brushes 0\n"},
		{"leaf 64 0 0", "leaf 1 cluster 1"},
		{"contents 10 0 0", "empty\n"},
		{"pvs 0", "1 of 2 clusters: 0\n"},
		{"pvs 1", "2 of 2 clusters: 0 1\n"},
		{"trace -64 0 0 64 0 0", "fraction 1 "},
		{"move -64 0 0 10 0 0 1", "pos [-54 0 0] vel [10 0 0]\n"},
		{"view 64 0 0", "cluster 1 leafs 2"},
		{"probe 20 3", "probes 20 hits 0 startsolid 0 brushes/trace 0.00\n"},
		{"stats", "planes 1 nodes 1 leafs 2 brushes 0 models 1 clusters 2 entities 2\n"},
		{"entities info_player_start", "info_player_start"},
		{"set mv_gravity 100; cvarlist mv_g", "* mv_gravity \"100\"\n"},
		{"mv_stepheight", "\"mv_stepheight\" is \"20\"\n"},
		{"cmdlist p", "  probe\n  pvs\n2 commands beginning with \"p\"\n"},
		{"alias far \"leaf 64 0 0\"; far", "leaf 1 cluster 1"},
		{"cmdlist wa", "  wait\n  walk\n2 commands beginning with \"wa\"\n"},
	} {
		got, err := runBspq(t, "", "-basedir", dir, "-map", "split", "-e", tc.cmd)
		if err != nil {
			t.Errorf("%s: %v", tc.cmd, err)
			continue
		}
		if !strings.Contains(got, tc.want) {
			t.Errorf("%s = %q, want %q", tc.cmd, got, tc.want)
		}
	}
}

func TestErrors(t *testing.T) {
	dir := baseDir(t)
	if _, err := runBspq(t, "", "-basedir", dir); err == nil {
		t.Errorf("run without a map succeeded")
	}
	if _, err := runBspq(t, "", "-basedir", dir, "-map", "nosuch", "-e", "stats"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing map err = %v, want ErrNotExist", err)
	}
	_, err := runBspq(t, "", "-basedir", dir, "-map", "split", "-e", "frobnicate")
	if !errors.Is(err, cbuf.ErrUnknownCommand) {
		t.Errorf("unknown command err = %v, want ErrUnknownCommand", err)
	}
	if _, err := runBspq(t, "", "-basedir", dir, "-map", "split", "-e", "leaf 1 2"); err == nil {
		t.Errorf("leaf with two numbers succeeded")
	}
	if _, err := runBspq(t, "", "-basedir", dir, "-map", "split", "-e", "pvs 7"); err == nil {
		t.Errorf("pvs of a missing cluster succeeded")
	}
	if _, err := runBspq(t, "", "-basedir", dir, "-map", "split", "-e", "set tr_mask nope; trace 0 0 0 1 1 1"); err == nil {
		t.Errorf("trace with a bad mask succeeded")
	}
}

func TestConfigAndEntities(t *testing.T) {
	dir := baseDir(t)
	cfg := filepath.Join(dir, "bspq.cfg")
	if err := os.WriteFile(cfg, []byte("set tr_mask water // only liquids\nmv_gravity 800\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := runBspq(t, "", "-basedir", dir, "-map", "split", "-config", cfg, "-entities", "-e", "cvarlist")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"worldspawn"`, `"-64 0 0"`, "tr_mask \"water\"", "mv_gravity \"800\""} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q misses %q", got, want)
		}
	}
}

func TestInteractive(t *testing.T) {
	dir := baseDir(t)
	got, err := runBspq(t, "leaf 64 0 0\n!!\n\nnosuch\nhistory\n", "-basedir", dir, "-map", "split")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(got, "leaf 1 cluster 1"); n != 2 {
		t.Errorf("leaf ran %d times, want 2: %q", n, got)
	}
	if !strings.Contains(got, "error: ") {
		t.Errorf("unknown command printed no error: %q", got)
	}
	if !strings.Contains(got, "   1 leaf 64 0 0\n") {
		t.Errorf("history not printed: %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, historyFilename)); err != nil {
		t.Errorf("history not saved: %v", err)
	}
}
