// SPDX-License-Identifier: GPL-2.0-or-later

package filesystem

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"bspworld/bsp"
	"bspworld/bsp/bsptest"
	"bspworld/pack"
)

func writePak(t *testing.T, name string, files map[string][]byte) {
	t.Helper()
	var b bytes.Buffer
	if err := pack.Write(&b, files); err != nil {
		t.Fatalf("pack.Write: %v", err)
	}
	if err := os.WriteFile(name, b.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, name, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

// gameDir builds
//
//	doc1.txt        "os"
//	doc5.txt        "good file5\n"
//	pak0.pak        doc1.txt "pak0", doc2.txt "pak0"
//	pak1.pak        doc1.txt "pak1", maps/split.bsp
//	pak3.pak        ignored, pak2.pak is missing
func gameDir(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "doc1.txt"), "os")
	writeFile(t, filepath.Join(dir, "doc5.txt"), "good file5\n")
	writePak(t, filepath.Join(dir, "pak0.pak"), map[string][]byte{
		"doc1.txt": []byte("pak0"),
		"doc2.txt": []byte("pak0"),
	})
	writePak(t, filepath.Join(dir, "pak1.pak"), map[string][]byte{
		"doc1.txt":       []byte("pak1"),
		"maps/split.bsp": bsptest.Split().Bytes(),
	})
	writePak(t, filepath.Join(dir, "pak3.pak"), map[string][]byte{
		"doc1.txt": []byte("pak3"),
	})
	return dir
}

func TestSearchOrder(t *testing.T) {
	var s Search
	defer s.Close()
	if err := s.AddDir(gameDir(t)); err != nil {
		t.Fatalf("AddDir: %v", err)
	}
	if got := len(s.Path()); got != 3 {
		t.Errorf("search path has %d entries, want 3: %v", got, s.Path())
	}
	for _, tc := range []struct {
		name, want string
	}{
		{"doc1.txt", "pak1"},
		{"/doc2.txt", "pak0"},
		{"doc5.txt", "good file5\n"},
		{"maps/../doc2.txt", "pak0"},
	} {
		b, err := s.ReadFile(tc.name)
		if err != nil {
			t.Errorf("ReadFile(%q): %v", tc.name, err)
			continue
		}
		if string(b) != tc.want {
			t.Errorf("ReadFile(%q) = %q, want %q", tc.name, b, tc.want)
		}
	}
	if _, err := s.Open("doc4.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(doc4.txt) err = %v, want ErrNotExist", err)
	}
}

func TestSearchOverride(t *testing.T) {
	var s Search
	defer s.Close()
	if err := s.AddDir(gameDir(t)); err != nil {
		t.Fatal(err)
	}
	mod := t.TempDir()
	writeFile(t, filepath.Join(mod, "doc2.txt"), "mod")
	if err := s.AddDir(mod); err != nil {
		t.Fatal(err)
	}
	if b, err := s.ReadFile("doc2.txt"); err != nil || string(b) != "mod" {
		t.Errorf("ReadFile(doc2.txt) = %q, %v, want mod", b, err)
	}
	if err := s.AddDir(filepath.Join(mod, "doc2.txt")); err == nil {
		t.Errorf("AddDir of a file succeeded")
	}
}

func TestOpenLevel(t *testing.T) {
	var s Search
	defer s.Close()
	if err := s.AddDir(gameDir(t)); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"split", "split.bsp", "maps/split.bsp"} {
		l, err := s.OpenLevel(name)
		if err != nil {
			t.Errorf("OpenLevel(%q): %v", name, err)
			continue
		}
		if l.Name() != "split" {
			t.Errorf("OpenLevel(%q).Name() = %q, want split", name, l.Name())
		}
		if len(l.Leafs) != 2 {
			t.Errorf("OpenLevel(%q) has %d leafs, want 2", name, len(l.Leafs))
		}
	}
	_, err := s.OpenLevel("base1")
	var ioErr *bsp.IOError
	if !errors.As(err, &ioErr) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("OpenLevel(base1) err = %v, want IOError not exist", err)
	}
}

func TestExt(t *testing.T) {
	for _, tc := range []struct {
		in, ext, stripped string
	}{
		{"maps/base1.bsp", ".bsp", "maps/base1"},
		{"maps/base1", "", "maps/base1"},
		{"dir.d/file", "", "dir.d/file"},
		{`dir.d\file.txt`, ".txt", `dir.d\file`},
	} {
		if got := Ext(tc.in); got != tc.ext {
			t.Errorf("Ext(%q) = %q, want %q", tc.in, got, tc.ext)
		}
		if got := StripExt(tc.in); got != tc.stripped {
			t.Errorf("StripExt(%q) = %q, want %q", tc.in, got, tc.stripped)
		}
	}
}
