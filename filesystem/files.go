// SPDX-License-Identifier: GPL-2.0-or-later

// Package filesystem finds game files in a search path of directories and
// pack files.
package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"bspworld/bsp"
	"bspworld/pack"
)

type File interface {
	io.ReadSeekCloser
	io.ReaderAt
	Size() int64
}

type source interface {
	open(name string) (File, error)
	close() error
	String() string
}

type dirSource struct {
	root string
}

type osFile struct {
	*os.File
	size int64
}

func (f *osFile) Size() int64 {
	return f.size
}

func (d dirSource) open(name string) (File, error) {
	f, err := os.Open(filepath.Join(d.root, filepath.FromSlash(name)))
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return &osFile{f, fi.Size()}, nil
}

func (dirSource) close() error {
	return nil
}

func (d dirSource) String() string {
	return d.root
}

type packSource struct {
	p *pack.Pack
}

type closer struct {
	*io.SectionReader
}

func (*closer) Close() error {
	return nil
}

func (p packSource) open(name string) (File, error) {
	f, err := p.p.Open(name)
	if err != nil {
		return nil, err
	}
	return &closer{f}, nil
}

func (p packSource) close() error {
	return p.p.Close()
}

func (p packSource) String() string {
	return p.p.String()
}

// Search is an ordered search path. Sources added later hide files of the
// same name in earlier ones.
type Search struct {
	mutex   sync.RWMutex
	sources []source
}

// AddDir adds dir and then its pak0.pak, pak1.pak, ... up to the first
// missing number.
func (s *Search) AddDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return errors.Errorf("%s is not a directory", dir)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sources = append(s.sources, dirSource{dir})
	for i := 0; ; i++ {
		pfp := filepath.Join(dir, fmt.Sprintf("pak%d.pak", i))
		p, err := pack.NewPackReader(pfp)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return err
		}
		slog.Debug("Added pack", slog.String("path", pfp), slog.Int("files", len(p.Names())))
		s.sources = append(s.sources, packSource{p})
	}
	return nil
}

// AddPack adds a single pack file.
func (s *Search) AddPack(name string) error {
	p, err := pack.NewPackReader(name)
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sources = append(s.sources, packSource{p})
	return nil
}

// Path returns the sources from most to least important.
func (s *Search) Path() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	r := make([]string, 0, len(s.sources))
	for i := len(s.sources) - 1; i >= 0; i-- {
		r = append(r, s.sources[i].String())
	}
	return r
}

// Open returns the first file called name in the search path. Names always
// use forward slashes.
func (s *Search) Open(name string) (File, error) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for i := len(s.sources) - 1; i >= 0; i-- {
		f, err := s.sources[i].open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (s *Search) ReadFile(name string) ([]byte, error) {
	file, err := s.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// OpenLevel loads a level. A bare name like "base1" means maps/base1.bsp.
func (s *Search) OpenLevel(name string) (*bsp.Level, error) {
	p := name
	if Ext(p) == "" {
		p = p + ".bsp"
	}
	if !strings.ContainsAny(p, "/\\") {
		p = "maps/" + p
	}
	f, err := s.Open(p)
	if err != nil {
		return nil, &bsp.IOError{Op: "open", Path: p, Err: err}
	}
	defer f.Close()
	return bsp.Load(StripExt(path.Base(p)), f, f.Size())
}

func (s *Search) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var err error
	for _, src := range s.sources {
		if cerr := src.close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	s.sources = nil
	return err
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}
