// SPDX-License-Identifier: GPL-2.0-or-later

// Package pack reads and writes PACK archives, the flat file containers
// levels are usually shipped in.
package pack

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
)

var ErrNotPack = errors.New("not a pack")

type header struct {
	ID     [4]byte
	Offset int32
	Size   int32
}

type entry struct {
	Name   [56]byte
	Offset int32
	Size   int32
}

const (
	headerSize = 12
	entrySize  = 64
)

type Pack struct {
	r     io.ReaderAt
	c     io.Closer
	files map[string]*qfile
	name  string
}

type qfile struct {
	offset int64
	size   int64
}

// Open returns a io.SectionReader or os.ErrNotExist if the pak has no entry
// with the provided name.
func (p *Pack) Open(name string) (*io.SectionReader, error) {
	q, ok := p.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NewSectionReader(p.r, q.offset, q.size), nil
}

// Names returns the sorted entry names.
func (p *Pack) Names() []string {
	n := make([]string, 0, len(p.files))
	for name := range p.files {
		n = append(n, name)
	}
	sort.Strings(n)
	return n
}

func (p *Pack) String() string {
	return p.name
}

func (p *Pack) Close() error {
	if p.c == nil {
		return nil
	}
	return p.c.Close()
}

func (p *Pack) init(size int64) error {
	var h header
	if err := binary.Read(io.NewSectionReader(p.r, 0, headerSize), binary.LittleEndian, &h); err != nil {
		return errors.Wrap(ErrNotPack, err.Error())
	}
	if !bytes.Equal([]byte("PACK"), h.ID[:]) {
		return ErrNotPack
	}
	if h.Offset < 0 || h.Size < 0 || int64(h.Offset)+int64(h.Size) > size {
		return errors.Wrapf(ErrNotPack, "directory %d+%d outside of %d bytes", h.Offset, h.Size, size)
	}
	filenum := h.Size / entrySize
	entries := make([]entry, filenum)
	dir := io.NewSectionReader(p.r, int64(h.Offset), int64(h.Size))
	if err := binary.Read(dir, binary.LittleEndian, entries); err != nil {
		return errors.Wrap(err, "reading directory")
	}
	p.files = make(map[string]*qfile, filenum)
	for _, e := range entries {
		n := bytes.IndexByte(e.Name[:], 0)
		if n < 0 {
			n = len(e.Name)
		}
		name := string(e.Name[:n])
		if p.files[name] != nil {
			return errors.Errorf("files in pack are not unique: %s", name)
		}
		if e.Offset < 0 || e.Size < 0 || int64(e.Offset)+int64(e.Size) > size {
			return errors.Wrapf(ErrNotPack, "entry %s outside of the file", name)
		}
		p.files[name] = &qfile{
			offset: int64(e.Offset),
			size:   int64(e.Size),
		}
	}
	return nil
}

// NewReader reads the directory of a pack stored in r.
func NewReader(name string, r io.ReaderAt, size int64) (*Pack, error) {
	p := &Pack{r: r, name: name}
	if err := p.init(size); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return p, nil
}

// NewPackReader opens the pack file name. It has to be closed by the caller.
func NewPackReader(name string) (*Pack, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	p, err := NewReader(name, f, fi.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	p.c = f
	return p, nil
}

// Write stores files as a pack in w. Entries are written in name order.
func Write(w io.Writer, files map[string][]byte) error {
	names := make([]string, 0, len(files))
	offset := int32(headerSize)
	for n, data := range files {
		if len(n) >= 56 {
			return errors.Errorf("name too long: %s", n)
		}
		names = append(names, n)
		offset += int32(len(data))
	}
	sort.Strings(names)

	h := header{
		Offset: offset,
		Size:   int32(len(names) * entrySize),
	}
	copy(h.ID[:], "PACK")
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	entries := make([]entry, len(names))
	pos := int32(headerSize)
	for i, n := range names {
		data := files[n]
		if _, err := w.Write(data); err != nil {
			return err
		}
		copy(entries[i].Name[:], n)
		entries[i].Offset = pos
		entries[i].Size = int32(len(data))
		pos += int32(len(data))
	}
	return binary.Write(w, binary.LittleEndian, entries)
}
