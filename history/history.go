// SPDX-License-Identifier: GPL-2.0-or-later

// Package history keeps the lines entered at the bspq prompt.
package history

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// add a max size to prevent the file from growing indefinitely
	maxHistory = 32
)

type History struct {
	txt []string
	idx int
}

func (h *History) String() string {
	if len(h.txt) == h.idx {
		return ""
	}
	return h.txt[h.idx]
}

func (h *History) Up() {
	if h.idx > 0 {
		h.idx--
	}
}

func (h *History) Down() {
	if h.idx < len(h.txt) {
		h.idx++
	}
}

func (h *History) Add(s string) {
	h.txt = append(h.txt, s)
	h.idx = len(h.txt)
}

// Last returns the most recent line.
func (h *History) Last() (string, bool) {
	if len(h.txt) == 0 {
		return "", false
	}
	return h.txt[len(h.txt)-1], true
}

func (h *History) Entries() []string {
	return h.txt
}

// Resolve replaces "!!" by the last line and "!n" by entry n. Other lines are
// returned unchanged.
func (h *History) Resolve(line string) (string, error) {
	ref, ok := strings.CutPrefix(line, "!")
	if !ok {
		return line, nil
	}
	if ref == "!" {
		last, ok := h.Last()
		if !ok {
			return "", pkgerrors.New("history is empty")
		}
		return last, nil
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 0 || n >= len(h.txt) {
		return "", pkgerrors.Errorf("no history entry %s", ref)
	}
	return h.txt[n], nil
}

// Load reads a history file written by Save. A missing file is no error.
func (h *History) Load(name string) error {
	in, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	data := &structpb.ListValue{}
	if err := proto.Unmarshal(in, data); err != nil {
		return pkgerrors.Wrap(err, "failed to decode history")
	}
	h.txt = h.txt[:0]
	for _, v := range data.GetValues() {
		h.txt = append(h.txt, v.GetStringValue())
	}
	h.idx = len(h.txt)
	return nil
}

// Save writes the newest entries to name.
func (h *History) Save(name string) error {
	l := max(len(h.txt)-maxHistory, 0)
	data := &structpb.ListValue{}
	for _, s := range h.txt[l:] {
		data.Values = append(data.Values, structpb.NewStringValue(s))
	}
	out, err := proto.Marshal(data)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode history")
	}
	if err := os.WriteFile(name, out, 0660); err != nil {
		return pkgerrors.Wrap(err, "failed to write history file")
	}
	return nil
}
