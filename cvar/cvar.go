// SPDX-License-Identifier: GPL-2.0-or-later

// Package cvar holds named configuration values which can be changed at
// runtime by console commands or config files.
package cvar

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"bspworld/cmd"
)

type flag uint64

const (
	// cvar flags bitfield
	NONE    flag = 0
	ARCHIVE flag = 1
	NOTIFY  flag = 1 << 1
	ROM     flag = 1 << 6
)

type CallbackFunc func(cv *Cvar)

type Cvar struct {
	archive  bool
	notify   bool
	rom      bool
	user     bool
	callback CallbackFunc
	name     string
	// stringValue is the truth, value the derived one
	stringValue  string
	value        float32
	defaultValue string
	id           int
}

func (cv *Cvar) Archive() bool {
	return cv.archive
}

func (cv *Cvar) Notify() bool {
	return cv.notify
}

func (cv *Cvar) UserDefined() bool {
	return cv.user
}

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

func (cv *Cvar) SetByString(s string) {
	if cv.rom {
		return
	}
	cv.stringValue = s
	pf, _ := strconv.ParseFloat(cv.stringValue, 32)
	cv.value = float32(pf)
	if cv.callback != nil {
		cv.callback(cv)
	}
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Cvar) String() string {
	return cv.stringValue
}

func (cv *Cvar) Default() string {
	return cv.defaultValue
}

func (cv *Cvar) ID() int {
	return cv.id
}

func (cv *Cvar) Name() string {
	return cv.name
}

func (cv *Cvar) Value() float32 {
	return cv.value
}

func (cv *Cvar) SetValue(value float32) {
	if float32(int(value)) == value {
		v := strconv.FormatInt(int64(value), 10)
		cv.SetByString(v)
	} else {
		v := strconv.FormatFloat(float64(value), 'f', -1, 32)
		cv.SetByString(v)
	}
}

func (cv *Cvar) Toggle() {
	if cv.String() == "1" {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
}

func (cv *Cvar) Bool() bool {
	return cv.stringValue != "0"
}

// Registry owns a set of cvars. It is not safe for concurrent use.
type Registry struct {
	cvars  []*Cvar
	byName map[string]*Cvar
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Cvar)}
}

// All returns the cvars in registration order.
func (r *Registry) All() []*Cvar {
	return r.cvars
}

func (r *Registry) Get(name string) (*Cvar, bool) {
	cv, ok := r.byName[strings.ToLower(name)]
	return cv, ok
}

func (r *Registry) GetByID(id int) (*Cvar, error) {
	if id < 0 || id >= len(r.cvars) {
		return nil, errors.Errorf("cvar id %d out of bounds", id)
	}
	return r.cvars[id], nil
}

func (r *Registry) create(name, value string) *Cvar {
	cv := &Cvar{name: name, defaultValue: value}
	cv.SetByString(value)
	cv.id = len(r.cvars)
	r.cvars = append(r.cvars, cv)
	r.byName[strings.ToLower(name)] = cv
	return cv
}

func (r *Registry) Register(name, value string, flags flag) (*Cvar, error) {
	if _, ok := r.Get(name); ok {
		return nil, errors.Errorf("Can't register variable %s, already defined", name)
	}

	cv := r.create(name, value)

	if flags&ARCHIVE != 0 {
		cv.archive = true
	}
	if flags&NOTIFY != 0 {
		cv.notify = true
	}
	if flags&ROM != 0 {
		cv.rom = true
	}
	return cv, nil
}

func (r *Registry) MustRegister(n, v string, flag flag) *Cvar {
	cv, err := r.Register(n, v, flag)
	if err != nil {
		panic(err.Error())
	}
	return cv
}

// Set changes an existing cvar or creates a user defined one.
func (r *Registry) Set(name, value string) *Cvar {
	if cv, ok := r.Get(name); ok {
		cv.SetByString(value)
		return cv
	}
	cv := r.create(name, value)
	cv.user = true
	return cv
}

// Execute handles "name" and "name value" lines for existing cvars. It reports
// whether the arguments named a cvar.
func (r *Registry) Execute(a cmd.Arguments, out io.Writer) (bool, error) {
	args := a.Args()
	if len(args) == 0 {
		return false, nil
	}
	cv, ok := r.Get(args[0].String())
	if !ok {
		return false, nil
	}
	if len(args) == 1 {
		fmt.Fprintf(out, "\"%s\" is \"%s\"\n", cv.Name(), cv.String())
		return true, nil
	}
	cv.SetByString(args[1].String())
	return true, nil
}

// Exec runs a config file. Each line is either "set name value" or
// "name value", text after // is ignored.
func (r *Registry) Exec(src io.Reader) error {
	s := bufio.NewScanner(src)
	line := 0
	for s.Scan() {
		line++
		a := cmd.Parse(s.Text())
		args := a.Args()
		switch {
		case len(args) == 0:
			continue
		case strings.EqualFold(args[0].String(), "set"):
			if len(args) < 3 {
				return errors.Errorf("line %d: set <cvar> <value>", line)
			}
			r.Set(args[1].String(), args[2].String())
		default:
			if ok, _ := r.Execute(a, io.Discard); !ok {
				return errors.Errorf("line %d: unknown cvar %q", line, args[0].String())
			}
			if len(args) < 2 {
				return errors.Errorf("line %d: missing value for %s", line, args[0].String())
			}
		}
	}
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "reading config")
	}
	slog.Debug("Executed config", slog.Int("lines", line))
	return nil
}

// Sorted returns the cvars ordered by name.
func (r *Registry) Sorted() []*Cvar {
	cvs := make([]*Cvar, len(r.cvars))
	copy(cvs, r.cvars)
	sort.Slice(cvs, func(i, j int) bool { return cvs[i].name < cvs[j].name })
	return cvs
}
