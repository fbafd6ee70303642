// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"

	"bspworld/math/vec"
)

type Entity struct {
	properties map[string]string
}

func NewEntity(p []byte) *Entity {
	e := &Entity{properties: make(map[string]string)}
	// parse the entity line by line
	for _, l := range bytes.Split(p, []byte("\n")) {
		// look for something of the form
		// "key" "value"
		var f [4]int
		r := l
		ok := true
		for i := range f {
			q := bytes.IndexByte(r, '"')
			if q == -1 {
				ok = false
				break
			}
			f[i] = len(l) - len(r) + q
			r = r[q+1:]
		}
		if !ok {
			continue
		}
		e.properties[string(l[f[0]+1:f[1]])] = string(l[f[2]+1 : f[3]])
	}
	return e
}

func (e *Entity) Property(name string) (string, bool) {
	v, ok := e.properties[name]
	return v, ok
}

func (e *Entity) Name() (string, bool) {
	v, ok := e.properties["classname"]
	return v, ok
}

// PropertyNames returns the keys in sorted order.
func (e *Entity) PropertyNames() []string {
	n := make([]string, 0, len(e.properties))
	for k := range e.properties {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}

// Vec3 parses a "x y z" property like origin.
func (e *Entity) Vec3(name string) (vec.Vec3, bool) {
	var r vec.Vec3
	v, ok := e.properties[name]
	if !ok {
		return r, false
	}
	f := strings.Fields(v)
	if len(f) != 3 {
		return r, false
	}
	for i, s := range f {
		x, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return vec.Vec3{}, false
		}
		r[i] = float32(x)
	}
	return r, true
}

// Model returns the submodel index of brush entities, their model key is "*N".
func (e *Entity) Model() (int, bool) {
	v, ok := e.properties["model"]
	if !ok || !strings.HasPrefix(v, "*") {
		return 0, false
	}
	i, err := strconv.Atoi(v[1:])
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

func (e *Entity) ToStruct() (*structpb.Struct, error) {
	m := make(map[string]any, len(e.properties))
	for k, v := range e.properties {
		m[k] = v
	}
	return structpb.NewStruct(m)
}

func ParseEntities(data []byte) ([]*Entity, error) {
	/*
		The data looks like:
		{
		  "name" "value"
		  "name2" "value2"
		}
		{
		  "name3" "value"
		  {
		    ()()()...
		  }
		}
		But I have not seen the nested stuff
	*/
	// First split the entities
	es := []*Entity{}
	var ess [][]byte
	var ob, q int
	start := -1
	for i, b := range data {
		switch b {
		case '{':
			if q != 0 {
				break
			}
			if start == -1 {
				start = i
			} else {
				ob++
			}
		case '}':
			if q != 0 {
				break
			}
			if start == -1 {
				return nil, errors.Errorf("unexpected '}' at byte %d", i)
			}
			if ob == 0 {
				ess = append(ess, data[start:i+1])
				start = -1
			} else {
				ob--
			}
		case '"':
			q ^= 1
		}
	}
	if start != -1 {
		return nil, errors.Errorf("entity at byte %d is not closed", start)
	}
	for _, e := range ess {
		es = append(es, NewEntity(e))
	}
	return es, nil
}
