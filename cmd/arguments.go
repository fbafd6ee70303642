// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"bspworld/math/vec"
)

// QArg is a single token of a command line. Tokens that read as a number
// carry the parsed value as well.
type QArg struct {
	a     string
	num   float64
	isNum bool
}

func newArg(s string) QArg {
	a := QArg{a: s}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		a.num, a.isNum = f, true
	}
	return a
}

func (a QArg) String() string {
	return a.a
}

// IsNumber reports whether the token is a number.
func (a QArg) IsNumber() bool {
	return a.isNum
}

// Int returns the token as integer, 0 for non numbers.
func (a QArg) Int() int {
	return int(a.num)
}

func (a QArg) Float32() float32 {
	return float32(a.num)
}

type Arguments struct {
	args []QArg
	// the whole line without surrounding space
	full string
}

func (c *Arguments) Argv(i int) QArg {
	if i < 0 || i >= len(c.args) {
		slog.Debug("Argv out of bounds", slog.Int("i", i), slog.Int("len", len(c.args)))
		return QArg{}
	}
	return c.args[i]
}

func (c *Arguments) Len() int {
	return len(c.args)
}

// Floats returns the n numbers starting at argument from.
func (c *Arguments) Floats(from, n int) ([]float32, error) {
	if from+n > len(c.args) {
		return nil, errors.Errorf("want %d numbers, got %d", n, max(len(c.args)-from, 0))
	}
	r := make([]float32, n)
	for i := range r {
		a := c.args[from+i]
		if !a.isNum {
			return nil, errors.Errorf("argument %d: %q is no number", from+i, a.a)
		}
		r[i] = float32(a.num)
	}
	return r, nil
}

// Vec3 parses the three arguments starting at from.
func (c *Arguments) Vec3(from int) (vec.Vec3, error) {
	f, err := c.Floats(from, 3)
	if err != nil {
		return vec.Vec3{}, err
	}
	return vec.Vec3{f[0], f[1], f[2]}, nil
}

func (c *Arguments) Full() string {
	return c.full
}

func (c *Arguments) Args() []QArg {
	return c.args
}

// ArgumentString returns the line after the command name with surrounding
// quotes removed.
func (c *Arguments) ArgumentString() string {
	if len(c.args) < 2 {
		return ""
	}
	r := strings.TrimPrefix(c.full, c.args[0].a)
	r = strings.TrimLeft(r, " \t")
	if len(r) > 1 && r[0] == '"' {
		r = strings.Trim(r, "\"\t\n\v\f\r ")
	}
	return r
}

// Parse splits a single command into tokens. Tokens are separated by spaces
// and tabs, a double quote starts a token running to the next quote and "//"
// at the start of a token comments out the rest of the line. Splitting into
// commands at ';' and newlines is left to the command buffer.
func Parse(s string) Arguments {
	args := Arguments{
		full: strings.TrimSpace(s),
		args: []QArg{},
	}
	in := args.full
	for {
		in = strings.TrimLeft(in, " \t")
		switch {
		case in == "", in[0] == '\n', in[0] == '\r', strings.HasPrefix(in, "//"):
			return args
		case in[0] == '"':
			end := strings.IndexAny(in[1:], "\"\n")
			if end < 0 || in[1+end] != '"' {
				slog.Debug("Unterminated string", slog.String("line", s))
				return args
			}
			args.args = append(args.args, newArg(in[1:1+end]))
			in = in[2+end:]
		default:
			end := strings.IndexFunc(in, isSeparator)
			if end < 0 {
				end = len(in)
			}
			args.args = append(args.args, newArg(in[:end]))
			in = in[end:]
		}
	}
}

func isSeparator(r rune) bool {
	return r <= ' '
}
