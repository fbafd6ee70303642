// SPDX-License-Identifier: GPL-2.0-or-later

// Package commandline parses the bspq flags.
package commandline

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Options struct {
	BaseDir  string
	Map      string
	Config   string
	Verbose  bool
	Entities boolInt // dump entities, optional indent width
	Commands multiString
}

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func (b *boolInt) IsSet() bool {
	return b.set
}

func (b *boolInt) Num() int {
	return b.num
}

// multiString collects every use of a repeated flag.
type multiString []string

func (m *multiString) Set(s string) error {
	*m = append(*m, s)
	return nil
}

func (m *multiString) String() string {
	if m == nil {
		return ""
	}
	return strings.Join(*m, "; ")
}

// Parse reads the flags in args, without the program name. Usage and errors
// go to out.
func Parse(name string, args []string, out io.Writer) (*Options, error) {
	o := &Options{
		Entities: boolInt{false, 2},
	}
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(out)
	flags.StringVar(&o.BaseDir, "basedir", ".", "game directory searched for files and pak files")
	flags.StringVar(&o.Map, "map", "", "level to load, a bare name means maps/<name>.bsp")
	flags.StringVar(&o.Config, "config", "", "config file with cvar settings")
	flags.BoolVar(&o.Verbose, "v", false, "debug logging")
	flags.Var(&o.Entities, "entities", "print the entities as JSON, optional indent width")
	flags.Var(&o.Commands, "e", "command to run, can be repeated; without it commands are read from stdin")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 && o.Map == "" {
		o.Map = flags.Arg(0)
	}
	return o, nil
}
