// SPDX-License-Identifier: GPL-2.0-or-later

// Package alias names command sequences, like "alias go \"leaf 0 0 0; stats\"".
package alias

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"bspworld/cbuf"
	"bspworld/cmd"
)

// maxExpansions bounds the alias expansions between two Resets so aliases
// calling each other can not loop forever.
const maxExpansions = 256

type Aliases struct {
	aliases  map[string]string
	expanded int
	out      io.Writer
}

func New(out io.Writer) *Aliases {
	return &Aliases{
		aliases: make(map[string]string),
		out:     out,
	}
}

// Register adds the alias, unalias and unaliasall commands.
func (a *Aliases) Register(c cmd.Commands) error {
	for name, f := range map[string]cmd.Func{
		"alias":      a.alias,
		"unalias":    a.unalias,
		"unaliasall": a.unaliasAll,
	} {
		if err := c.Add(name, f); err != nil {
			return err
		}
	}
	return nil
}

func (a *Aliases) alias(args cmd.Arguments) error {
	switch args.Len() {
	case 1:
		a.list()
	case 2:
		name := args.Argv(1).String()
		if v, ok := a.aliases[name]; ok {
			fmt.Fprintf(a.out, "  %s: %s\n", name, v)
		}
	default:
		a.set(args.Args()[1:])
	}
	return nil
}

func (a *Aliases) list() {
	if len(a.aliases) == 0 {
		fmt.Fprintf(a.out, "no alias commands found\n")
		return
	}
	names := make([]string, 0, len(a.aliases))
	for k := range a.aliases {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(a.out, "  %s: %s\n", k, a.aliases[k])
	}
	fmt.Fprintf(a.out, "%d alias command(s)\n", len(a.aliases))
}

// set joins the parts, the parts have '"' already removed.
func (a *Aliases) set(args []cmd.QArg) {
	parts := make([]string, 0, len(args)-1)
	for _, p := range args[1:] {
		parts = append(parts, p.String())
	}
	a.aliases[args[0].String()] = strings.TrimSpace(strings.Join(parts, " "))
}

func (a *Aliases) unalias(args cmd.Arguments) error {
	if args.Len() != 2 {
		return errors.New("unalias <name> : delete alias")
	}
	name := args.Argv(1).String()
	if _, ok := a.aliases[name]; !ok {
		return errors.Errorf("no alias named %s", name)
	}
	delete(a.aliases, name)
	return nil
}

func (a *Aliases) unaliasAll(cmd.Arguments) error {
	clear(a.aliases)
	return nil
}

func (a *Aliases) Get(name string) (string, bool) {
	v, ok := a.aliases[name]
	return v, ok
}

// Reset allows a new round of expansions.
func (a *Aliases) Reset() {
	a.expanded = 0
}

// Execute returns an executor that replaces an alias by its commands.
func (a *Aliases) Execute() cbuf.Efunc {
	return func(c *cbuf.CommandBuffer, args cmd.Arguments) (bool, error) {
		if args.Len() == 0 {
			return false, nil
		}
		name := args.Argv(0).String()
		v, ok := a.aliases[name]
		if !ok {
			return false, nil
		}
		a.expanded++
		if a.expanded > maxExpansions {
			return true, errors.Errorf("alias %s expanded more than %d times", name, maxExpansions)
		}
		c.InsertText(v)
		return true, nil
	}
}
