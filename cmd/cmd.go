// SPDX-License-Identifier: GPL-2.0-or-later

// Package cmd tokenizes console lines and dispatches them to named commands.
package cmd

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type Func func(args Arguments) error

type Commands map[string]Func

func New() Commands {
	return make(Commands)
}

func (c Commands) Add(name string, f Func) error {
	ln := strings.ToLower(name)
	if _, ok := c[ln]; ok {
		return errors.Errorf("command %s already defined", ln)
	}
	c[ln] = f
	return nil
}

func (c Commands) Exists(cmdName string) bool {
	_, ok := c[strings.ToLower(cmdName)]
	return ok
}

func (c Commands) List() []string {
	cmds := make([]string, 0, len(c))
	for cmd := range c {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)
	return cmds
}

// Execute runs the command named by the first argument. It reports whether
// such a command exists.
func (c Commands) Execute(a Arguments) (bool, error) {
	n := a.Args()
	if len(n) == 0 {
		return false, nil
	}
	name := strings.ToLower(n[0].String())
	cmd, ok := c[name]
	if !ok {
		return false, nil
	}
	if err := cmd(a); err != nil {
		return true, errors.Wrap(err, name)
	}
	return true, nil
}

func Must(err error) {
	if err != nil {
		panic(err.Error())
	}
}
