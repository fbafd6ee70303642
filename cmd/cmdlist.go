// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"io"
	"strings"
)

// ListFunc returns a command printing all commands, or only those starting
// with its first argument.
func (c Commands) ListFunc(w io.Writer) Func {
	return func(a Arguments) error {
		args := a.Args()
		switch len(args) {
		case 0, 1:
			c.PrintList(w, "")
		default:
			c.PrintList(w, args[1].String())
		}
		return nil
	}
}

func (c Commands) PrintList(w io.Writer, prefix string) {
	count := 0
	for _, name := range c.List() {
		if strings.HasPrefix(name, prefix) {
			fmt.Fprintf(w, "  %s\n", name)
			count++
		}
	}
	if prefix == "" {
		fmt.Fprintf(w, "%v commands\n", count)
		return
	}
	fmt.Fprintf(w, "%v commands beginning with \"%v\"\n", count, prefix)
}
