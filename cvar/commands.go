// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"bspworld/cmd"
)

type console struct {
	r    *Registry
	cmds cmd.Commands
	out  io.Writer
}

// AddCommands registers the cvar console commands in c. Their output goes
// to out.
func (r *Registry) AddCommands(c cmd.Commands, out io.Writer) error {
	con := &console{r: r, cmds: c, out: out}
	for name, f := range map[string]cmd.Func{
		"cvarlist": con.list,
		"cycle":    con.cycle,
		"inc":      con.inc,
		"reset":    con.reset,
		"resetall": con.resetAll,
		"set":      con.set,
		"toggle":   con.toggle,
	} {
		if err := c.Add(name, f); err != nil {
			return err
		}
	}
	return nil
}

func (c *console) set(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch {
	case len(args) >= 2:
		if c.cmds.Exists(args[0].String()) {
			fmt.Fprintf(c.out, "conflict with command\n")
			return nil
		}
		c.r.Set(args[0].String(), args[1].String())
	default:
		fmt.Fprintf(c.out, "set <cvar> <value>\n")
	}
	return nil
}

func (c *console) toggle(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 1:
		arg := args[0].String()
		if cv, ok := c.r.Get(arg); ok {
			cv.Toggle()
		} else {
			fmt.Fprintf(c.out, "toggle: variable %v not found\n", arg)
		}
	default:
		fmt.Fprintf(c.out, "toggle <cvar> : toggle cvar\n")
	}
	return nil
}

func (c *console) incr(n string, v float32) {
	if cv, ok := c.r.Get(n); ok {
		cv.SetValue(cv.Value() + v)
	} else {
		slog.Debug("Cvar not found", slog.String("name", n))
		fmt.Fprintf(c.out, "inc: variable %v not found\n", n)
	}
}

func (c *console) inc(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 1:
		c.incr(args[0].String(), 1)
	case 2:
		c.incr(args[0].String(), args[1].Float32())
	default:
		fmt.Fprintf(c.out, "inc <cvar> [amount] : increment cvar\n")
	}
	return nil
}

func (c *console) reset(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 1:
		arg := args[0].String()
		if cv, ok := c.r.Get(arg); ok {
			cv.Reset()
		} else {
			fmt.Fprintf(c.out, "reset: variable %v not found\n", arg)
		}
	default:
		fmt.Fprintf(c.out, "reset <cvar> : reset cvar to default\n")
	}
	return nil
}

func (c *console) resetAll(_ cmd.Arguments) error {
	for _, cv := range c.r.All() {
		cv.Reset()
	}
	return nil
}

func (c *console) list(a cmd.Arguments) error {
	prefix := ""
	if args := a.Args(); len(args) > 1 {
		prefix = args[1].String()
	}
	count := 0
	for _, v := range c.r.Sorted() {
		if !strings.HasPrefix(v.Name(), prefix) {
			continue
		}
		count++
		archive := " "
		if v.Archive() {
			archive = "*"
		}
		fmt.Fprintf(c.out, "%s %s \"%s\"\n", archive, v.Name(), v.String())
	}
	if prefix == "" {
		fmt.Fprintf(c.out, "%v cvars\n", count)
	} else {
		fmt.Fprintf(c.out, "%v cvars beginning with \"%v\"\n", count, prefix)
	}
	return nil
}

func (c *console) cycle(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) < 2 {
		fmt.Fprintf(c.out, "cycle <cvar> <value list>: cycle cvar through a list of values\n")
		return nil
	}
	cv, ok := c.r.Get(args[0].String())
	if !ok {
		fmt.Fprintf(c.out, "cycle: variable %v not found\n", args[0].String())
		return nil
	}
	oldValue := cv.String()
	i := 0
	for i < len(args)-1 {
		i++
		if oldValue == args[i].String() {
			break
		}
	}
	i %= len(args) - 1
	i++
	cv.SetByString(args[i].String())
	return nil
}
