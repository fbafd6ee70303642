// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"github.com/pkg/errors"

	"bspworld/cmd"
)

// ErrUnknownCommand is returned for commands no executor accepted.
var ErrUnknownCommand = errors.New("unknown command")

type Efunc func(*CommandBuffer, cmd.Arguments) (bool, error)

type executors []Efunc

func (ex executors) execute(c *CommandBuffer, s string) error {
	a := cmd.Parse(s)
	args := a.Args()
	if len(args) == 0 {
		return nil // no tokens
	}
	for _, e := range ex {
		if ok, err := e(c, a); err != nil {
			return err
		} else if ok {
			return nil
		}
	}
	return errors.Wrapf(ErrUnknownCommand, "%q", args[0].String())
}
