// SPDX-License-Identifier: GPL-2.0-or-later

// Package cbuf buffers console text and runs it one command at a time.
package cbuf

import (
	"bspworld/cmd"
)

type CommandBuffer struct {
	buf string
	// set by the wait command, the commands after it run on the next Execute
	wait      bool
	executors executors
}

// SetCommandExecutors sets the executors a command is offered to, in order.
func (c *CommandBuffer) SetCommandExecutors(e []Efunc) {
	c.executors = executors(e)
}

// Wait stops the running Execute after the current command.
func (c *CommandBuffer) Wait() {
	c.wait = true
}

// Execute runs the buffered commands separated by ';' or newlines. A ';'
// inside quotes does not end a command. It stops at the first error.
func (c *CommandBuffer) Execute() error {
	for len(c.buf) != 0 {
		i := 0
		quote := false
	LineLoop:
		for i = 0; i < len(c.buf); i++ {
			switch c.buf[i] {
			case '"':
				quote = !quote
				continue LineLoop
			case ';':
				if quote {
					continue LineLoop
				}
				break LineLoop
			case '\n':
				break LineLoop
			}
		}
		// do not put ';' or '\n' in line
		line := c.buf[:i]
		// but remove this char as well
		if i < len(c.buf) {
			i++
		}
		c.buf = c.buf[i:]
		if err := c.executors.execute(c, line); err != nil {
			return err
		}
		if c.wait {
			c.wait = false
			return nil
		}
	}
	return nil
}

// Pending reports whether commands are left in the buffer.
func (c *CommandBuffer) Pending() bool {
	return len(c.buf) != 0
}

func (c *CommandBuffer) AddText(text string) {
	c.buf = c.buf + text
}

func (c *CommandBuffer) InsertText(text string) {
	c.buf = text + "\n" + c.buf
}

// Commands returns an executor running the commands registered in cmds.
func Commands(cmds cmd.Commands) Efunc {
	return func(_ *CommandBuffer, a cmd.Arguments) (bool, error) {
		return cmds.Execute(a)
	}
}
