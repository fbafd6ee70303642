// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrFormat is returned for data which is not a valid IBSP level. Errors
// returned by Load wrap it with the offending detail.
var ErrFormat = errors.New("bad level format")

// IOError is returned when the level data could not be read at all.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func formatErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrFormat, format, args...)
}
