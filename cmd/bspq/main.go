// SPDX-License-Identifier: GPL-2.0-or-later

// bspq loads a level and answers spatial queries about it.
//
//	bspq -basedir /games/q2/baseq2 -map base1 -e "leaf 0 0 0" -e "trace 0 0 0 512 0 0"
//
// Without -e the commands are read from stdin, one per line.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"

	"bspworld/alias"
	"bspworld/bsp"
	"bspworld/cbuf"
	"bspworld/cmd"
	"bspworld/collision"
	"bspworld/commandline"
	"bspworld/cvar"
	"bspworld/cvars"
	"bspworld/filesystem"
	"bspworld/history"
	"bspworld/physics"
	"bspworld/visibility"
)

const historyFilename = ".bspq_history"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "bspq: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	out     io.Writer
	level   *bsp.Level
	tracer  *collision.Tracer
	scene   *visibility.Scene
	mover   *physics.Mover
	cvars   *cvars.Cvars
	cmds    cmd.Commands
	aliases *alias.Aliases
	buf     cbuf.CommandBuffer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := commandline.Parse("bspq", args, stderr)
	if err != nil {
		return err
	}

	logLevel := new(slog.LevelVar)
	if opts.Verbose {
		logLevel.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel})))

	reg := cvar.NewRegistry()
	cv := cvars.Register(reg)
	cv.Developer.SetCallback(func(c *cvar.Cvar) {
		if c.Bool() {
			logLevel.Set(slog.LevelDebug)
		} else if !opts.Verbose {
			logLevel.Set(slog.LevelInfo)
		}
	})

	if opts.Config != "" {
		f, err := os.Open(opts.Config)
		if err != nil {
			return err
		}
		err = reg.Exec(f)
		f.Close()
		if err != nil {
			return errors.Wrap(err, opts.Config)
		}
	}

	if opts.Map == "" {
		return errors.New("no level given, use -map")
	}
	var search filesystem.Search
	defer search.Close()
	if err := search.AddDir(opts.BaseDir); err != nil {
		return err
	}
	level, err := search.OpenLevel(opts.Map)
	if err != nil {
		return err
	}

	a := &app{
		out:     stdout,
		level:   level,
		tracer:  collision.NewTracer(level),
		scene:   visibility.NewScene(level),
		cvars:   cv,
		cmds:    cmd.New(),
		aliases: alias.New(stdout),
	}
	a.mover = physics.NewMover(a.tracer, physics.ConfigFromCvars(cv))
	if err := a.addCommands(); err != nil {
		return err
	}
	if err := reg.AddCommands(a.cmds, stdout); err != nil {
		return err
	}
	if err := a.aliases.Register(a.cmds); err != nil {
		return err
	}
	a.buf.SetCommandExecutors([]cbuf.Efunc{
		cbuf.Commands(a.cmds),
		a.aliases.Execute(),
		func(_ *cbuf.CommandBuffer, args cmd.Arguments) (bool, error) {
			return reg.Execute(args, stdout)
		},
	})

	if opts.Entities.IsSet() {
		if err := a.printEntities(level.Entities, opts.Entities.Num()); err != nil {
			return err
		}
	}

	if len(opts.Commands) > 0 {
		for _, c := range opts.Commands {
			a.buf.AddText(c + "\n")
		}
		return a.flush()
	}
	if opts.Entities.IsSet() {
		return nil
	}
	return a.interactive(stdin, filepath.Join(opts.BaseDir, historyFilename))
}

// flush runs everything in the command buffer, including commands queued
// behind a wait.
func (a *app) flush() error {
	a.aliases.Reset()
	for a.buf.Pending() {
		if err := a.buf.Execute(); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) interactive(in io.Reader, historyFile string) error {
	var h history.History
	if err := h.Load(historyFile); err != nil {
		slog.Warn("Could not load history", slog.Any("err", err))
	}
	cmd.Must(a.cmds.Add("history", func(cmd.Arguments) error {
		for i, l := range h.Entries() {
			fmt.Fprintf(a.out, "%4d %s\n", i, l)
		}
		return nil
	}))

	s := bufio.NewScanner(in)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		line, err := h.Resolve(line)
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			continue
		}
		h.Add(line)
		a.buf.AddText(line + "\n")
		if err := a.flush(); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
	if err := h.Save(historyFile); err != nil {
		slog.Warn("Could not save history", slog.Any("err", err))
	}
	return s.Err()
}

func (a *app) printEntities(es []*bsp.Entity, indent int) error {
	m := protojson.MarshalOptions{
		Multiline: indent > 0,
		Indent:    strings.Repeat(" ", indent),
	}
	for _, e := range es {
		s, err := e.ToStruct()
		if err != nil {
			return err
		}
		b, err := m.Marshal(s)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s\n", b)
	}
	return nil
}
