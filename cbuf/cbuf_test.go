// SPDX-License-Identifier: GPL-2.0-or-later

package cbuf

import (
	"errors"
	"reflect"
	"testing"

	"bspworld/cmd"
)

func TestWait(t *testing.T) {
	c := CommandBuffer{}
	runCount := 0
	c.SetCommandExecutors([]Efunc{
		func(cb *CommandBuffer, a cmd.Arguments) (bool, error) {
			if a.Argv(0).String() == "wait" {
				cb.Wait()
				return true, nil
			}
			runCount++
			return true, nil
		}})
	c.AddText("wait\n")
	c.AddText("test\n")
	c.AddText("test\n")
	c.AddText("wait\n")
	c.AddText("test\n")
	if err := c.Execute(); err != nil {
		t.Fatal(err)
	}
	if runCount != 0 {
		t.Errorf("runCount=%v, want %v", runCount, 0)
	}
	c.Execute()
	if runCount != 2 {
		t.Errorf("runCount=%v, want %v", runCount, 2)
	}
	c.Execute()
	if runCount != 3 {
		t.Errorf("runCount=%v, want %v", runCount, 3)
	}
	if c.Pending() {
		t.Errorf("Pending() = true after all commands ran")
	}
}

func TestSplit(t *testing.T) {
	var got []string
	c := CommandBuffer{}
	c.SetCommandExecutors([]Efunc{
		func(_ *CommandBuffer, a cmd.Arguments) (bool, error) {
			got = append(got, a.Full())
			return true, nil
		}})
	c.AddText(`leaf 0 0 0; set msg "a;b"` + "\ntrace 1 2 3 4 5 6\n\n")
	c.InsertText("stats")
	if err := c.Execute(); err != nil {
		t.Fatal(err)
	}
	want := []string{"stats", "leaf 0 0 0", `set msg "a;b"`, "trace 1 2 3 4 5 6"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("executed %q, want %q", got, want)
	}
}

func TestExecutorChain(t *testing.T) {
	cmds := cmd.New()
	ran := false
	cmd.Must(cmds.Add("leaf", func(cmd.Arguments) error {
		ran = true
		return nil
	}))
	c := CommandBuffer{}
	c.SetCommandExecutors([]Efunc{
		func(*CommandBuffer, cmd.Arguments) (bool, error) { return false, nil },
		Commands(cmds),
	})
	c.AddText("leaf 1 2 3; nosuch; leaf")
	err := c.Execute()
	if !ran {
		t.Errorf("leaf did not run")
	}
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Execute() err = %v, want ErrUnknownCommand", err)
	}
	if !c.Pending() {
		t.Errorf("commands after the error were dropped")
	}
}
