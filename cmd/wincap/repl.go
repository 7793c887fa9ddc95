//go:build windows

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/ogreworks/wincap/modules"
	"github.com/ogreworks/wincap/patterns"
)

// replProcess is the subset of *wincap.Process the repl's commands use,
// narrowed to an interface so runReplCommand can be exercised against a
// fake in tests without attaching to a real process.
type replProcess interface {
	Modules() ([]*modules.Module, error)
	MainModule() (*modules.Module, error)
}

func replCmd(name *string, pid *uint32) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive shell for attaching and issuing commands against a process",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := attach(*name, *pid)
			if err != nil {
				return err
			}
			defer p.Close()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:      fmt.Sprintf("wincap(%s)> ", p.Name()),
				HistoryFile: "",
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt {
					continue
				}
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				if err := runReplCommand(p, strings.TrimSpace(line)); err != nil {
					fmt.Fprintf(rl.Stderr(), "error: %v\n", err)
				}
			}
		},
	}
}

func runReplCommand(p replProcess, line string) error {
	if line == "" {
		return nil
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "modules":
		mods, err := p.Modules()
		if err != nil {
			return err
		}
		for _, m := range mods {
			fmt.Printf("%#x %s\n", m.Base(), m.Name())
		}
		return nil
	case "scan":
		if len(fields) < 2 {
			return fmt.Errorf("usage: scan <pattern text>")
		}
		pattern, err := patterns.FromText(strings.Join(fields[1:], " "))
		if err != nil {
			return err
		}
		mod, err := p.MainModule()
		if err != nil {
			return err
		}
		addr, ok, err := mod.View().Find(pattern, patterns.BoyerMooreHorspool)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("not found")
			return nil
		}
		fmt.Printf("%#x\n", addr)
		return nil
	default:
		return fmt.Errorf("unknown command %q (try: modules, scan)", fields[0])
	}
}
