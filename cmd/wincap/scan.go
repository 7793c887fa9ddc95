//go:build windows

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ogreworks/wincap/patterns"
)

func scanCmd(name *string, pid *uint32) *cobra.Command {
	var module string
	var all bool

	cmd := &cobra.Command{
		Use:   "scan <pattern>",
		Short: "Scan a module's address space for a byte pattern (\"48 8B ? 05\")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := attach(*name, *pid)
			if err != nil {
				return err
			}
			defer p.Close()

			pattern, err := patterns.FromText(args[0])
			if err != nil {
				return err
			}

			mod, err := resolveModule(p, module)
			if err != nil {
				return err
			}
			view := mod.View()

			if all {
				hits, err := view.FindAll(pattern, patterns.BoyerMooreHorspool)
				if err != nil {
					return err
				}
				for _, addr := range hits {
					fmt.Printf("%#x\n", addr)
				}
				return nil
			}

			addr, ok, err := view.Find(pattern, patterns.BoyerMooreHorspool)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("not found")
				return nil
			}
			fmt.Printf("%#x\n", addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&module, "module", "", "module to scan (default: main module)")
	cmd.Flags().BoolVar(&all, "all", false, "find every non-overlapping occurrence")
	return cmd
}
