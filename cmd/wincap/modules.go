//go:build windows

package main

import (
	"fmt"
	"text/tabwriter"

	"os"

	"github.com/spf13/cobra"
)

func modulesCmd(name *string, pid *uint32) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the modules loaded into the target process",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := attach(*name, *pid)
			if err != nil {
				return err
			}
			defer p.Close()

			mods, err := p.Modules()
			if err != nil {
				return err
			}

			t := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(t, "base\tsize\tname\tpath\n")
			for _, m := range mods {
				fmt.Fprintf(t, "%#x\t%#x\t%s\t%s\n", m.Base(), m.Size(), m.Name(), m.Path())
			}
			return t.Flush()
		},
	}
}
