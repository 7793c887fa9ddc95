//go:build windows

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func regionsCmd(name *string, pid *uint32) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "Dump the virtual-memory region enumerator's output",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := attach(*name, *pid)
			if err != nil {
				return err
			}
			defer p.Close()

			seq := p.Regions(0, ^uintptr(0))
			t := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(t, "base\tsize\tstate\ttype\tprotection\n")
			for {
				r, ok, err := seq.Next()
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				fmt.Fprintf(t, "%#x\t%#x\t%d\t%d\t%s\n", r.Base, r.Size, r.State, r.Type, r.Protection)
			}
			return t.Flush()
		},
	}
}
