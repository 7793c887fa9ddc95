//go:build windows

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func objectsCmd(name *string, pid *uint32) *cobra.Command {
	var module string
	var findInstance bool
	var parallel bool

	cmd := &cobra.Command{
		Use:   "objects <mangled-name>",
		Short: "Resolve MSVC RTTI vtables for a mangled class name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := attach(*name, *pid)
			if err != nil {
				return err
			}
			defer p.Close()

			mod, err := resolveModule(p, module)
			if err != nil {
				return err
			}

			objects, err := p.FetchObjects(mod, args[0])
			if err != nil {
				return err
			}
			if len(objects) == 0 {
				fmt.Println("no objects found")
				return nil
			}

			for _, obj := range objects {
				demangled, _ := obj.Name()
				fmt.Printf("vtable=%#x name=%s\n", obj.VtableAddr(), demangled)

				if !findInstance {
					continue
				}
				addr, ok, err := p.FindInstanceOf(obj, nil, parallel)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("  no live instance found")
					continue
				}
				fmt.Printf("  instance=%#x\n", addr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&module, "module", "", "module to search (default: main module)")
	cmd.Flags().BoolVar(&findInstance, "find-instance", false, "also search the heap for a live instance of each vtable")
	cmd.Flags().BoolVar(&parallel, "parallel", true, "scan candidate regions concurrently when finding instances")
	return cmd
}
