//go:build windows

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ogreworks/wincap/protflags"
)

func protectCmd(name *string, pid *uint32) *cobra.Command {
	var size uint64
	var flags string
	var hold bool

	cmd := &cobra.Command{
		Use:   "protect <address>",
		Short: "Change the protection of a memory range, restoring it on exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := strconv.ParseUint(args[0], 0, 64)
			if err != nil {
				return fmt.Errorf("invalid address %q: %w", args[0], err)
			}

			newFlags, err := protflags.Parse(flags)
			if err != nil {
				return err
			}

			p, err := attach(*name, *pid)
			if err != nil {
				return err
			}
			defer p.Close()

			guard, err := p.Protect(uintptr(addr), uintptr(size), newFlags)
			if err != nil {
				return err
			}
			fmt.Printf("old=%s new=%s\n", guard.OldFlags(), guard.NewFlags())

			if !hold {
				return guard.Release()
			}
			fmt.Println("protection held; press Enter to restore")
			fmt.Scanln()
			return guard.Release()
		},
	}
	cmd.Flags().Uint64Var(&size, "size", 4096, "byte length of the range to protect")
	cmd.Flags().StringVar(&flags, "flags", "readwrite", "new protection, e.g. \"executereadwrite\"")
	cmd.Flags().BoolVar(&hold, "hold", false, "wait for Enter before restoring the old protection")
	return cmd
}
