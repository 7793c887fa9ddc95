//go:build windows

// Command wincap is a small inspection CLI over the wincap library: attach
// to a process by name or pid, list its modules and memory regions, scan
// for byte patterns, resolve RTTI objects, and change page protection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		exitf("%v\n", err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wincap",
		Short: "Inspect and manipulate a live Windows process",
	}

	var name string
	var pid uint32
	root.PersistentFlags().StringVar(&name, "name", "", "attach by process name")
	root.PersistentFlags().Uint32Var(&pid, "pid", 0, "attach by process id")

	root.AddCommand(
		modulesCmd(&name, &pid),
		regionsCmd(&name, &pid),
		scanCmd(&name, &pid),
		objectsCmd(&name, &pid),
		protectCmd(&name, &pid),
		replCmd(&name, &pid),
	)
	return root
}
