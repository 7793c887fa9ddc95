//go:build windows

package main

import (
	"fmt"

	"github.com/ogreworks/wincap"
	"github.com/ogreworks/wincap/modules"
)

func attach(name string, pid uint32) (*wincap.Process, error) {
	switch {
	case name != "":
		return wincap.Open(name, wincap.DefaultAccess)
	case pid != 0:
		return wincap.OpenPID(pid, wincap.DefaultAccess)
	default:
		return nil, fmt.Errorf("wincap: one of --name or --pid is required")
	}
}

// resolveModule returns the named module, or the process's main module
// when name is empty.
func resolveModule(p *wincap.Process, name string) (*modules.Module, error) {
	if name == "" {
		return p.MainModule()
	}
	return p.Module(name)
}
