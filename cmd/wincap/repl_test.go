//go:build windows

package main

import (
	"testing"

	"github.com/ogreworks/wincap/modules"
)

type fakeReplProcess struct {
	modules []*modules.Module
	main    *modules.Module
	mainErr error
}

func (f fakeReplProcess) Modules() ([]*modules.Module, error) { return f.modules, nil }
func (f fakeReplProcess) MainModule() (*modules.Module, error) { return f.main, f.mainErr }

func TestRunReplCommandEmptyLine(t *testing.T) {
	if err := runReplCommand(fakeReplProcess{}, ""); err != nil {
		t.Fatalf("empty line should be a no-op, got %v", err)
	}
}

func TestRunReplCommandUnknown(t *testing.T) {
	if err := runReplCommand(fakeReplProcess{}, "bogus"); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestRunReplCommandModulesListsNothingWhenEmpty(t *testing.T) {
	if err := runReplCommand(fakeReplProcess{}, "modules"); err != nil {
		t.Fatalf("modules: %v", err)
	}
}

func TestRunReplCommandScanRequiresArgument(t *testing.T) {
	if err := runReplCommand(fakeReplProcess{}, "scan"); err == nil {
		t.Fatalf("expected error when scan is given no pattern")
	}
}
