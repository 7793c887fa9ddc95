package werrors

import (
	"errors"
	"syscall"
	"testing"
)

func TestWrapCopiesErrnoCode(t *testing.T) {
	err := Wrap(OsFailure, "OpenProcess", syscall.Errno(5))
	if err.Code != 5 {
		t.Fatalf("Code = %d, want 5", err.Code)
	}
	if err.Kind != OsFailure {
		t.Fatalf("Kind = %v, want OsFailure", err.Kind)
	}
}

func TestWrapLeavesCodeZeroForNonErrno(t *testing.T) {
	err := Wrap(OsFailure, "OpenProcess", errors.New("boom"))
	if err.Code != 0 {
		t.Fatalf("Code = %d, want 0", err.Code)
	}
}

func TestFromWin32(t *testing.T) {
	err := FromWin32(5)
	if err.Kind != OsFailure {
		t.Fatalf("Kind = %v, want OsFailure", err.Kind)
	}
	if err.Code != 5 {
		t.Fatalf("Code = %d, want 5", err.Code)
	}
	if err.Message == "" {
		t.Fatalf("Message is empty")
	}
}

func TestIsKind(t *testing.T) {
	err := NotFoundf("Module.FetchExport", "no export named %q", "Foo")
	if !IsKind(err, NotFound) {
		t.Fatalf("IsKind(err, NotFound) = false, want true")
	}
	if IsKind(err, OsFailure) {
		t.Fatalf("IsKind(err, OsFailure) = true, want false")
	}
}
