//go:build windows

package wincap

import "testing"

func TestNormalizeModuleName(t *testing.T) {
	cases := map[string]string{
		"KERNEL32":     "kernel32.dll",
		"kernel32.dll": "kernel32.dll",
		"ntdll":        "ntdll.dll",
		"MyLib.exe":    "mylib.exe",
	}
	for in, want := range cases {
		if got := normalizeModuleName(in); got != want {
			t.Errorf("normalizeModuleName(%q) = %q, want %q", in, got, want)
		}
	}
}
