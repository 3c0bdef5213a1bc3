package main

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, contents := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindRedirects(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"go.mod": "module kestrel\n\ngo 1.23\n",
		"kernel/kfmt/panic.go": `package kfmt

// Panic halts the CPU.
//
//go:redirect-from runtime.gopanic
func Panic(e interface{}) {}

// panicString is the redirect target for runtime.throw.
//
//go:redirect-from runtime.throw
func panicString(msg string) {}

// Printf is not redirected.
func Printf(format string, args ...interface{}) {}
`,
		"kernel/kfmt/panic_test.go": `package kfmt

//go:redirect-from runtime.ignored
func testOnly() {}
`,
		"kernel/smp/init.go": "package smp\n\nfunc Init() {}\n",
	})

	modPath, err := modulePath(root)
	if err != nil {
		t.Fatal(err)
	}

	if modPath != "kestrel" {
		t.Fatalf("expected module path %q; got %q", "kestrel", modPath)
	}

	goFiles, err := collectGoFiles(root, kernelDir)
	if err != nil {
		t.Fatal(err)
	}

	if len(goFiles) != 2 {
		t.Fatalf("expected test files to be skipped; got %v", goFiles)
	}

	redirects, err := findRedirects(root, modPath, goFiles)
	if err != nil {
		t.Fatal(err)
	}

	exp := map[string]string{
		"runtime.gopanic": "kestrel/kernel/kfmt.Panic",
		"runtime.throw":   "kestrel/kernel/kfmt.panicString",
	}

	if len(redirects) != len(exp) {
		t.Fatalf("expected %d redirects; got %d", len(exp), len(redirects))
	}

	for _, redirect := range redirects {
		if dst := exp[redirect.src]; dst != redirect.dst {
			t.Errorf("expected %s to redirect to %q; got %q", redirect.src, dst, redirect.dst)
		}
	}
}

func TestFindRedirectsMalformed(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"kernel/irq/irq.go": `package irq

//go:redirect-from runtime.a runtime.b
func Enable() {}
`,
	})

	if _, err := findRedirects(root, "kestrel", []string{"kernel/irq/irq.go"}); err == nil {
		t.Fatal("expected an error for a malformed directive")
	}
}

func TestModulePathErrors(t *testing.T) {
	root := t.TempDir()

	if _, err := modulePath(root); err == nil {
		t.Fatal("expected an error when go.mod is missing")
	}

	writeFiles(t, root, map[string]string{"go.mod": "go 1.23\n"})
	if _, err := modulePath(root); err == nil {
		t.Fatal("expected an error when the module directive is missing")
	}
}

func TestResolveAndWriteTable(t *testing.T) {
	redirects := []*redirect{
		{src: "runtime.gopanic", dst: "kestrel/kernel/kfmt.Panic"},
		{src: "runtime.throw", dst: "kestrel/kernel/kfmt.panicString"},
	}

	symbols := []elf.Symbol{
		{Name: "runtime.gopanic", Value: 0x1000},
		{Name: "runtime.throw", Value: 0x2000},
		{Name: "kestrel/kernel/kfmt.Panic", Value: 0x3000},
		{Name: "kestrel/kernel/kfmt.panicString", Value: 0x4000},
	}

	if err := resolveSymbols(redirects, symbols); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeTable(&buf, redirects); err != nil {
		t.Fatal(err)
	}

	var table [4]uint64
	if err := binary.Read(&buf, binary.LittleEndian, &table); err != nil {
		t.Fatal(err)
	}

	if exp := [4]uint64{0x1000, 0x3000, 0x2000, 0x4000}; table != exp {
		t.Fatalf("expected table %x; got %x", exp, table)
	}
}

func TestResolveSymbolsMissing(t *testing.T) {
	specs := [][]elf.Symbol{
		{{Name: "kestrel/kernel/kfmt.Panic", Value: 0x3000}},
		{{Name: "runtime.gopanic", Value: 0x1000}},
	}

	for specIndex, symbols := range specs {
		redirects := []*redirect{{src: "runtime.gopanic", dst: "kestrel/kernel/kfmt.Panic"}}
		if err := resolveSymbols(redirects, symbols); err == nil {
			t.Errorf("[spec %d] expected an error for an unresolved symbol", specIndex)
		}
	}
}
