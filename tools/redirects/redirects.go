// Command redirects patches calls to Go runtime functions so that they land
// in kernel replacements. Kernel functions declare the runtime symbol they
// replace with a
//
//	//go:redirect-from runtime.symbol
//
// comment. The tool collects these annotations and, after linking, writes
// (source VMA, destination VMA) pairs into the .goredirectstbl section of the
// kernel image where the rt0 code picks them up and installs trampolines.
//
// Usage (from the repository root):
//
//	redirects count
//	redirects list
//	redirects populate-table path/to/kernel.bin
package main

import (
	"debug/elf"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

const (
	redirectDirective = "//go:redirect-from"
	redirectSection   = ".goredirectstbl"
	kernelDir         = "kernel"
)

type redirect struct {
	src string
	dst string

	srcVMA uint64
	dstVMA uint64
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[redirects] error: %s\n", err.Error())
	os.Exit(1)
}

// modulePath returns the module path declared by the go.mod file in root.
func modulePath(root string) (string, error) {
	goModFile := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(goModFile)
	if err != nil {
		return "", err
	}

	f, err := modfile.ParseLax(goModFile, data, nil)
	if err != nil {
		return "", err
	}

	if f.Module == nil {
		return "", fmt.Errorf("%s: missing module directive", goModFile)
	}

	return f.Module.Mod.Path, nil
}

// collectGoFiles returns the non-test Go files below root/dir. The returned
// paths are relative to root.
func collectGoFiles(root, dir string) ([]string, error) {
	var goFiles []string
	err := filepath.WalkDir(filepath.Join(root, dir), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		goFiles = append(goFiles, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return goFiles, nil
}

// findRedirects parses goFiles (paths relative to the module root) and
// returns one redirect for each annotated function.
func findRedirects(root, modPath string, goFiles []string) ([]*redirect, error) {
	var redirects []*redirect

	for _, goFile := range goFiles {
		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, filepath.Join(root, goFile), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("%s: %s", goFile, err)
		}

		pkgPath := modPath + "/" + filepath.ToSlash(filepath.Dir(goFile))
		for _, decl := range f.Decls {
			fnDecl, ok := decl.(*ast.FuncDecl)
			if !ok || fnDecl.Doc == nil {
				continue
			}

			for _, comment := range fnDecl.Doc.List {
				if !strings.HasPrefix(comment.Text, redirectDirective) {
					continue
				}

				dst := pkgPath + "." + fnDecl.Name.Name
				fields := strings.Fields(comment.Text)
				if len(fields) != 2 || fields[0] != redirectDirective {
					return nil, fmt.Errorf("%s: malformed go:redirect-from syntax for %q", fset.Position(comment.Pos()), dst)
				}

				redirects = append(redirects, &redirect{
					src: fields[1],
					dst: dst,
				})
			}
		}
	}

	return redirects, nil
}

// resolveSymbols looks up the addresses of both ends of every redirect in
// the symbol table of the linked kernel image.
func resolveSymbols(redirects []*redirect, symbols []elf.Symbol) error {
	addrs := make(map[string]uint64, len(symbols))
	for _, symbol := range symbols {
		addrs[symbol.Name] = symbol.Value
	}

	for _, redirect := range redirects {
		redirect.srcVMA = addrs[redirect.src]
		redirect.dstVMA = addrs[redirect.dst]

		switch {
		case redirect.srcVMA == 0:
			return fmt.Errorf("could not locate address of %q", redirect.src)
		case redirect.dstVMA == 0:
			return fmt.Errorf("could not locate address of %q", redirect.dst)
		}
	}

	return nil
}

// writeTable serializes the redirect table in the format expected by rt0.
func writeTable(w io.Writer, redirects []*redirect) error {
	for _, redirect := range redirects {
		if err := binary.Write(w, binary.LittleEndian, [2]uint64{redirect.srcVMA, redirect.dstVMA}); err != nil {
			return err
		}
	}

	return nil
}

func populateTable(redirects []*redirect, imgFile string) error {
	img, err := elf.Open(imgFile)
	if err != nil {
		return err
	}

	section := img.Section(redirectSection)
	symbols, symErr := img.Symbols()
	img.Close()

	switch {
	case section == nil:
		return fmt.Errorf("%s: missing %s section", imgFile, redirectSection)
	case symErr != nil:
		return fmt.Errorf("%s: %s", imgFile, symErr)
	case uint64(len(redirects))*16 > section.Size:
		return fmt.Errorf("%s: %s section too small for %d redirects", imgFile, redirectSection, len(redirects))
	}

	if err = resolveSymbols(redirects, symbols); err != nil {
		return fmt.Errorf("%s: %s", imgFile, err)
	}

	f, err := os.OpenFile(imgFile, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err = f.Seek(int64(section.Offset), io.SeekStart); err != nil {
		return err
	}

	return writeTable(f, redirects)
}

func main() {
	flag.Parse()

	if len(flag.Args()) == 0 {
		exit(errors.New("missing command"))
	}

	cmd := flag.Arg(0)
	switch cmd {
	case "count", "list":
	case "populate-table":
		if len(flag.Args()) != 2 {
			exit(errors.New("populate-table requires the path to the kernel image as an argument"))
		}
	default:
		exit(fmt.Errorf("unknown command %q", cmd))
	}

	modPath, err := modulePath(".")
	if err != nil {
		exit(fmt.Errorf("this tool must be run from the module root: %s", err))
	}

	goFiles, err := collectGoFiles(".", kernelDir)
	if err != nil {
		exit(err)
	}

	redirects, err := findRedirects(".", modPath, goFiles)
	if err != nil {
		exit(err)
	}

	switch cmd {
	case "count":
		fmt.Printf("%d", len(redirects))
	case "list":
		for _, redirect := range redirects {
			fmt.Printf("%s -> %s\n", redirect.src, redirect.dst)
		}
	case "populate-table":
		if err = populateTable(redirects, flag.Arg(1)); err != nil {
			exit(err)
		}
	}
}
