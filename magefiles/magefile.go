//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for knowledge-hub developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"data/index",
	"documents",
	".secrets",
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "knowledge-hub"
	cmdPkg  = "./cmd/knowledge-hub"

	// buildTags enables the FTS5 extension in mattn/go-sqlite3.
	buildTags = "sqlite_fts5"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-tags", buildTags, "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the FTS5 build tag.
func Test() error {
	return sh.RunV("go", "test", "-tags", buildTags, "./...")
}

// Check vets and tests the module, then builds the binary.
func Check() {
	mg.SerialDeps(Vet, Test, Build)
}

// Vet runs go vet with the FTS5 build tag.
func Vet() error {
	return sh.RunV("go", "vet", "-tags", buildTags, "./...")
}

// Stats prints project metrics: Go production/test lines and documentation words.
func Stats() error {
	var st stats
	if err := filepath.WalkDir(".", st.visit); err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", st.prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", st.testLines)
	fmt.Printf("Words (documentation):           %d\n", st.docWords)
	return nil
}

type stats struct {
	prodLines, testLines, docWords int
}

// visit counts non-blank lines in Go files and words in Markdown and YAML.
// Hidden and underscore-prefixed directories are skipped.
func (st *stats) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		return err
	}
	name := d.Name()
	if d.IsDir() {
		if path != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		return nil
	}

	ext := filepath.Ext(name)
	switch ext {
	case ".go", ".md", ".yaml", ".yml":
	default:
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if ext != ".go" {
		st.docWords += len(bytes.Fields(data))
		return nil
	}
	n := nonBlankLines(data)
	if strings.HasSuffix(name, "_test.go") {
		st.testLines += n
	} else {
		st.prodLines += n
	}
	return nil
}

func nonBlankLines(data []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) > 0 {
			n++
		}
	}
	return n
}
