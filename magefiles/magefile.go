//go:build mage

// Package main contains Mage build targets for regulation-server developer tooling.
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

const (
	binDir  = "bin"
	binName = "regulation-server"
	cmdPkg  = "./cmd/regulation-server"
	dataDir = "data"
)

// Default runs the tests and builds the binary.
var Default = All

// All runs Test then Build.
func All() {
	mg.SerialDeps(Test, Build)
}

// Init creates the local working directories.
func Init() error {
	for _, dir := range []string{binDir, dataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	mg.Deps(Init)
	out := filepath.Join(binDir, binName)
	version := "dev"
	if v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty"); err == nil && v != "" {
		version = v
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Setup installs the sample regulation data into data/.
func Setup() error {
	mg.Deps(Init)
	return sh.RunV("go", "run", cmdPkg, "setup", dataDir)
}

// Serve runs the HTTP transport against data/.
func Serve() error {
	mg.Deps(Setup)
	return sh.RunWithV(map[string]string{"REGULATION_DATA_DIR": dataDir},
		"go", "run", cmdPkg, "serve", "--transport", "http")
}

// Stats prints project metrics: Go production/test LOC and record counts.
func Stats() error {
	var prod, test, records int
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		switch ext := filepath.Ext(path); {
		case ext == ".go":
			n, err := countLines(path)
			if err != nil {
				return err
			}
			if strings.HasSuffix(path, "_test.go") {
				test += n
			} else {
				prod += n
			}
		case ext == ".json" && strings.Contains(filepath.ToSlash(path), "sampledata/data/"):
			records++
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	fmt.Printf("Sample data files:              %d\n", records)
	return nil
}

// countLines counts the non-blank lines of a file.
func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}
