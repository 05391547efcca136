// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sampledata provisions a data directory with a small sample
// knowledge base: a region manifest plus regulations for the EU, the USA,
// and Brazil.
package sampledata

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

//go:embed data
var files embed.FS

const root = "data"

// FS returns the sample data tree.
func FS() fs.FS {
	sub, err := fs.Sub(files, root)
	if err != nil {
		// root is embedded above; Sub only fails on an invalid name.
		panic(err)
	}
	return sub
}

// Install copies the sample tree into target, creating directories as
// needed and overwriting files that already exist. Each copied file is
// reported on w as a slash-separated path relative to target.
func Install(target string, w io.Writer) ([]string, error) {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", target, err)
	}

	src := FS()
	var copied []string
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dst := filepath.Join(target, filepath.FromSlash(p))
		if d.IsDir() {
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dst, err)
			}
			return nil
		}
		data, err := fs.ReadFile(src, p)
		if err != nil {
			return fmt.Errorf("reading sample %s: %w", p, err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
		fmt.Fprintf(w, "copied  %s\n", p)
		copied = append(copied, path.Clean(p))
		return nil
	})
	if err != nil {
		return copied, err
	}

	fmt.Fprintf(w, "\nsample data installed at %s (%d files)\n", target, len(copied))
	return copied, nil
}
