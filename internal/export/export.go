// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes a snapshot of the loaded knowledge base to YAML,
// JSON, or a SQLite database for offline inspection.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/regulation-server/internal/query"
	"github.com/pdiddy/regulation-server/pkg/types"
)

// JSON writes snap as indented JSON.
func JSON(w io.Writer, snap query.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// YAML writes snap as YAML. Records go through their JSON form first so
// passthrough fields appear in the output.
func YAML(w io.Writer, snap query.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("converting snapshot: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// WriteFile writes snap to path in the given format.
func WriteFile(ctx context.Context, format types.ExportFormat, path string, snap query.Snapshot) error {
	switch format {
	case types.ExportSQLite:
		return SQLite(ctx, path, snap)
	case types.ExportJSON, types.ExportYAML, "":
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json or sqlite", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if format == types.ExportJSON {
		err = JSON(f, snap)
	} else {
		err = YAML(f, snap)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s: %w", path, cerr)
	}
	return err
}
