// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regulation-server/internal/export"
	"github.com/pdiddy/regulation-server/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the loaded knowledge base to YAML, JSON, or SQLite",
	Long: `Export loads the data directory and writes every regulation plus every
region, with its regulations resolved, to a single file. The sqlite format
writes a database with regulations, articles, developer_guidance, regions,
and region_regulations tables; each export replaces those tables.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml, json, or sqlite")
	exportCmd.Flags().StringP("output", "o", "", "output path (default export.<format>, or export.db for sqlite)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = defaultExportPath(types.ExportFormat(format))
	}

	app, err := loadApp()
	if err != nil {
		return err
	}

	if err := export.WriteFile(cmd.Context(), types.ExportFormat(format), output, app.Snapshot()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d regulations and %d regions to %s\n",
		app.Regulations.Len(), app.Regions.Len(), output)
	return nil
}

func defaultExportPath(format types.ExportFormat) string {
	switch format {
	case types.ExportSQLite:
		return "export.db"
	case types.ExportJSON:
		return "export.json"
	default:
		return "export.yaml"
	}
}
