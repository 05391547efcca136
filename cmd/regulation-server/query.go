// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regulation-server/internal/query"
)

var regulationCmd = &cobra.Command{
	Use:   "regulation [regulation-id]",
	Short: "Print a regulation record as JSON",
	Long: `Regulation prints the full record of one regulation. The id is matched
case-insensitively after trimming whitespace. Without an id it lists the
loaded regulation ids.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRegulation,
}

var regionCmd = &cobra.Command{
	Use:   "region [region-id]",
	Short: "Print a region with its regulations as JSON",
	Long: `Region prints a region from the manifest with its regulation references
replaced by the full regulation records. Without an id it lists the region ids.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRegion,
}

var searchCmd = &cobra.Command{
	Use:   "search <keywords...>",
	Short: "Search regulations by keyword",
	Long: `Search finds regulations whose name, summary, articles, or developer
guidance contain the keywords as a case-insensitive substring. Multiple
arguments are joined with spaces and matched as one phrase. Results are
ranked by where the first match occurred.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(regulationCmd)
	rootCmd.AddCommand(regionCmd)
	rootCmd.AddCommand(searchCmd)
}

func runRegulation(cmd *cobra.Command, args []string) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return printJSON(cmd.OutOrStdout(), app.ListRegulations())
	}
	return printResult(cmd.OutOrStdout(), app.GetRegulation(args[0]))
}

func runRegion(cmd *cobra.Command, args []string) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return printJSON(cmd.OutOrStdout(), app.ListRegions())
	}
	return printResult(cmd.OutOrStdout(), app.GetRegion(args[0]))
}

func runSearch(cmd *cobra.Command, args []string) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), app.SearchRegulations(strings.Join(args, " ")))
}

// printResult prints v and turns a not-found response into a non-zero exit.
func printResult(w io.Writer, v any) error {
	if err := printJSON(w, v); err != nil {
		return err
	}
	if resp, ok := v.(query.ErrorResponse); ok {
		return errors.New(resp.Error)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
