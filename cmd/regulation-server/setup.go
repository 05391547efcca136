// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/regulation-server/internal/sampledata"
)

var setupCmd = &cobra.Command{
	Use:   "setup [target-dir]",
	Short: "Install the sample regulation data",
	Long: `Setup copies the bundled sample data (a region manifest plus regulations
for the EU, the USA, and Brazil) into the target directory, which defaults to
the configured data directory or ./data. Existing files are overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	target := serverConfig().DataDir
	if len(args) > 0 {
		target = args[0]
	}
	if target == "" {
		target = "data"
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Installing sample data into %s\n", target)
	if _, err := sampledata.Install(target, w); err != nil {
		return err
	}
	fmt.Fprintf(w, "Set REGULATION_DATA_DIR=%s to serve it.\n", target)
	return nil
}
