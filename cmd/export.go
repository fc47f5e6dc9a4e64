package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/adsim/internal/export"

	"github.com/spf13/cobra"
)

var (
	flagFormat string
	flagOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the projection as CSV or JSON",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagFormat, "format", "f", "csv", "csv or json")
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	p, err := s.project()
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if flagOutput != "" {
		f, err := os.Create(flagOutput) //nolint:gosec // user-supplied output path
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagOutput, err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, format, p.records, p.totals, p.findings); err != nil {
		return err
	}
	if flagOutput != "" && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %d periods to %s\n", len(p.records), flagOutput)
	}
	return nil
}
