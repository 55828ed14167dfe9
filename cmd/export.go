package cmd

import (
	"fmt"
	"os"

	"github.com/cwarden/weekcal/internal/export"
	"github.com/cwarden/weekcal/internal/parser"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportFrom   string
	exportTo     string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write events as JSON, YAML or iCalendar",
	Long: `Write events to standard output or a file. JSON has the same shape as
the store; ics produces one VEVENT per event in floating local time.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, yaml or ics")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "First date to include")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Last date to include")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	p := parser.NewTimeParser()
	var from, to string
	if exportFrom != "" {
		if from, err = p.NormalizeDate(exportFrom); err != nil {
			return fmt.Errorf("--from: %w", err)
		}
	}
	if exportTo != "" {
		if to, err = p.NormalizeDate(exportTo); err != nil {
			return fmt.Errorf("--to: %w", err)
		}
	}

	store, events, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	list := events.Between(from, to)
	if exportOutput == "" {
		if err := export.Write(cmd.OutOrStdout(), format, list); err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		return nil
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOutput, err)
	}
	if err := export.Write(f, format, list); err != nil {
		f.Close()
		return fmt.Errorf("failed to export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	return nil
}
