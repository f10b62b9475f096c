package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zulandar/pitwall/internal/config"
	"github.com/zulandar/pitwall/internal/export"
	"github.com/zulandar/pitwall/internal/keys"
	"github.com/zulandar/pitwall/internal/report"
	"github.com/zulandar/pitwall/internal/settings"
	"github.com/zulandar/pitwall/internal/store"
)

func newReportCmd() *cobra.Command {
	var (
		configPath string
		favorites  bool
		csvPath    string
		xlsxPath   string
	)

	cmd := &cobra.Command{
		Use:   "report <type>",
		Short: "Tabulate every record of a type",
		Long: `Prints one row per stored record of the given type, headed by "file" and the
record fields. Smart stats for the type are added as derived columns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, configPath, args[0], favorites, csvPath, xlsxPath)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&favorites, "favorites", false, "only show favorite fields")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the table to a CSV file (- for stdout)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the table to an XLSX file")
	cmd.MarkFlagsMutuallyExclusive("csv", "xlsx")
	cmd.AddCommand(newReportSummaryCmd())
	return cmd
}

// buildReport tabulates reportType with the declared schema and the
// settings' favorites and smart stats.
func buildReport(cfg *config.Config, st store.Store, reportType string, favorites bool) (*report.Table, error) {
	if !keys.ValidCategory(reportType) {
		return nil, fmt.Errorf("invalid report type %q", reportType)
	}
	s, err := settings.Load(st)
	if err != nil {
		return nil, err
	}
	opts := report.Options{Schema: cfg.Schema(reportType), Stats: s.SmartStats}
	if favorites {
		opts.Favorites = s.Favorites
	}
	return report.Tabulate(st, reportType, opts)
}

func runReport(cmd *cobra.Command, configPath, reportType string, favorites bool, csvPath, xlsxPath string) error {
	cfg, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	t, err := buildReport(cfg, st, reportType, favorites)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case csvPath == "-":
		return export.WriteCSV(out, t)
	case csvPath != "":
		if err := writeFile(csvPath, func(w io.Writer) error { return export.WriteCSV(w, t) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d rows to %s\n", len(t.Rows), csvPath)
		return nil
	case xlsxPath != "":
		if err := writeFile(xlsxPath, func(w io.Writer) error { return export.WriteXLSX(w, t, reportType) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d rows to %s\n", len(t.Rows), xlsxPath)
		return nil
	}

	if t.Empty() {
		fmt.Fprintf(out, "No %s records found.\n", reportType)
		return nil
	}
	printTable(out, t.Header, t.Rows)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newReportSummaryCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "summary <type>",
		Short: "Aggregate smart results for a type",
		Long:  "Evaluates every smart result declared for the type, one row per result and group.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportSummary(cmd, configPath, args[0])
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runReportSummary(cmd *cobra.Command, configPath, reportType string) error {
	_, st, err := openStore(configPath)
	if err != nil {
		return err
	}
	s, err := settings.Load(st)
	if err != nil {
		return err
	}
	t, err := report.Summarize(st, reportType, s.SmartResults)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if t.Empty() {
		fmt.Fprintf(out, "No smart results for %s.\n", reportType)
		return nil
	}
	printTable(out, t.Header, t.Rows)
	return nil
}
