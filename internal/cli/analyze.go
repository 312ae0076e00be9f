package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfcomply"
	"github.com/tsawler/pdfcomply/limits"
	"github.com/tsawler/pdfcomply/report"
)

type analyzeFlags struct {
	preset     string
	limitsFile string
	limits     []string
	format     string
	output     string
	strict     bool
}

func newAnalyzeCmd(g *globalFlags) *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze <file.pdf>",
		Short: "Analyze a PDF and print the compliance report",
		Long: `Analyze a PDF and print the compliance report.

Section limits come from a preset, a JSON file of {"section": pages} and
repeated --limit flags, applied in that order so later sources win.

The exit status is 0 when the report was produced, whatever its statuses.
With --strict it is 2 when any check failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, g, f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "Limit preset ("+strings.Join(limits.PresetNames(), ", ")+")")
	cmd.Flags().StringVar(&f.limitsFile, "limits", "", "JSON file of section page limits")
	cmd.Flags().StringArrayVarP(&f.limits, "limit", "l", nil, "Section limit as name=pages (repeatable)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "summary", "Output format (summary, json, text, html)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to this file, or into this directory under a generated name")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Exit with status 2 when any check fails")
	return cmd
}

func runAnalyze(cmd *cobra.Command, g *globalFlags, f *analyzeFlags, path string) error {
	log, err := g.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a := pdfcomply.Open(path).WithLogger(log)
	if f.preset != "" {
		a = a.Preset(f.preset)
	}
	if f.limitsFile != "" {
		m, err := limits.Load(f.limitsFile)
		if err != nil {
			return err
		}
		a = a.Limits(m)
	}
	if len(f.limits) > 0 {
		m, err := parseLimitFlags(f.limits)
		if err != nil {
			return err
		}
		a = a.Limits(m)
	}

	analysis, err := a.AnalyzeContext(cmd.Context())
	if err != nil {
		return err
	}

	if err := writeAnalysis(cmd.OutOrStdout(), analysis, f.format, f.output); err != nil {
		return err
	}

	if f.strict && len(report.Summarize(analysis.Report).Failed) > 0 {
		return &exitError{code: ExitFailed}
	}
	return nil
}

// parseLimitFlags reads name=pages pairs. Keys are normalized by the
// analyzer.
func parseLimitFlags(pairs []string) (map[string]int, error) {
	m := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %q is not name=pages", limits.ErrInvalidLimit, pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a whole number", limits.ErrInvalidLimit, value)
		}
		m[strings.TrimSpace(name)] = n
	}
	return m, nil
}

func writeAnalysis(stdout io.Writer, a *report.Analysis, format, output string) error {
	format = strings.ToLower(format)
	var kind report.Kind
	if format != "summary" {
		k, err := report.ParseKind(format)
		if err != nil {
			return fmt.Errorf("%w (use summary, json, text or html)", err)
		}
		kind = k
	}

	if output == "" {
		if format == "summary" {
			return renderSummary(stdout, a)
		}
		return report.Export(stdout, a, kind)
	}

	// a summary written to a file is the plain text report
	if format == "summary" {
		kind = report.KindText
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		output = filepath.Join(output, report.ExportName(a.File, kind, a.Generated))
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := report.Export(file, a, kind); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "Wrote %s\n", output)
	return err
}
