// Package cli implements the pdfcomply command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tsawler/pdfcomply/internal/version"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitError  = 1
	ExitFailed = 2 // --strict and at least one check failed
)

// exitError carries an exit code out of a command without printing anything.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type globalFlags struct {
	verbose   bool
	logFormat string
}

// NewRootCmd builds the command tree. Each call returns fresh commands with
// their own flag state.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "pdfcomply",
		Short: "Check PDF documents against formatting and section rules",
		Long: `pdfcomply checks a PDF for 12pt text, a Times font and one-inch margins on
the first page, then finds section headings and compares the pages under each
heading with the configured limits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version.Version
	root.SetVersionTemplate(fmt.Sprintf("pdfcomply %s\n", version.String()))

	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log every check to stderr")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(newAnalyzeCmd(g), newPresetsCmd(), newVersionCmd())
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			return exit.code
		}
		fmt.Fprintln(stderr, newStyles(stderr).fail.Render("Error:"), err)
		return ExitError
	}
	return ExitOK
}

// newLogger builds the logger for a command. Without --verbose only
// warnings reach stderr.
func (g *globalFlags) newLogger(w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.WarnLevel)
	if g.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	switch strings.ToLower(g.logFormat) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (use text or json)", g.logFormat)
	}
	return log, nil
}
