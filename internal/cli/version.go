package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfcomply/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "pdfcomply %s\n", version.String())
			return err
		},
	}
}
