package cli

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/pdfcomply/limits"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in section limit presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			styles := newStyles(out)
			for _, name := range limits.PresetNames() {
				m, err := limits.Preset(name)
				if err != nil {
					return err
				}
				if _, err := out.Write([]byte(styles.title.Render(name) + "  " + styles.dim.Render(m.String()) + "\n")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
