// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/spf13/cobra"
)

// GetRootCommand returns the root gobench command.
func GetRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gobench <command> [args]",
		Short:        "Run reproducible micro-benchmark suites",
		SilenceUsage: true,
	}
	cmd.AddCommand(getRunCommand())
	cmd.AddCommand(getScaffoldCommand())
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose (debug) logging")
	return cmd
}
