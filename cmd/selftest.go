package cmd

import (
	"fmt"

	"github.com/goosewin/nestprop/internal/selftest"
	"github.com/spf13/cobra"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Check that a proposal creates its output directory",
	Args:  cobra.NoArgs,
	RunE:  runSelftest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}

func runSelftest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if err := selftest.Run(out, logger.Logger); err != nil {
		return err
	}
	fmt.Fprintln(out, "All tests passed successfully!")
	return nil
}
