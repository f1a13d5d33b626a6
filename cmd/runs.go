package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/goosewin/nestprop/internal/state"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a run record (the output directory is kept)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsRm,
}

func init() {
	runsCmd.AddCommand(runsRmCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	runs, err := state.ListRuns()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		fmt.Fprintln(out, "Record one with: nestprop output <dir>")
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tPROPOSAL\tSTATUS\tSAMPLES\tCREATED\tOUTPUT")
	for _, run := range runs {
		name := run.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			run.ID, name, run.Proposal, run.Status, run.Samples,
			run.CreatedAt.Local().Format(time.DateTime), run.Output)
	}
	return writer.Flush()
}

func runRunsRm(cmd *cobra.Command, args []string) error {
	if err := state.DeleteRun(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
	return nil
}
