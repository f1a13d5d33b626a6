package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/goosewin/nestprop/internal/state"
	"github.com/spf13/cobra"
)

var (
	outputProposal string
	outputName     string
)

var outputCmd = &cobra.Command{
	Use:   "output <dir>",
	Short: "Set a proposal's output directory and record the run",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutput,
}

func init() {
	outputCmd.Flags().StringVarP(&outputProposal, "proposal", "p", "", "Proposal name (default: defaults.proposal)")
	outputCmd.Flags().StringVarP(&outputName, "name", "n", "", "Run name")
	rootCmd.AddCommand(outputCmd)
}

func runOutput(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}

	m, err := loadModel()
	if err != nil {
		return err
	}
	p, name, err := buildProposal(outputProposal, m)
	if err != nil {
		return err
	}
	if err := p.SetOutputDirectory(dir); err != nil {
		return err
	}

	run, err := state.SaveRun(state.Run{
		Name:     outputName,
		Proposal: name,
		Output:   p.Output(),
		Status:   "ready",
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Output directory set to %s (run %s)\n", p.Output(), run.ID)
	return nil
}
