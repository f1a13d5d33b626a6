package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/goosewin/nestprop/internal/config"
	"github.com/goosewin/nestprop/internal/proposal"
	"github.com/spf13/cobra"
)

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "List available proposal strategies",
	Args:  cobra.NoArgs,
	RunE:  runProposals,
}

func init() {
	rootCmd.AddCommand(proposalsCmd)
}

func runProposals(cmd *cobra.Command, args []string) error {
	m, err := loadModel()
	if err != nil {
		return err
	}
	current := config.String("defaults.proposal", proposal.DefaultName())

	out := cmd.OutOrStdout()
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "NAME\tDEFAULT\tUSABLE")
	fmt.Fprintln(writer, "----\t-------\t------")

	for _, name := range proposal.Names() {
		isDefault := ""
		if name == current {
			isDefault = "*"
		}
		usable := "yes"
		if _, err := proposal.New(name, m); err != nil {
			usable = "no (" + err.Error() + ")"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", name, isDefault, usable)
	}

	if err := writer.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Usage: nestprop draw --proposal <name>")
	return nil
}
