package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/goosewin/nestprop/internal/config"
	"github.com/goosewin/nestprop/internal/proposal"
	"github.com/goosewin/nestprop/internal/state"
	"github.com/spf13/cobra"
)

var (
	drawProposal string
	drawOutput   string
	drawName     string
	drawSamples  int
	drawSeed     uint64
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw points from a proposal into its output directory",
	Args:  cobra.NoArgs,
	RunE:  runDraw,
}

func init() {
	drawCmd.Flags().StringVarP(&drawProposal, "proposal", "p", "", "Proposal name (default: defaults.proposal)")
	drawCmd.Flags().StringVarP(&drawOutput, "output", "o", "", "Output directory (default: defaults.output_dir)")
	drawCmd.Flags().StringVar(&drawName, "name", "", "Run name")
	drawCmd.Flags().IntVarP(&drawSamples, "samples", "s", 0, "Number of points (default: defaults.samples)")
	drawCmd.Flags().Uint64Var(&drawSeed, "seed", 0, "Random seed (0 picks one)")
	rootCmd.AddCommand(drawCmd)
}

func runDraw(cmd *cobra.Command, args []string) error {
	output := drawOutput
	if output == "" {
		output = config.String("defaults.output_dir", "nestprop_output")
	}
	dir, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}

	samples := drawSamples
	if samples <= 0 {
		samples = config.Int("defaults.samples", 100)
	}

	m, err := loadModel()
	if err != nil {
		return err
	}
	if len(m.Names()) == 0 {
		return fmt.Errorf("%w: set model.bounds.<name> to \"min,max\" to draw points", proposal.ErrNoBounds)
	}

	var opts []proposal.Option
	if drawSeed != 0 {
		opts = append(opts, proposal.WithSeed(drawSeed))
	}
	p, name, err := buildProposal(drawProposal, m, opts...)
	if err != nil {
		return err
	}
	if err := p.SetOutputDirectory(dir); err != nil {
		return err
	}
	if err := p.Initialise(); err != nil {
		return err
	}

	names := m.Names()
	start := make(proposal.Point, len(names))
	for param, b := range m.Bounds() {
		start[param] = (b.Min + b.Max) / 2
	}

	points := make([]proposal.Point, 0, samples)
	for i := 0; i < samples; i++ {
		point, err := p.Draw(start.Clone())
		if err != nil {
			return fmt.Errorf("draw point %d: %w", i, err)
		}
		points = append(points, point)
	}

	path, err := proposal.WriteSamples(p.Output(), names, points)
	if err != nil {
		return err
	}

	run, err := state.SaveRun(state.Run{
		Name:     drawName,
		Proposal: name,
		Output:   p.Output(),
		Samples:  samples,
		Status:   "complete",
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d points to %s (run %s)\n", samples, path, run.ID)
	return nil
}
