package cmd

import (
	"fmt"
	"strings"

	"github.com/goosewin/nestprop/internal/config"
	"github.com/goosewin/nestprop/internal/model"
	"github.com/goosewin/nestprop/internal/proposal"
)

// loadModel builds a box model from model.bounds, or a mock model when no
// bounds are configured.
func loadModel() (model.Model, error) {
	raw := config.StringMap("model.bounds")
	if len(raw) == 0 {
		return model.Mock{}, nil
	}

	bounds := make(map[string]model.Bounds, len(raw))
	for name, value := range raw {
		b, err := model.ParseBounds(value)
		if err != nil {
			return nil, fmt.Errorf("model.bounds.%s: %w", name, err)
		}
		bounds[name] = b
	}
	box, err := model.NewBox(bounds)
	if err != nil {
		return nil, err
	}
	return box, nil
}

func buildProposal(name string, m model.Model, opts ...proposal.Option) (proposal.Proposal, string, error) {
	if strings.TrimSpace(name) == "" {
		name = config.String("defaults.proposal", proposal.DefaultName())
	}
	opts = append(opts, proposal.WithLogger(logger.Logger))
	p, err := proposal.New(name, m, opts...)
	if err != nil {
		return nil, "", err
	}
	return p, strings.ToLower(strings.TrimSpace(name)), nil
}
