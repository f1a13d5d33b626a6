package proposal

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/goosewin/nestprop/internal/model"
)

// Point maps parameter names to values.
type Point map[string]float64

// Proposal is a sampling strategy. Strategies embed Base for the shared
// bookkeeping and supply their own Draw.
type Proposal interface {
	Draw(old Point) (Point, error)
	Initialise() error
	Initialised() bool
	SetOutputDirectory(directory string) error
	Output() string
}

// Option configures a Base.
type Option func(*Base)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithRand sets the random source used by drawing strategies.
func WithRand(rng *rand.Rand) Option {
	return func(b *Base) {
		if rng != nil {
			b.rng = rng
		}
	}
}

// WithSeed seeds a deterministic random source.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Base holds the state shared by all proposals.
type Base struct {
	model                model.Model
	populated            bool
	initialised          bool
	trainingCount        int
	populationAcceptance *float64
	populationTime       time.Duration
	output               string

	logger *slog.Logger
	rng    *rand.Rand
}

// NewBase returns the bookkeeping for a freshly constructed proposal.
func NewBase(m model.Model, opts ...Option) Base {
	b := Base{
		model:     m,
		populated: true,
	}
	for _, opt := range opts {
		opt(&b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return b
}

// SetOutputDirectory records directory as the proposal output and creates
// it along with any missing parents. An existing directory is not an error
// and a previously recorded directory is left on disk. The path is
// recorded even when creating it fails.
func (b *Base) SetOutputDirectory(directory string) error {
	b.logger.Debug("setting output directory", "dir", directory)
	b.output = directory
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	b.logger.Debug("output directory set", "dir", directory)
	return nil
}

// Output returns the recorded output directory, or "" if none was set.
func (b *Base) Output() string {
	return b.output
}

// Initialise marks the proposal ready to draw. Calling it again is a no-op.
func (b *Base) Initialise() error {
	if b.initialised {
		return nil
	}
	b.initialised = true
	b.logger.Debug("proposal initialised")
	return nil
}

func (b *Base) Initialised() bool {
	return b.initialised
}

func (b *Base) Model() model.Model {
	return b.model
}

func (b *Base) Populated() bool {
	return b.populated
}

func (b *Base) TrainingCount() int {
	return b.trainingCount
}

// PopulationAcceptance reports the acceptance of the last population, if any.
func (b *Base) PopulationAcceptance() (float64, bool) {
	if b.populationAcceptance == nil {
		return 0, false
	}
	return *b.populationAcceptance, true
}

// PopulationTime is the total time spent populating.
func (b *Base) PopulationTime() time.Duration {
	return b.populationTime
}

// Identity proposes the point it is given.
type Identity struct {
	Base
}

func NewIdentity(m model.Model, opts ...Option) *Identity {
	return &Identity{Base: NewBase(m, opts...)}
}

// Clone returns a copy of p that shares no storage with it.
func (p Point) Clone() Point {
	if p == nil {
		return nil
	}
	copied := make(Point, len(p))
	for name, value := range p {
		copied[name] = value
	}
	return copied
}

func (p *Identity) Draw(old Point) (Point, error) {
	return old, nil
}
