package proposal

import (
	"errors"
	"fmt"
	"time"

	"github.com/goosewin/nestprop/internal/model"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrNoBounds = errors.New("model has no bounds")

// DefaultPoolSize is the number of points drawn per population.
const DefaultPoolSize = 100

// Uniform draws independent points from the model prior box. Points are
// drawn in batches into a pool which Draw consumes.
type Uniform struct {
	Base

	names    []string
	dists    map[string]distuv.Uniform
	poolSize int
	pool     []Point
}

func NewUniform(m model.Model, opts ...Option) (*Uniform, error) {
	if m == nil {
		return nil, errors.New("model is required")
	}
	bounds := m.Bounds()
	names := m.Names()
	if len(names) == 0 || len(bounds) == 0 {
		return nil, ErrNoBounds
	}

	dists := make(map[string]distuv.Uniform, len(names))
	for _, name := range names {
		b, ok := bounds[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoBounds, name)
		}
		dists[name] = distuv.Uniform{Min: b.Min, Max: b.Max}
	}

	p := &Uniform{
		Base:     NewBase(m, opts...),
		names:    names,
		dists:    dists,
		poolSize: DefaultPoolSize,
	}
	p.populated = false
	return p, nil
}

// SetPoolSize changes the batch size used when Draw repopulates.
func (p *Uniform) SetPoolSize(n int) {
	if n > 0 {
		p.poolSize = n
	}
}

// Populate replaces the pool with n fresh points.
func (p *Uniform) Populate(n int) error {
	if n <= 0 {
		return fmt.Errorf("population size must be positive, got %d", n)
	}

	start := time.Now()
	pool := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		point := make(Point, len(p.names))
		for _, name := range p.names {
			point[name] = p.dists[name].Quantile(p.rng.Float64())
		}
		pool = append(pool, point)
	}

	acceptance := 1.0
	p.pool = pool
	p.populated = true
	p.trainingCount++
	p.populationAcceptance = &acceptance
	p.populationTime += time.Since(start)

	p.logger.Debug("populated proposal", "points", n, "count", p.trainingCount)
	return nil
}

// Draw ignores old and returns the next pooled point.
func (p *Uniform) Draw(_ Point) (Point, error) {
	if len(p.pool) == 0 {
		if err := p.Populate(p.poolSize); err != nil {
			return nil, err
		}
	}

	point := p.pool[len(p.pool)-1]
	p.pool = p.pool[:len(p.pool)-1]
	if len(p.pool) == 0 {
		p.populated = false
	}
	return point, nil
}

// Remaining is the number of pooled points not yet drawn.
func (p *Uniform) Remaining() int {
	return len(p.pool)
}
