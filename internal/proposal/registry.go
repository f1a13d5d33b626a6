package proposal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goosewin/nestprop/internal/model"
)

var (
	ErrProposalNotFound   = errors.New("proposal not found")
	ErrProposalRegistered = errors.New("proposal already registered")
	ErrProposalInvalid    = errors.New("proposal name is required")
)

// Factory builds a proposal for a model.
type Factory func(m model.Model, opts ...Option) (Proposal, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func init() {
	_ = Register("identity", func(m model.Model, opts ...Option) (Proposal, error) {
		return NewIdentity(m, opts...), nil
	})
	_ = Register("uniform", func(m model.Model, opts ...Option) (Proposal, error) {
		p, err := NewUniform(m, opts...)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

func registryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a proposal factory by name.
func Register(name string, factory Factory) error {
	key := registryKey(name)
	if key == "" {
		return ErrProposalInvalid
	}
	if factory == nil {
		return errors.New("proposal factory is nil")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[key]; exists {
		return ErrProposalRegistered
	}
	registry[key] = factory
	return nil
}

// New builds the named proposal.
func New(name string, m model.Model, opts ...Option) (Proposal, error) {
	key := registryKey(name)
	if key == "" {
		return nil, ErrProposalInvalid
	}

	registryMu.RLock()
	factory, ok := registry[key]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProposalNotFound, name)
	}
	return factory(m, opts...)
}

// Names returns registered proposal names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultName is used when neither a flag nor config names a proposal.
func DefaultName() string {
	return "identity"
}
