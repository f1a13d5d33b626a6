package proposal

import (
	"errors"
	"testing"

	"github.com/goosewin/nestprop/internal/model"
)

func TestRegistryBuiltins(t *testing.T) {
	names := Names()
	if len(names) < 2 || names[0] != "identity" || names[1] != "uniform" {
		t.Fatalf("expected identity and uniform, got %v", names)
	}

	p, err := New(" Identity ", model.Mock{})
	if err != nil {
		t.Fatalf("new identity: %v", err)
	}
	if _, ok := p.(*Identity); !ok {
		t.Fatalf("expected *Identity, got %T", p)
	}
}

func TestRegistryErrors(t *testing.T) {
	if _, err := New("missing", model.Mock{}); !errors.Is(err, ErrProposalNotFound) {
		t.Fatalf("expected ErrProposalNotFound, got %v", err)
	}
	if _, err := New("", model.Mock{}); !errors.Is(err, ErrProposalInvalid) {
		t.Fatalf("expected ErrProposalInvalid, got %v", err)
	}
	if err := Register("identity", func(m model.Model, opts ...Option) (Proposal, error) {
		return NewIdentity(m, opts...), nil
	}); !errors.Is(err, ErrProposalRegistered) {
		t.Fatalf("expected ErrProposalRegistered, got %v", err)
	}
}
