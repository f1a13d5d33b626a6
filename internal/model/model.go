package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrInvalidBounds = errors.New("invalid bounds")

// Bounds is the closed prior interval of a single parameter.
type Bounds struct {
	Min float64
	Max float64
}

// Model describes the parameter space a proposal draws from.
type Model interface {
	Names() []string
	Bounds() map[string]Bounds
}

// Mock is a model with no parameters.
type Mock struct{}

func (Mock) Names() []string {
	return nil
}

func (Mock) Bounds() map[string]Bounds {
	return nil
}

// Box is a model whose parameters are independent intervals.
type Box struct {
	names  []string
	bounds map[string]Bounds
}

// NewBox validates the bounds and returns a model with names in sorted order.
func NewBox(bounds map[string]Bounds) (*Box, error) {
	names := make([]string, 0, len(bounds))
	copied := make(map[string]Bounds, len(bounds))
	for name, b := range bounds {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: parameter name is required", ErrInvalidBounds)
		}
		if !(b.Min < b.Max) {
			return nil, fmt.Errorf("%w: %s min %v must be below max %v", ErrInvalidBounds, name, b.Min, b.Max)
		}
		names = append(names, name)
		copied[name] = b
	}
	sort.Strings(names)
	return &Box{names: names, bounds: copied}, nil
}

func (b *Box) Names() []string {
	names := make([]string, len(b.names))
	copy(names, b.names)
	return names
}

func (b *Box) Bounds() map[string]Bounds {
	copied := make(map[string]Bounds, len(b.bounds))
	for name, value := range b.bounds {
		copied[name] = value
	}
	return copied
}

// ParseBounds parses a "min,max" pair.
func ParseBounds(value string) (Bounds, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return Bounds{}, fmt.Errorf("%w: expected min,max, got %q", ErrInvalidBounds, value)
	}

	lower, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Bounds{}, fmt.Errorf("parse min %q: %w", parts[0], err)
	}
	upper, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Bounds{}, fmt.Errorf("parse max %q: %w", parts[1], err)
	}

	return Bounds{Min: lower, Max: upper}, nil
}
