package indicator

import (
	"slices"
	"sync"

	"github.com/rxtech-lab/dionysus/pkg/errors"
)

// Registry is the ordered set of indicators a strategy needs.
type Registry interface {
	// Add appends the indicator and returns false when it is already registered.
	Add(indicator Indicator) bool
	Contains(indicator Indicator) bool
	List() []Indicator
	Remove(indicator Indicator) error
}

// RegistryV1 is a Registry safe for concurrent use.
type RegistryV1 struct {
	indicators []Indicator
	mu         sync.RWMutex
}

// NewRegistry creates a registry holding the given indicators without duplicates.
func NewRegistry(indicators ...Indicator) Registry {
	r := &RegistryV1{
		indicators: make([]Indicator, 0, len(indicators)),
		mu:         sync.RWMutex{},
	}

	for _, indicator := range indicators {
		r.Add(indicator)
	}

	return r
}

// Add appends the indicator unless it is already registered.
func (r *RegistryV1) Add(indicator Indicator) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.indicators, indicator) {
		return false
	}

	r.indicators = append(r.indicators, indicator)

	return true
}

// Contains reports whether the indicator is registered.
func (r *RegistryV1) Contains(indicator Indicator) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Contains(r.indicators, indicator)
}

// List returns the registered indicators in insertion order.
func (r *RegistryV1) List() []Indicator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.indicators)
}

// Remove removes an indicator from the registry.
func (r *RegistryV1) Remove(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := slices.Index(r.indicators, indicator)
	if index < 0 {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator %s not found", indicator)
	}

	r.indicators = slices.Delete(r.indicators, index, index+1)

	return nil
}
