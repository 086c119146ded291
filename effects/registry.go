package effects

import (
	"errors"
	"fmt"
	"sync"
)

// Factory creates a fresh unit with its own state.
type Factory func(ctx Context) Unit

// Registry maps effect kinds to unit factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]Factory
}

var errDuplicateEffect = errors.New("duplicate effect kind")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// NewDefaultRegistry creates a registry holding every built-in unit.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(KindNone, newPassthrough)
	r.MustRegister(KindBitDepth, newBitDepthReducer)
	r.MustRegister(KindDecimate, newDecimator)
	r.MustRegister(KindLowPass, newLowPass)
	r.MustRegister(KindHighPass, newHighPass)
	r.MustRegister(KindNormalize, newNormalizer)
	r.MustRegister(KindCompress, newCompressor)
	r.MustRegister(KindDelay, newDelay)
	r.MustRegister(KindDistort, newDistortion)
	r.MustRegister(KindWaveShape, newWaveShaper)
	r.MustRegister(KindReverb, newReverb)
	return r
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the shared built-in registry. The registry only
// holds factories; every unit it creates has its own state.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewDefaultRegistry()
	})
	return defaultRegistry
}

// Register adds a factory for kind.
func (r *Registry) Register(kind Kind, factory Factory) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", ErrNoSuchEffect, kind)
	}
	if factory == nil {
		return errors.New("nil factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, kind)
	}
	r.factories[kind] = factory
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind Kind, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic("effects registry: " + err.Error())
	}
}

// Lookup returns the factory for kind.
func (r *Registry) Lookup(kind Kind) (Factory, error) {
	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchEffect, kind)
	}
	return factory, nil
}

// New resolves kind and builds a unit with fresh state.
func (r *Registry) New(kind Kind, ctx Context) (Unit, error) {
	factory, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return factory(ctx), nil
}

// Kinds lists the registered kinds in identifier order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.factories))
	for _, k := range Kinds() {
		if _, ok := r.factories[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
