package effects

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// stage pairs a descriptor with the unit holding its state.
type stage struct {
	effect Effect
	unit   Unit
}

// Chain is an ordered list of effect stages. Insertion order is execution
// order. Each stage owns its unit, so state follows the stage when it is
// moved and is dropped when the stage is removed.
type Chain struct {
	registry *Registry
	ctx      Context
	stages   []stage
}

// NewChain creates an empty effect chain.
//
// Stages added later are resolved through registry when they are added, so
// an unknown kind fails the edit rather than a later Process call.
//
// Parameters:
//   - registry: Kind to unit table; nil selects DefaultRegistry
//   - ctx: Construction settings handed to every unit of the chain
//
// Returns:
//   - *Chain: Empty chain ready for Append/Insert/Replace
func NewChain(registry *Registry, ctx Context) *Chain {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Chain{registry: registry, ctx: ctx}
}

// Len returns the number of stages.
func (c *Chain) Len() int {
	return len(c.stages)
}

// Effects returns a copy of the chain's descriptors.
func (c *Chain) Effects() []Effect {
	effects := make([]Effect, len(c.stages))
	for i, s := range c.stages {
		effects[i] = NewEffect(s.effect.Kind, s.effect.Params...)
	}
	return effects
}

func (c *Chain) newStage(pos int, e Effect) (stage, error) {
	unit, err := c.registry.New(e.Kind, c.ctx)
	if err != nil {
		return stage{}, &StageError{Position: pos, Kind: e.Kind, Err: err}
	}
	return stage{effect: NewEffect(e.Kind, e.Params...), unit: unit}, nil
}

// Append resolves e and adds it with fresh state at the end of the chain.
func (c *Chain) Append(e Effect) error {
	s, err := c.newStage(len(c.stages), e)
	if err != nil {
		return err
	}
	c.stages = append(c.stages, s)

	logrus.WithFields(logrus.Fields{
		"function": "Chain.Append",
		"effect":   e.String(),
		"position": len(c.stages) - 1,
	}).Debug("Effect appended to chain")
	return nil
}

// Insert resolves e and adds it with fresh state at pos.
func (c *Chain) Insert(pos int, e Effect) error {
	if pos < 0 || pos > len(c.stages) {
		return fmt.Errorf("%w: %d (len %d)", ErrPosition, pos, len(c.stages))
	}
	s, err := c.newStage(pos, e)
	if err != nil {
		return err
	}
	c.stages = append(c.stages, stage{})
	copy(c.stages[pos+1:], c.stages[pos:])
	c.stages[pos] = s
	return nil
}

// Remove drops the stage at pos together with its state.
func (c *Chain) Remove(pos int) error {
	if pos < 0 || pos >= len(c.stages) {
		return fmt.Errorf("%w: %d (len %d)", ErrPosition, pos, len(c.stages))
	}
	copy(c.stages[pos:], c.stages[pos+1:])
	c.stages[len(c.stages)-1] = stage{}
	c.stages = c.stages[:len(c.stages)-1]
	return nil
}

// Move relocates the stage at from to position to. The stage keeps its state.
func (c *Chain) Move(from, to int) error {
	if from < 0 || from >= len(c.stages) || to < 0 || to >= len(c.stages) {
		return fmt.Errorf("%w: move %d -> %d (len %d)", ErrPosition, from, to, len(c.stages))
	}
	s := c.stages[from]
	if from < to {
		copy(c.stages[from:to], c.stages[from+1:to+1])
	} else {
		copy(c.stages[to+1:from+1], c.stages[to:from])
	}
	c.stages[to] = s
	return nil
}

// Replace swaps the whole chain for effects. Every stage gets fresh state.
// On error the chain is left unchanged.
func (c *Chain) Replace(effects []Effect) error {
	stages := make([]stage, 0, len(effects))
	for i, e := range effects {
		s, err := c.newStage(i, e)
		if err != nil {
			return err
		}
		stages = append(stages, s)
	}
	c.stages = stages
	return nil
}

// Validate checks every stage's parameters without processing.
func (c *Chain) Validate() error {
	for i, s := range c.stages {
		if err := s.unit.Validate(s.effect.Params); err != nil {
			return &StageError{Position: i, Kind: s.effect.Kind, Err: err}
		}
	}
	return nil
}

// Reset returns every stage to a cold start.
func (c *Chain) Reset() {
	for _, s := range c.stages {
		s.unit.Reset()
	}
}

// Clear drops every stage and its state.
func (c *Chain) Clear() {
	clear(c.stages)
	c.stages = c.stages[:0]
}

// Process runs buf[:n] through every stage in order, carrying the live
// count from one stage to the next, and returns the final count.
//
// The first failing stage aborts the chain. Domain and lookup failures
// return the count produced by the last successful stage; buf holds that
// stage's output. Capacity failures return zero.
func (c *Chain) Process(buf []uint16, n int) (int, error) {
	if n < 0 || n > len(buf) {
		return 0, c.fail(0, fmt.Errorf("%w: %d (capacity %d)", ErrCapacity, n, len(buf)))
	}

	debug := logrus.IsLevelEnabled(logrus.DebugLevel)
	if debug {
		logrus.WithFields(logrus.Fields{
			"function":     "Chain.Process",
			"sample_count": n,
			"stage_count":  len(c.stages),
		}).Debug("Processing buffer through effect chain")
	}

	for i, s := range c.stages {
		out, err := s.unit.Process(buf, n, s.effect.Params)
		if err != nil {
			return n, c.fail(i, err)
		}
		if out < 0 || out > n {
			return 0, c.fail(i, fmt.Errorf("%w: stage returned %d of %d samples", ErrCapacity, out, n))
		}
		n = out
	}

	if debug {
		logrus.WithFields(logrus.Fields{
			"function":     "Chain.Process",
			"sample_count": n,
		}).Debug("Effect chain processing completed")
	}
	return n, nil
}

func (c *Chain) fail(pos int, err error) error {
	kind := KindNone
	if pos < len(c.stages) {
		kind = c.stages[pos].effect.Kind
	}
	stageErr := &StageError{Position: pos, Kind: kind, Err: err}

	logrus.WithFields(logrus.Fields{
		"function": "Chain.Process",
		"position": pos,
		"kind":     kind.String(),
		"error":    err.Error(),
	}).Error("Effect stage failed")

	return stageErr
}
