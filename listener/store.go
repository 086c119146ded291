package listener

import (
	"fmt"
	"slices"
	"sync"

	"github.com/opd-ai/eightbit/effects"
	"github.com/sirupsen/logrus"
)

// Store maps listener ids to their configuration.
type Store struct {
	mu        sync.RWMutex
	listeners map[ID]*Listener

	registry      *effects.Registry
	frameCapacity int
}

// NewStore creates an empty listener store.
//
// Parameters:
//   - registry: Effect registry for every listener chain; nil selects the
//     built-in effects
//   - frameCapacity: Per-listener frame buffer size in samples; values <= 0
//     select effects.DefaultFrameCapacity
//
// Returns:
//   - *Store: Store with no listeners
func NewStore(registry *effects.Registry, frameCapacity int) *Store {
	if registry == nil {
		registry = effects.DefaultRegistry()
	}
	if frameCapacity <= 0 {
		frameCapacity = effects.DefaultFrameCapacity
	}

	logrus.WithFields(logrus.Fields{
		"function":       "NewStore",
		"frame_capacity": frameCapacity,
	}).Info("Creating listener store")

	return &Store{
		listeners:     make(map[ID]*Listener),
		registry:      registry,
		frameCapacity: frameCapacity,
	}
}

// Join registers a listener with an empty chain and fresh effect state.
func (s *Store) Join(id ID, codec Codec) (*Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.listeners[id]; exists {
		logrus.WithFields(logrus.Fields{
			"function":    "Store.Join",
			"listener_id": id,
		}).Warn("Rejecting join for listener already present")
		return nil, fmt.Errorf("%w: %d", ErrListenerExists, id)
	}

	l := newListener(id, codec, s.registry, s.frameCapacity)
	s.listeners[id] = l

	logrus.WithFields(logrus.Fields{
		"function":    "Store.Join",
		"listener_id": id,
		"session_id":  l.sessionID.String(),
		"listeners":   len(s.listeners),
	}).Info("Listener joined")

	return l, nil
}

// Leave removes a listener and releases its effect state. The codec is not
// closed.
func (s *Store) Leave(id ID) error {
	s.mu.Lock()
	l, exists := s.listeners[id]
	if exists {
		delete(s.listeners, id)
	}
	remaining := len(s.listeners)
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %d", ErrListenerNotFound, id)
	}
	l.close()

	logrus.WithFields(logrus.Fields{
		"function":    "Store.Leave",
		"listener_id": id,
		"session_id":  l.sessionID.String(),
		"listeners":   remaining,
	}).Info("Listener left")

	return nil
}

// Get returns the listener for id.
func (s *Store) Get(id ID) (*Listener, error) {
	s.mu.RLock()
	l, exists := s.listeners[id]
	s.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %d", ErrListenerNotFound, id)
	}
	return l, nil
}

// Len returns the number of joined listeners.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

// IDs returns the joined listener ids in ascending order.
func (s *Store) IDs() []ID {
	s.mu.RLock()
	ids := make([]ID, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Effects returns a copy of the listener's chain.
func (s *Store) Effects(id ID) ([]effects.Effect, error) {
	l, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return l.Effects(), nil
}

// SetChain replaces the listener's chain. Every stage gets fresh state.
// The chain is validated first; on error the old chain stays in place.
func (s *Store) SetChain(id ID, chain []effects.Effect) error {
	return s.edit(id, "Store.SetChain", func(c *effects.Chain) error {
		next := effects.NewChain(s.registry, effects.Context{FrameCapacity: s.frameCapacity})
		if err := next.Replace(chain); err != nil {
			return err
		}
		if err := next.Validate(); err != nil {
			return err
		}
		*c = *next
		return nil
	})
}

// AddEffect appends a validated stage with fresh state.
func (s *Store) AddEffect(id ID, e effects.Effect) error {
	return s.edit(id, "Store.AddEffect", func(c *effects.Chain) error {
		if err := c.Append(e); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			_ = c.Remove(c.Len() - 1)
			return err
		}
		return nil
	})
}

// RemoveEffect drops the stage at pos and its state.
func (s *Store) RemoveEffect(id ID, pos int) error {
	return s.edit(id, "Store.RemoveEffect", func(c *effects.Chain) error {
		return c.Remove(pos)
	})
}

// MoveEffect moves the stage at from to position to, keeping its state.
func (s *Store) MoveEffect(id ID, from, to int) error {
	return s.edit(id, "Store.MoveEffect", func(c *effects.Chain) error {
		return c.Move(from, to)
	})
}

// ResetEffects returns every stage of the listener's chain to a cold start.
func (s *Store) ResetEffects(id ID) error {
	return s.edit(id, "Store.ResetEffects", func(c *effects.Chain) error {
		c.Reset()
		return nil
	})
}

// Process runs buf[:n] through the listener's chain.
func (s *Store) Process(id ID, buf []uint16, n int) (int, error) {
	l, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	return l.Process(buf, n)
}

// Close removes every listener.
func (s *Store) Close() {
	for _, id := range s.IDs() {
		_ = s.Leave(id)
	}
}

func (s *Store) edit(id ID, function string, fn func(c *effects.Chain) error) error {
	l, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := l.edit(fn); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    function,
			"listener_id": id,
			"error":       err.Error(),
		}).Warn("Chain edit rejected")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function":    function,
		"listener_id": id,
		"session_id":  l.sessionID.String(),
	}).Info("Chain updated")
	return nil
}
