package eightbit

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/eightbit/codec"
	"github.com/opd-ai/eightbit/config"
	"github.com/opd-ai/eightbit/effects"
	"github.com/opd-ai/eightbit/listener"
	"github.com/opd-ai/eightbit/relay"
)

// ErrUnknownCodec indicates an unsupported codec name.
var ErrUnknownCodec = errors.New("unknown codec")

// NewCodec returns a fresh codec handle for name.
func NewCodec(name string) (listener.Codec, error) {
	switch name {
	case "pcm":
		return codec.NewPCM(), nil
	case "opus":
		return codec.NewOpus(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Relay is a configured voice relay.
type Relay struct {
	cfg    *config.Config
	store  *listener.Store
	server *relay.Server
}

// New creates a relay from cfg.
//
// The configuration is validated, including its default chain, before
// anything is allocated.
//
// Parameters:
//   - cfg: Relay configuration; nil selects config.Default
//
// Returns:
//   - *Relay: Relay with an empty listener store, not yet serving
//   - error: config.ErrInvalid or an unknown framing
func New(cfg *config.Config) (*Relay, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	framing, err := relay.ParseFraming(cfg.Framing)
	if err != nil {
		return nil, err
	}

	store := listener.NewStore(effects.DefaultRegistry(), cfg.FrameCapacity)
	server := relay.NewServer(store, relay.Options{
		Addr:      cfg.ListenAddr(),
		Broadcast: cfg.BroadcastPackets,
		Framing:   framing,
	})

	logrus.WithFields(logrus.Fields{
		"function":       "New",
		"addr":           cfg.ListenAddr(),
		"codec":          cfg.Codec,
		"framing":        framing.String(),
		"frame_capacity": cfg.FrameCapacity,
	}).Info("Relay created")

	return &Relay{
		cfg:    cfg,
		store:  store,
		server: server,
	}, nil
}

// Config returns the relay configuration.
func (r *Relay) Config() *config.Config { return r.cfg }

// Store returns the listener store.
func (r *Relay) Store() *listener.Store { return r.store }

// Join adds a listener with the configured codec and the default chain.
func (r *Relay) Join(id listener.ID) (*listener.Listener, error) {
	c, err := NewCodec(r.cfg.Codec)
	if err != nil {
		return nil, err
	}
	l, err := r.store.Join(id, c)
	if err != nil {
		return nil, err
	}
	if err := r.store.SetChain(id, r.cfg.DefaultChain()); err != nil {
		_ = r.store.Leave(id)
		return nil, err
	}
	return l, nil
}

// Leave removes a listener and its effect state.
func (r *Relay) Leave(id listener.ID) error {
	return r.store.Leave(id)
}

// Start begins serving packets.
func (r *Relay) Start(ctx context.Context) error {
	return r.server.Start(ctx)
}

// Stop stops serving packets.
func (r *Relay) Stop() error {
	return r.server.Stop()
}

// Addr returns the bound UDP address, or nil when not started.
func (r *Relay) Addr() net.Addr {
	return r.server.Addr()
}

// Stats returns the relay counters.
func (r *Relay) Stats() relay.Stats {
	return r.server.Stats()
}

// Close stops the server if it is running and drops every listener.
func (r *Relay) Close() error {
	if err := r.server.Stop(); err != nil && !errors.Is(err, relay.ErrNotRunning) {
		return err
	}
	r.store.Close()
	return nil
}
