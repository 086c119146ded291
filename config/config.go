// Package config holds the relay configuration and its defaults.
//
// The defaults reproduce the classic "eightbit" voice effect: samples
// quantized in steps of 350 with a 1.2 gain, then every second sample
// dropped. The relay listens on 127.0.0.1:4000 and replies to the sender
// unless broadcasting is enabled.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/opd-ai/eightbit/effects"
)

// Defaults.
const (
	DefaultCrushFactor   = 350
	DefaultGainFactor    = 1.2
	DefaultDesampleRate  = 2
	DefaultPort          = 4000
	DefaultAddress       = "127.0.0.1"
	DefaultFrameCapacity = effects.DefaultFrameCapacity
	DefaultCodec         = "pcm"
	DefaultFraming       = "raw"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// ErrInvalid indicates a configuration value that failed validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the relay configuration.
type Config struct {
	// CrushFactor is the quantization step of the default bit-depth stage.
	CrushFactor float64
	// GainFactor is the gain of the default bit-depth stage.
	GainFactor float64
	// DesampleRate is the rate of the default decimation stage.
	DesampleRate int

	// BroadcastPackets sends processed packets to every known peer instead
	// of only the sender.
	BroadcastPackets bool
	// Address and Port form the UDP listen address.
	Address string
	Port    uint16

	// FrameCapacity is the per-listener frame buffer size in samples.
	FrameCapacity int
	// Codec selects the codec handle for listeners: "pcm" or "opus".
	Codec string
	// Framing selects the wire framing: "raw" or "rtp".
	Framing string

	// Chain overrides the default chain when non-empty.
	Chain []effects.Effect

	LogLevel  string
	LogFormat string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		CrushFactor:   DefaultCrushFactor,
		GainFactor:    DefaultGainFactor,
		DesampleRate:  DefaultDesampleRate,
		Address:       DefaultAddress,
		Port:          DefaultPort,
		FrameCapacity: DefaultFrameCapacity,
		Codec:         DefaultCodec,
		Framing:       DefaultFraming,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
}

// ListenAddr returns the UDP listen address.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(int(c.Port)))
}

// DefaultChain returns the chain applied to listeners that join without one.
func (c *Config) DefaultChain() []effects.Effect {
	if len(c.Chain) > 0 {
		chain := make([]effects.Effect, len(c.Chain))
		for i, e := range c.Chain {
			chain[i] = effects.NewEffect(e.Kind, e.Params...)
		}
		return chain
	}
	return []effects.Effect{
		effects.NewEffect(effects.KindBitDepth, c.CrushFactor, c.GainFactor),
		effects.NewEffect(effects.KindDecimate, float64(c.DesampleRate)),
	}
}

// Validate checks the configuration, including the default chain.
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("%w: address cannot be empty", ErrInvalid)
	}
	if c.FrameCapacity <= 0 {
		return fmt.Errorf("%w: frame capacity must be positive: %d", ErrInvalid, c.FrameCapacity)
	}
	switch c.Codec {
	case "pcm", "opus":
	default:
		return fmt.Errorf("%w: unknown codec %q", ErrInvalid, c.Codec)
	}
	switch c.Framing {
	case "raw", "rtp":
	default:
		return fmt.Errorf("%w: unknown framing %q", ErrInvalid, c.Framing)
	}

	chain := effects.NewChain(nil, effects.Context{FrameCapacity: c.FrameCapacity})
	if err := chain.Replace(c.DefaultChain()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := chain.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
