package listener

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opd-ai/eightbit/effects"
	"github.com/opd-ai/eightbit/pcm"
)

// ID identifies a listener, typically a player number from the host.
type ID uint32

// Codec converts between voice packets and wire samples. The store holds
// codecs by reference only; their lifecycle belongs to the caller.
type Codec interface {
	// Decode decodes packet into dst and returns the sample count.
	Decode(packet []byte, dst []uint16) (int, error)
	// Encode encodes src into a packet.
	Encode(src []uint16) ([]byte, error)
}

// Listener is one joined listener: its codec handle and effect chain.
type Listener struct {
	id        ID
	sessionID uuid.UUID
	codec     Codec
	joinedAt  time.Time

	mu     sync.Mutex
	chain  *effects.Chain
	frame  *pcm.Buffer
	closed bool
}

func newListener(id ID, codec Codec, registry *effects.Registry, frameCapacity int) *Listener {
	return &Listener{
		id:        id,
		sessionID: uuid.New(),
		codec:     codec,
		joinedAt:  time.Now(),
		chain:     effects.NewChain(registry, effects.Context{FrameCapacity: frameCapacity}),
		frame:     pcm.NewBuffer(frameCapacity),
	}
}

// ID returns the listener id.
func (l *Listener) ID() ID { return l.id }

// SessionID identifies this join. A listener that leaves and joins again
// gets a new session id.
func (l *Listener) SessionID() uuid.UUID { return l.sessionID }

// Codec returns the borrowed codec handle.
func (l *Listener) Codec() Codec { return l.codec }

// JoinedAt returns the join time.
func (l *Listener) JoinedAt() time.Time { return l.joinedAt }

// Effects returns a copy of the listener's chain.
func (l *Listener) Effects() []effects.Effect {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chain.Effects()
}

// Process runs buf[:n] through the listener's chain.
func (l *Listener) Process(buf []uint16, n int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, fmt.Errorf("%w: %d", ErrListenerNotFound, l.id)
	}
	return l.chain.Process(buf, n)
}

// Transcode decodes packet with the listener's codec into its frame buffer,
// runs the chain and encodes the result. The frame buffer is reused for
// every packet.
func (l *Listener) Transcode(packet []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, fmt.Errorf("%w: %d", ErrListenerNotFound, l.id)
	}
	if l.codec == nil {
		return nil, fmt.Errorf("%w: %d", ErrNoCodec, l.id)
	}

	n, err := l.codec.Decode(packet, l.frame.Raw())
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	if err := l.frame.SetLen(n); err != nil {
		return nil, err
	}

	n, err = l.chain.Process(l.frame.Raw(), n)
	if err != nil {
		return nil, err
	}
	if err := l.frame.SetLen(n); err != nil {
		return nil, err
	}

	out, err := l.codec.Encode(l.frame.Samples())
	if err != nil {
		return nil, fmt.Errorf("encode failed: %w", err)
	}
	return out, nil
}

// edit runs fn against the chain under the listener lock.
func (l *Listener) edit(fn func(c *effects.Chain) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("%w: %d", ErrListenerNotFound, l.id)
	}
	return fn(l.chain)
}

// close waits for in-flight processing and releases the chain state.
func (l *Listener) close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.chain.Clear()
	l.frame.Reset()
	l.closed = true
}
