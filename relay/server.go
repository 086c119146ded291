package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/eightbit/listener"
)

// Server state errors.
var (
	// ErrNotRunning indicates the server has not been started.
	ErrNotRunning = errors.New("relay is not running")

	// ErrAlreadyRunning indicates the server is already running.
	ErrAlreadyRunning = errors.New("relay is already running")
)

// Options configures a Server.
type Options struct {
	// Addr is the UDP listen address, host:port.
	Addr string
	// Broadcast sends processed packets to every other known peer instead
	// of back to the sender.
	Broadcast bool
	// Framing selects the wire framing.
	Framing Framing
}

// Stats is a snapshot of relay counters.
type Stats struct {
	Received  uint64
	Processed uint64
	Forwarded uint64
	Dropped   uint64
	Peers     int
}

// Server is the UDP voice relay.
type Server struct {
	store *listener.Store
	opts  Options

	mu      sync.RWMutex
	conn    net.PacketConn
	running bool
	peers   map[string]net.Addr
	cancel  context.CancelFunc
	done    chan struct{}

	received  atomic.Uint64
	processed atomic.Uint64
	forwarded atomic.Uint64
	dropped   atomic.Uint64
}

// NewServer creates a relay over store. The socket is not bound until Start.
//
// Parameters:
//   - store: Listener store consulted for every packet
//   - opts: Listen address, broadcast mode and wire framing
//
// Returns:
//   - *Server: Stopped relay
func NewServer(store *listener.Store, opts Options) *Server {
	return &Server{
		store: store,
		opts:  opts,
		peers: make(map[string]net.Addr),
	}
}

// Start binds the socket and serves until ctx is done or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	conn, err := net.ListenPacket("udp", s.opts.Addr)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Server.Start",
			"addr":     s.opts.Addr,
			"error":    err.Error(),
		}).Error("Failed to bind relay socket")
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.conn = conn
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.serve(ctx, conn, s.done)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	logrus.WithFields(logrus.Fields{
		"function":  "Server.Start",
		"addr":      conn.LocalAddr().String(),
		"broadcast": s.opts.Broadcast,
		"framing":   s.opts.Framing.String(),
	}).Info("Voice relay started")

	return nil
}

// Stop closes the socket and waits for the serve loop to exit.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	logrus.WithFields(logrus.Fields{
		"function":  "Server.Stop",
		"received":  s.received.Load(),
		"processed": s.processed.Load(),
		"dropped":   s.dropped.Load(),
	}).Info("Voice relay stopped")

	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Stats returns a snapshot of the counters.
func (s *Server) Stats() Stats {
	s.mu.RLock()
	peers := len(s.peers)
	s.mu.RUnlock()

	return Stats{
		Received:  s.received.Load(),
		Processed: s.processed.Load(),
		Forwarded: s.forwarded.Load(),
		Dropped:   s.dropped.Load(),
		Peers:     peers,
	}
}

// HandlePacket processes one datagram and returns the packet to send on.
// Packets for listeners that have not joined are returned unchanged.
func (s *Server) HandlePacket(packet []byte) ([]byte, error) {
	id, payload, err := s.opts.Framing.Split(packet)
	if err != nil {
		return nil, err
	}

	l, err := s.store.Get(id)
	if errors.Is(err, listener.ErrListenerNotFound) {
		s.forwarded.Add(1)
		return packet, nil
	}
	if err != nil {
		return nil, err
	}

	out, err := l.Transcode(payload)
	if err != nil {
		return nil, fmt.Errorf("listener %d: %w", id, err)
	}
	reply, err := s.opts.Framing.Rewrap(packet, id, out)
	if err != nil {
		return nil, err
	}
	s.processed.Add(1)
	return reply, nil
}

func (s *Server) serve(ctx context.Context, conn net.PacketConn, done chan struct{}) {
	defer close(done)

	buf := make([]byte, MaxPacketSize)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			logrus.WithFields(logrus.Fields{
				"function": "Server.serve",
				"error":    err.Error(),
			}).Warn("Relay read failed")
			continue
		}
		s.received.Add(1)
		s.rememberPeer(from)

		out, err := s.HandlePacket(buf[:n])
		if err != nil {
			s.dropped.Add(1)
			logrus.WithFields(logrus.Fields{
				"function": "Server.serve",
				"from":     from.String(),
				"error":    err.Error(),
			}).Warn("Dropping voice packet")
			continue
		}
		s.send(conn, from, out)
	}
}

func (s *Server) rememberPeer(addr net.Addr) {
	key := addr.String()

	s.mu.RLock()
	_, known := s.peers[key]
	s.mu.RUnlock()
	if known {
		return
	}

	s.mu.Lock()
	s.peers[key] = addr
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "Server.rememberPeer",
		"peer":     key,
	}).Debug("New relay peer")
}

func (s *Server) send(conn net.PacketConn, from net.Addr, packet []byte) {
	if !s.opts.Broadcast {
		s.write(conn, from, packet)
		return
	}

	s.mu.RLock()
	targets := make([]net.Addr, 0, len(s.peers))
	for key, addr := range s.peers {
		if key != from.String() {
			targets = append(targets, addr)
		}
	}
	s.mu.RUnlock()

	for _, addr := range targets {
		s.write(conn, addr, packet)
	}
}

func (s *Server) write(conn net.PacketConn, to net.Addr, packet []byte) {
	if _, err := conn.WriteTo(packet, to); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Server.write",
			"to":       to.String(),
			"error":    err.Error(),
		}).Warn("Relay write failed")
	}
}
