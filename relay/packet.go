package relay

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/pion/rtp"

	"github.com/opd-ai/eightbit/listener"
)

// HeaderSize is the length of the raw framing's listener id prefix.
const HeaderSize = 4

// MaxPacketSize bounds a single datagram.
const MaxPacketSize = 65507

// Packet errors.
var (
	// ErrPacketTooShort indicates a datagram shorter than its header.
	ErrPacketTooShort = errors.New("packet shorter than header")

	// ErrUnknownFraming indicates an unsupported framing name.
	ErrUnknownFraming = errors.New("unknown framing")
)

// Framing selects how listener ids travel on the wire.
type Framing uint8

const (
	// FramingRaw prefixes the payload with a 4-byte big-endian listener id.
	FramingRaw Framing = iota
	// FramingRTP carries the payload in an RTP packet whose SSRC is the
	// listener id. Replies keep the incoming RTP header.
	FramingRTP
)

// ParseFraming maps "raw" or "rtp" to a Framing.
func ParseFraming(name string) (Framing, error) {
	switch strings.ToLower(name) {
	case "", "raw":
		return FramingRaw, nil
	case "rtp":
		return FramingRTP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFraming, name)
}

func (f Framing) String() string {
	if f == FramingRTP {
		return "rtp"
	}
	return "raw"
}

// Split extracts the listener id and payload from packet. The payload
// aliases packet.
func (f Framing) Split(packet []byte) (listener.ID, []byte, error) {
	if f == FramingRTP {
		var p rtp.Packet
		if err := p.Unmarshal(packet); err != nil {
			return 0, nil, fmt.Errorf("%w: %w", ErrPacketTooShort, err)
		}
		return listener.ID(p.SSRC), p.Payload, nil
	}
	return DecodePacket(packet)
}

// Rewrap frames payload as the reply to original.
func (f Framing) Rewrap(original []byte, id listener.ID, payload []byte) ([]byte, error) {
	if f == FramingRTP {
		var in rtp.Packet
		if err := in.Unmarshal(original); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPacketTooShort, err)
		}
		header := in.Header
		header.Padding = false
		out := rtp.Packet{Header: header, Payload: payload}
		return out.Marshal()
	}
	return EncodePacket(id, payload), nil
}

// EncodePacket prefixes payload with the listener id.
func EncodePacket(id listener.ID, payload []byte) []byte {
	packet := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(packet, uint32(id))
	copy(packet[HeaderSize:], payload)
	return packet
}

// DecodePacket splits a raw datagram into listener id and payload. The
// payload aliases packet.
func DecodePacket(packet []byte) (listener.ID, []byte, error) {
	if len(packet) < HeaderSize {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrPacketTooShort, len(packet))
	}
	return listener.ID(binary.BigEndian.Uint32(packet)), packet[HeaderSize:], nil
}
