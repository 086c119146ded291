package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/pion/opus"
	"github.com/sirupsen/logrus"
)

// opusFrameSamples is the decoder output per packet: 20 ms of mono audio at
// 48 kHz. pion/opus always upsamples its SILK frame to this length.
const opusFrameSamples = 960

// opusFrameBytes is opusFrameSamples as 16-bit little-endian PCM.
const opusFrameBytes = opusFrameSamples * 2

// Opus decodes Opus packets with pion/opus and encodes processed frames as
// raw PCM. The decoder emits mono frames regardless of the packet's stereo
// flag. An Opus handle keeps decoder state and must not be shared between
// listeners.
type Opus struct {
	decoder   opus.Decoder
	scratch   []byte
	encoder   PCM
	bandwidth opus.Bandwidth
}

// NewOpus creates an Opus codec handle.
//
// The handle owns a pion/opus decoder and a scratch frame of
// opusFrameBytes, both allocated once and reused for every packet.
//
// Returns:
//   - *Opus: New codec handle reporting fullband until the first decode
func NewOpus() *Opus {
	logrus.WithFields(logrus.Fields{
		"function":    "NewOpus",
		"frame_bytes": opusFrameBytes,
	}).Info("Creating new Opus codec handle")

	return &Opus{
		decoder:   opus.NewDecoder(),
		scratch:   make([]byte, opusFrameBytes),
		bandwidth: opus.BandwidthFullband,
	}
}

// Decode decodes packet into dst and returns opusFrameSamples.
func (o *Opus) Decode(packet []byte, dst []uint16) (int, error) {
	if len(packet) == 0 {
		return 0, ErrEmptyPacket
	}
	if len(dst) < opusFrameSamples {
		return 0, fmt.Errorf("%w: %d samples (capacity %d)", ErrCapacity, opusFrameSamples, len(dst))
	}

	bandwidth, isStereo, err := o.decoder.Decode(packet, o.scratch)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "Opus.Decode",
			"data_size": len(packet),
			"error":     err.Error(),
		}).Debug("Opus decode failed")
		return 0, fmt.Errorf("opus decode failed: %w", err)
	}
	o.bandwidth = bandwidth

	if isStereo && logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.WithFields(logrus.Fields{
			"function":  "Opus.Decode",
			"bandwidth": bandwidth.String(),
		}).Debug("Stereo packet decoded as mono")
	}

	return o.copyFrame(dst)
}

// copyFrame moves the decoded scratch frame into dst.
func (o *Opus) copyFrame(dst []uint16) (int, error) {
	n := len(o.scratch) / 2
	if n > len(dst) {
		return 0, fmt.Errorf("%w: %d samples (capacity %d)", ErrCapacity, n, len(dst))
	}
	for i := 0; i < n; i++ {
		dst[i] = binary.LittleEndian.Uint16(o.scratch[i*2:])
	}
	return n, nil
}

// Encode serializes src as raw PCM.
func (o *Opus) Encode(src []uint16) ([]byte, error) {
	return o.encoder.Encode(src)
}

// Bandwidth returns the bandwidth of the last decoded packet.
func (o *Opus) Bandwidth() opus.Bandwidth {
	return o.bandwidth
}

// SampleRate returns the coded sample rate of the last decoded packet.
// Decoded frames are always 48 kHz.
func (o *Opus) SampleRate() uint32 {
	return uint32(o.bandwidth.SampleRate())
}
