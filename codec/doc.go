// Package codec provides the voice codec handles used by the relay.
//
// Handles convert between network packets and wire samples (see package
// pcm). The effect pipeline never touches them; the listener store borrows
// one per listener and the caller owns its lifecycle.
//
// Two handles are available:
//
//   - PCM: little-endian 16-bit passthrough in both directions
//   - Opus: pion/opus decoding, PCM passthrough encoding
//
// pion/opus is a pure Go decoder with no encoder, so Opus re-encodes
// processed frames as raw PCM.
package codec
