// Package pcm converts between the wire sample representation used by voice
// packets and the floating amplitude domain used by the effect units.
//
// # Wire Format
//
// A wire sample is an unsigned 16-bit container that holds a two's-complement
// signed value. The package never reinterprets memory; every conversion is an
// explicit numeric mapping:
//
//	0x0000..0x7FFF  ->       0..32767
//	0x8000..0xFFFF  ->  -32768..-1
//
// # Amplitude Domain
//
// Decode maps a sample onto [-1.0, 1.0) by dividing by 32768. Encode clamps
// its input to [-1.0, 1.0], scales by 32768 and truncates toward zero, then
// saturates the result to the signed 16-bit range. The pair round-trips every
// representable sample exactly; +1.0 saturates to 32767 because the signed
// range has no positive counterpart to -32768.
//
//	amp := pcm.Decode(buf[i])
//	buf[i] = pcm.Encode(amp * 0.5)
//
// Integer-domain effects use Signed and FromSigned, which saturates, to get
// the same clamp discipline without leaving the integer domain.
package pcm
