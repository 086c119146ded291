// Package effects implements the real-time voice effect pipeline.
//
// An effect chain is an ordered list of descriptors, each naming an effect
// Kind and a positional parameter list. Every descriptor is resolved through
// a Registry into a Unit that owns the persistent state for that one chain
// position: filter history, envelope memory, delay and reverb lines. Units
// are created when a stage is added and dropped when it is removed, so two
// chains never share state.
//
// # Processing Model
//
// Units mutate a caller-owned buffer of wire samples in place:
//
//	n, err := unit.Process(buf, n, params)
//
// The returned count is never larger than the input count. Only the
// decimator shrinks it. Units allocate nothing while processing.
//
// # Parameters
//
// Continuous parameters are normalized to [0, 1]. Time parameters are
// explicit sample counts. Values outside their range are rejected with
// ErrDomain instead of being reinterpreted.
//
//	Kind            Parameters
//	bit-depth       quant (0, 32768] sample units, gain [0, 4]
//	decimate        rate: integer >= 1
//	low-pass        coefficient [0, 1]
//	high-pass       coefficient [0, 1]
//	normalize       targetPeak [0, 1]
//	compress        threshold [0, 1], ratio >= 1
//	delay           delaySamples: integer [1, DelayCapacity], feedback [0, 1]
//	distort         threshold [0, 1]
//	wave-shape      intensity [0, 1]
//	reverb          roomSize [0, 1], decay [0, 1], wetDry [0, 1]
//
// # Failure Policy
//
// Chain.Process aborts at the first failing stage. Units validate their
// parameters before touching samples, so the buffer holds exactly the output
// of the last successful stage and the returned count matches it. Every
// failure is a *StageError naming the position and kind. A capacity failure
// returns a zero count and the buffer must be discarded.
//
// # Concurrency
//
// A Chain is not safe for concurrent use. Callers serialize edits against
// processing per chain; see package listener.
package effects
