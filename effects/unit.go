package effects

// Unit is the executable form of one chain stage.
//
// A Unit owns the persistent state of exactly one chain position. Process
// operates on buf[:n] and returns the new live count, which never exceeds n.
// Parameters are validated before any sample is modified, so a failed call
// leaves buf untouched.
type Unit interface {
	// Process mutates buf[:n] in place and returns the live sample count.
	Process(buf []uint16, n int, params []float64) (int, error)

	// Validate checks params without processing.
	Validate(params []float64) error

	// Reset clears persistent state back to a cold start.
	Reset()
}

// Context carries construction settings shared by every unit of a chain.
type Context struct {
	// FrameCapacity is the largest buffer the chain is expected to see.
	// Units size scratch space from it.
	FrameCapacity int
}

// DefaultFrameCapacity matches the relay frame buffer.
const DefaultFrameCapacity = 10 * 1024

func (c Context) frameCapacity() int {
	if c.FrameCapacity <= 0 {
		return DefaultFrameCapacity
	}
	return c.FrameCapacity
}

// passthrough backs KindNone.
type passthrough struct{}

func newPassthrough(Context) Unit { return passthrough{} }

func (passthrough) Process(_ []uint16, n int, _ []float64) (int, error) { return n, nil }

func (passthrough) Validate([]float64) error { return nil }

func (passthrough) Reset() {}
