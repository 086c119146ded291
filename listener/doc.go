// Package listener keeps the per-listener effect configuration.
//
// Each listener that joins gets its own effect chain, frame buffer and
// session id. Effect state lives in the chain, so it is created on join and
// released on leave; two listeners never share it. The codec handle passed
// to Join is borrowed: the store uses it to transcode packets but never
// closes it.
//
// All chain edits and all processing for one listener run under that
// listener's mutex, so an edit never interleaves with a buffer in flight.
// Different listeners process concurrently without contention.
//
//	store := listener.NewStore(nil, 0)
//	l, err := store.Join(7, codec.NewPCM())
//	err = store.AddEffect(7, effects.NewEffect(effects.KindBitDepth, 350, 1.2))
//	n, err := store.Process(7, buf, n)
//	err = store.Leave(7)
package listener
