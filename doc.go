// Package eightbit wires the eightbit voice relay together.
//
// A Relay owns the effect registry, the per-listener store and the UDP
// server. Listeners that join get the configured codec and the default
// effect chain, which can then be edited through the store:
//
//	cfg := config.Default()
//	r, err := eightbit.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	if _, err := r.Join(1); err != nil {
//	    log.Fatal(err)
//	}
//	if err := r.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The effect units themselves live in package effects and can be used
// without the relay.
package eightbit
