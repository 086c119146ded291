// Package relay implements the UDP voice relay around the effect pipeline.
//
// Each datagram carries a 4-byte big-endian listener id followed by a codec
// payload. For a joined listener the relay decodes the payload, runs the
// listener's effect chain and encodes the result; packets for anyone else
// pass through untouched. The processed packet goes back to the sender, or
// to every other peer seen so far when broadcasting is enabled.
//
// A packet whose chain fails is dropped and counted. Processing errors never
// stop the relay.
//
//	srv := relay.NewServer(store, relay.Options{Addr: "127.0.0.1:4000"})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//	defer srv.Stop()
package relay
