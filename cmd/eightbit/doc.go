// Package main runs the eightbit voice relay.
//
// The relay listens on a UDP address and applies each joined listener's
// effect chain to the voice packets addressed to it. With no -effect flags
// listeners get the classic bit-crush and decimate chain built from -crush,
// -gain and -desample.
package main
