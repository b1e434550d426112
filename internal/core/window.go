package core

import "github.com/cespare/xxhash/v2"

// WindowHashes returns the rolling-window hashes over a symbol's opcode
// vector. A vector shorter than the window is zero-padded up to it, so
// every symbol produces at least one window; otherwise the list has one
// hash per start position, n-windowSize+1 in total.
func WindowHashes(opcodes []uint16, windowSize int) []uint64 {
	if len(opcodes) < windowSize {
		padded := make([]uint16, windowSize)
		copy(padded, opcodes)
		opcodes = padded
	}

	hashes := make([]uint64, 0, len(opcodes)-windowSize+1)
	buf := make([]byte, 2*windowSize)
	for start := 0; start+windowSize <= len(opcodes); start++ {
		for i, op := range opcodes[start : start+windowSize] {
			buf[2*i] = byte(op >> 8)
			buf[2*i+1] = byte(op)
		}
		hashes = append(hashes, xxhash.Sum64(buf))
	}
	return hashes
}
