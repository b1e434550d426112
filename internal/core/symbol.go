// Package core computes the multi-resolution fingerprints of extracted
// symbols and the in-memory similarity operations built on them.
package core

import (
	"log"

	"github.com/cespare/xxhash/v2"

	"coddog/internal/arch"
	"coddog/internal/platform"
	"coddog/internal/reloc"
)

// Symbol is one fingerprinted function. All hash fields are pure functions
// of (bytes, vram, platform, relocations); a Symbol is never mutated after
// construction.
type Symbol struct {
	Name         string
	Bytes        []byte
	Opcodes      []uint16
	Vram         uint64
	SymbolIdx    int
	IsDecompiled bool
	OpcodeHash   uint64
	EquivHash    uint64
	ExactHash    uint64
	Platform     platform.Platform
}

// Binary is a named collection of symbols from one build.
type Binary struct {
	Name    string
	Symbols []Symbol
}

// NewSymbol trims trailing zero padding, decodes the opcode vector and
// computes the three fingerprints. relocs is keyed by vram address.
func NewSymbol(name string, raw []byte, vram uint64, symbolIdx int, isDecompiled bool, p platform.Platform, relocs reloc.Map) Symbol {
	bytes := trimTrailingZeros(raw, p.Arch().InsnLength())

	opcodes := arch.Opcodes(bytes, p)

	return Symbol{
		Name:         name,
		Bytes:        bytes,
		Opcodes:      opcodes,
		Vram:         vram,
		SymbolIdx:    symbolIdx,
		IsDecompiled: isDecompiled,
		OpcodeHash:   hashOpcodes(opcodes),
		EquivHash:    equivalenceHash(bytes, vram, p, relocs),
		ExactHash:    xxhash.Sum64(bytes),
		Platform:     p,
	}
}

// NumInsns returns the length of the opcode vector.
func (s *Symbol) NumInsns() int {
	return len(s.Opcodes)
}

// trimTrailingZeros drops trailing all-zero chunks of the instruction
// length, removing tool-injected nop padding that would perturb hashes.
func trimTrailingZeros(b []byte, insnLen int) []byte {
	end := len(b) - len(b)%insnLen
	for end >= insnLen {
		zero := true
		for _, c := range b[end-insnLen : end] {
			if c != 0 {
				zero = false
				break
			}
		}
		if !zero {
			break
		}
		end -= insnLen
	}
	return b[:end]
}

// hashOpcodes hashes the opcode-id vector.
func hashOpcodes(opcodes []uint16) uint64 {
	d := xxhash.New()
	for _, op := range opcodes {
		d.Write([]byte{byte(op >> 8), byte(op)})
	}
	return d.Sum64()
}

// equivalenceHash hashes the instruction stream with relocated operands
// replaced by dense relocation identities. The identity of a relocation is
// its order of first appearance within this one symbol, so isomorphic
// functions referring to unrelated external names still hash equal.
func equivalenceHash(bytes []byte, vram uint64, p platform.Platform, relocs reloc.Map) uint64 {
	d := xxhash.New()

	relocIDs := make(map[reloc.Canonical]int)

	insnLen := p.Arch().InsnLength()
	for off := 0; off < len(bytes); {
		insn, err := arch.Decode(bytes[off:], uint32(vram)+uint32(off), p)
		if err != nil {
			log.Printf("warning: failed to read instruction at %#x: %v", vram+uint64(off), err)
			off += insnLen
			continue
		}

		c, hashedReloc := relocs[vram+uint64(off)]
		if hashedReloc {
			id, seen := relocIDs[c]
			if !seen {
				id = len(relocIDs)
				relocIDs[c] = id
			}
			d.Write([]byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)})
		}

		op := insn.OpcodeID()
		d.Write([]byte{byte(op >> 8), byte(op)})

		for _, operand := range insn.Operands() {
			switch operand.Class() {
			case arch.ClassRegister, arch.ClassLabel:
				operand.Emit(d)
			case arch.ClassImmediate:
				if !hashedReloc {
					operand.Emit(d)
				}
			case arch.ClassOffsetBase:
				if hashedReloc {
					operand.EmitBase(d)
				} else {
					operand.Emit(d)
				}
			}
		}

		off += insn.Size()
	}

	return d.Sum64()
}
