// Package platform maps target platforms to their architecture and byte
// order. The mapping is total and fixed at build time; unknown names are
// reported as typed errors, never panics.
package platform

import (
	"strings"

	"coddog/internal/errors"
)

// Endianness is the byte order of a platform's instruction words.
type Endianness int

const (
	Little Endianness = iota
	Big
)

// Arch is the instruction set architecture of a platform.
type Arch int

const (
	MIPS Arch = iota
	PPC
	Thumb
)

// InsnLength returns the standard instruction length in bytes. Thumb
// instructions are 2 bytes by default; the decoder reports a 4-byte size
// for the long-branch encodings.
func (a Arch) InsnLength() int {
	switch a {
	case Thumb:
		return 2
	default:
		return 4
	}
}

func (a Arch) String() string {
	switch a {
	case MIPS:
		return "mips"
	case PPC:
		return "ppc"
	case Thumb:
		return "thumb"
	}
	return "unknown"
}

// Platform is one of the supported target platforms.
type Platform int

const (
	N64 Platform = iota
	PSX
	PS2
	PSP
	GC
	Wii
	GBA
)

// names maps accepted platform names, including the decomp.me aliases, to
// their platform.
var names = map[string]Platform{
	"n64":      N64,
	"psx":      PSX,
	"ps1":      PSX,
	"ps2":      PS2,
	"psp":      PSP,
	"gc":       GC,
	"ngc":      GC,
	"gamecube": GC,
	"wii":      Wii,
	"gba":      GBA,
	"agb":      GBA,
}

// Of resolves a platform name. Unrecognized names yield a
// KindUnknownPlatform error.
func Of(name string) (Platform, error) {
	p, ok := names[strings.ToLower(name)]
	if !ok {
		return 0, errors.New(errors.KindUnknownPlatform, "unknown platform %q", name)
	}
	return p, nil
}

// Arch returns the platform's instruction set architecture.
func (p Platform) Arch() Arch {
	switch p {
	case N64, PSX, PS2, PSP:
		return MIPS
	case GC, Wii:
		return PPC
	case GBA:
		return Thumb
	}
	return MIPS
}

// Endianness returns the platform's byte order.
func (p Platform) Endianness() Endianness {
	switch p {
	case N64, GC, Wii:
		return Big
	default:
		return Little
	}
}

func (p Platform) String() string {
	switch p {
	case N64:
		return "n64"
	case PSX:
		return "psx"
	case PS2:
		return "ps2"
	case PSP:
		return "psp"
	case GC:
		return "gc"
	case Wii:
		return "wii"
	case GBA:
		return "gba"
	}
	return "unknown"
}

// ReadWord reads a 32-bit instruction word in the platform's byte order.
func (p Platform) ReadWord(b []byte) uint32 {
	if p.Endianness() == Big {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

// ReadHalf reads a 16-bit instruction word in the platform's byte order.
func (p Platform) ReadHalf(b []byte) uint16 {
	if p.Endianness() == Big {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[1])<<8 | uint16(b[0])
}
