// Package reloc converts raw relocation records into an address-keyed map
// of stable relocation identities for equivalence hashing.
package reloc

import (
	"coddog/internal/errors"
	"coddog/internal/platform"
)

// ELF relocation types accepted per architecture. Absolute relocations
// never appear inside function bodies and are rejected at ingest.
const (
	MipsReloc16     = 1
	MipsReloc32     = 2
	MipsRelocRel32  = 3
	MipsReloc26     = 4
	MipsRelocHi16   = 5
	MipsRelocLo16   = 6
	MipsRelocGpRel  = 7
	MipsRelocGot16  = 9
	MipsRelocPc16   = 10
	MipsRelocCall16 = 11
	MipsReloc64     = 18

	PpcRelocAddr16Lo = 4
	PpcRelocAddr16Hi = 5
	PpcRelocAddr16Ha = 6
	PpcRelocRel24    = 10
	PpcRelocRel14    = 11
	PpcRelocEmbSda21 = 109

	ThumbRelocCall   = 10
	ThumbRelocJump24 = 30
	ThumbRelocJump11 = 102
)

// Record is one raw relocation record for a section. Addend is meaningful
// only when HasAddend is set (RELA sections); otherwise the addend is
// implicit in the section bytes at Offset.
type Record struct {
	Offset    uint64
	Symbol    string
	Addend    int64
	Kind      uint32
	HasAddend bool
}

// Canonical is the stable identity of a relocation: two records with equal
// Symbol, Addend and Kind collapse to the same value regardless of where
// they appear.
type Canonical struct {
	Symbol string
	Addend int64
	Kind   uint32
}

// Map keys canonical relocations by their address within the section.
type Map map[uint64]Canonical

// Canonicalize builds the address map for one section. data is the
// section's raw bytes, used to extract implicit addends on REL
// architectures. MIPS HI16/LO16 pairs are combined by order of appearance;
// a pending HI16 is cleared by any record of another kind. Thumb records
// also cover Offset+2, since long branches occupy two halfwords.
func Canonicalize(records []Record, data []byte, p platform.Platform) (Map, error) {
	switch p.Arch() {
	case platform.MIPS:
		return canonicalizeMips(records, data, p)
	case platform.PPC:
		return canonicalizePpc(records)
	case platform.Thumb:
		return canonicalizeThumb(records)
	}
	return nil, errors.New(errors.KindUnknownPlatform, "no relocation support for platform %s", p)
}

func canonicalizeMips(records []Record, data []byte, p platform.Platform) (Map, error) {
	m := make(Map, len(records))

	word := func(r Record) (uint32, error) {
		if r.Offset+4 > uint64(len(data)) {
			return 0, errors.New(errors.KindOutOfBounds, "relocation at %#x beyond section end %#x", r.Offset, len(data))
		}
		return p.ReadWord(data[r.Offset:]), nil
	}

	// pendingHi tracks the last unconsumed HI16: its record plus the raw
	// high half of the addend.
	var pendingHi *Record
	var pendingHiVal int64

	for i := range records {
		r := records[i]
		switch r.Kind {
		case MipsRelocHi16:
			if r.HasAddend {
				m[r.Offset] = Canonical{Symbol: r.Symbol, Addend: r.Addend, Kind: r.Kind}
				continue
			}
			w, err := word(r)
			if err != nil {
				return nil, err
			}
			pendingHi = &records[i]
			pendingHiVal = int64(w & 0xFFFF)
		case MipsRelocLo16:
			if r.HasAddend {
				m[r.Offset] = Canonical{Symbol: r.Symbol, Addend: r.Addend, Kind: r.Kind}
				continue
			}
			w, err := word(r)
			if err != nil {
				return nil, err
			}
			lo := int64(int16(w))
			full := lo
			if pendingHi != nil {
				full = pendingHiVal<<16 + lo
				m[pendingHi.Offset] = Canonical{Symbol: pendingHi.Symbol, Addend: full, Kind: pendingHi.Kind}
				pendingHi = nil
			}
			m[r.Offset] = Canonical{Symbol: r.Symbol, Addend: full, Kind: r.Kind}
		case MipsReloc26:
			pendingHi = nil
			addend := r.Addend
			if !r.HasAddend {
				w, err := word(r)
				if err != nil {
					return nil, err
				}
				addend = int64(w&0x03FFFFFF) << 2
			}
			m[r.Offset] = Canonical{Symbol: r.Symbol, Addend: addend, Kind: r.Kind}
		case MipsRelocGpRel, MipsRelocGot16, MipsRelocPc16, MipsRelocCall16, MipsReloc16:
			pendingHi = nil
			addend := r.Addend
			if !r.HasAddend {
				w, err := word(r)
				if err != nil {
					return nil, err
				}
				addend = int64(int16(w))
			}
			m[r.Offset] = Canonical{Symbol: r.Symbol, Addend: addend, Kind: r.Kind}
		case MipsReloc32, MipsRelocRel32, MipsReloc64:
			return nil, errors.New(errors.KindParse, "absolute relocation kind %d at %#x in text section", r.Kind, r.Offset)
		default:
			return nil, errors.New(errors.KindParse, "unsupported MIPS relocation kind %d at %#x", r.Kind, r.Offset)
		}
	}
	return m, nil
}

func canonicalizePpc(records []Record) (Map, error) {
	m := make(Map, len(records))
	for _, r := range records {
		switch r.Kind {
		case PpcRelocAddr16Ha, PpcRelocAddr16Hi, PpcRelocAddr16Lo, PpcRelocRel24, PpcRelocRel14, PpcRelocEmbSda21:
			m[r.Offset] = Canonical{Symbol: r.Symbol, Addend: r.Addend, Kind: r.Kind}
		default:
			return nil, errors.New(errors.KindParse, "unsupported PPC relocation kind %d at %#x", r.Kind, r.Offset)
		}
	}
	return m, nil
}

func canonicalizeThumb(records []Record) (Map, error) {
	m := make(Map, len(records))
	for _, r := range records {
		switch r.Kind {
		case ThumbRelocCall, ThumbRelocJump24, ThumbRelocJump11:
			c := Canonical{Symbol: r.Symbol, Addend: r.Addend, Kind: r.Kind}
			m[r.Offset] = c
			m[r.Offset+2] = c
		default:
			return nil, errors.New(errors.KindParse, "unsupported Thumb relocation kind %d at %#x", r.Kind, r.Offset)
		}
	}
	return m, nil
}
