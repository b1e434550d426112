// Package ingest turns object files and (ROM image, mapfile) pairs into
// fingerprinted symbols ready for persistence.
package ingest

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"log"

	"coddog/internal/core"
	"coddog/internal/errors"
	"coddog/internal/platform"
	"coddog/internal/reloc"
)

// ReadELF extracts and fingerprints the function symbols of a relocatable
// or linked object. unmatchedFuncs, when non-nil, names the functions that
// are still assembly; symbols absent from it are marked decompiled.
func ReadELF(p platform.Platform, elfData []byte, unmatchedFuncs map[string]bool) ([]core.Symbol, error) {
	f, err := elf.NewFile(bytes.NewReader(elfData))
	if err != nil {
		return nil, errors.Wrap(err, errors.KindParse, "parsing object file")
	}
	defer f.Close()

	syms, err := f.Symbols()
	if err != nil {
		return nil, errors.Wrap(err, errors.KindParse, "reading symbol table")
	}

	sectionData := make(map[int][]byte)
	sectionRelocs := make(map[int]reloc.Map)

	var out []core.Symbol
	for i, sym := range syms {
		if elf.ST_TYPE(sym.Info) != elf.STT_FUNC {
			continue
		}
		if sym.Section == elf.SHN_UNDEF || sym.Section >= elf.SHN_LORESERVE {
			continue
		}
		if elf.ST_VISIBILITY(sym.Other) == elf.STV_HIDDEN {
			continue
		}
		if sym.Size == 0 || sym.Name == "" {
			continue
		}

		secIdx := int(sym.Section)
		if secIdx >= len(f.Sections) {
			continue
		}
		section := f.Sections[secIdx]

		data, ok := sectionData[secIdx]
		if !ok {
			data, err = section.Data()
			if err != nil {
				log.Printf("warning: cannot read section %s: %v", section.Name, err)
				sectionData[secIdx] = nil
				continue
			}
			sectionData[secIdx] = data
		}
		if data == nil {
			continue
		}

		relocs, ok := sectionRelocs[secIdx]
		if !ok {
			relocs, err = sectionRelocations(f, syms, secIdx, data, p)
			if err != nil {
				return nil, err
			}
			sectionRelocs[secIdx] = relocs
		}

		start := sym.Value
		if section.Addr != 0 && start >= section.Addr {
			start -= section.Addr
		}
		end := start + sym.Size
		if end > uint64(len(data)) {
			log.Printf("warning: symbol %s data [%#x, %#x) out of section bounds, skipping", sym.Name, start, end)
			continue
		}

		isDecompiled := unmatchedFuncs != nil && !unmatchedFuncs[sym.Name]

		// Relocation offsets are section-relative; symbols hash by vram,
		// so shift the map into the symbol's address space.
		symRelocs := make(reloc.Map)
		vramBase := sym.Value - start
		for off, c := range relocs {
			symRelocs[off+vramBase] = c
		}

		out = append(out, core.NewSymbol(sym.Name, data[start:end], sym.Value, i, isDecompiled, p, symRelocs))
	}
	return out, nil
}

// sectionRelocations locates the REL/RELA section targeting secIdx and
// canonicalizes its records.
func sectionRelocations(f *elf.File, syms []elf.Symbol, secIdx int, data []byte, p platform.Platform) (reloc.Map, error) {
	for _, rs := range f.Sections {
		if rs.Type != elf.SHT_REL && rs.Type != elf.SHT_RELA {
			continue
		}
		if int(rs.Info) != secIdx {
			continue
		}

		raw, err := rs.Data()
		if err != nil {
			return nil, errors.Wrap(err, errors.KindParse, "reading relocation section %s", rs.Name)
		}
		records, err := parseRelocRecords(raw, rs.Type == elf.SHT_RELA, f.ByteOrder, syms)
		if err != nil {
			return nil, err
		}
		return reloc.Canonicalize(records, data, p)
	}
	return reloc.Map{}, nil
}

// parseRelocRecords decodes 32-bit ELF Rel/Rela entries. The relocation's
// symbol index is 1-based relative to debug/elf's symbol slice, which
// drops the null entry.
func parseRelocRecords(raw []byte, rela bool, order binary.ByteOrder, syms []elf.Symbol) ([]reloc.Record, error) {
	entSize := 8
	if rela {
		entSize = 12
	}
	if len(raw)%entSize != 0 {
		return nil, errors.New(errors.KindParse, "relocation section size %d not a multiple of %d", len(raw), entSize)
	}

	records := make([]reloc.Record, 0, len(raw)/entSize)
	for off := 0; off < len(raw); off += entSize {
		r := reloc.Record{
			Offset: uint64(order.Uint32(raw[off:])),
		}
		info := order.Uint32(raw[off+4:])
		r.Kind = info & 0xFF
		if rela {
			r.Addend = int64(int32(order.Uint32(raw[off+8:])))
			r.HasAddend = true
		}

		symIdx := int(info >> 8)
		if symIdx > 0 && symIdx <= len(syms) {
			r.Symbol = syms[symIdx-1].Name
		}
		records = append(records, r)
	}
	return records, nil
}
