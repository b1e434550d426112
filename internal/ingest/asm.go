package ingest

import (
	"bytes"
	"debug/elf"
	"fmt"
	"os"

	"coddog/internal/errors"
	"coddog/internal/platform"
)

// AsmForSymbol renders one textual row per instruction word of the symbol
// at the given symbol-table index in the stored object blob. Rows carry
// the address and the raw word; mnemonic formatting is left to richer
// display layers.
func AsmForSymbol(objectPath string, symbolIdx int, p platform.Platform) ([]string, error) {
	data, err := os.ReadFile(objectPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindNotFound, "reading object %s", objectPath)
	}

	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.KindParse, "parsing object %s", objectPath)
	}
	defer f.Close()

	syms, err := f.Symbols()
	if err != nil {
		return nil, errors.Wrap(err, errors.KindParse, "reading symbol table of %s", objectPath)
	}
	if symbolIdx < 0 || symbolIdx >= len(syms) {
		return nil, errors.New(errors.KindNotFound, "symbol index %d out of range", symbolIdx)
	}

	sym := syms[symbolIdx]
	if sym.Section == elf.SHN_UNDEF || int(sym.Section) >= len(f.Sections) {
		return nil, errors.New(errors.KindNotFound, "symbol %s has no section data", sym.Name)
	}
	section := f.Sections[sym.Section]
	secData, err := section.Data()
	if err != nil {
		return nil, errors.Wrap(err, errors.KindParse, "reading section %s", section.Name)
	}

	start := sym.Value
	if section.Addr != 0 && start >= section.Addr {
		start -= section.Addr
	}
	end := start + sym.Size
	if end > uint64(len(secData)) {
		return nil, errors.New(errors.KindOutOfBounds, "symbol %s data out of section bounds", sym.Name)
	}

	insnLen := p.Arch().InsnLength()
	body := secData[start:end]
	rows := make([]string, 0, len(body)/insnLen)
	for off := 0; off+insnLen <= len(body); off += insnLen {
		addr := sym.Value + uint64(off)
		if insnLen == 2 {
			rows = append(rows, fmt.Sprintf("%08x: %04x", addr, p.ReadHalf(body[off:])))
		} else {
			rows = append(rows, fmt.Sprintf("%08x: %08x", addr, p.ReadWord(body[off:])))
		}
	}
	return rows, nil
}
