package ingest

import (
	"log"

	"coddog/internal/core"
	"coddog/internal/errors"
	"coddog/internal/mapfile"
	"coddog/internal/platform"
	"coddog/internal/reloc"
)

// ReadMap fingerprints the .text symbols of a raw ROM image using a linker
// map for the symbol boundaries. No relocation records exist on this path,
// so equivalence hashes are less discriminating than on the object path.
func ReadMap(p platform.Platform, romBytes []byte, mapContents string, unmatchedFuncs map[string]bool) ([]core.Symbol, error) {
	mapSyms, err := mapfile.Parse(mapContents)
	if err != nil {
		return nil, err
	}
	if len(mapSyms) == 0 {
		return nil, errors.New(errors.KindParse, "mapfile has no .text symbols")
	}

	out := make([]core.Symbol, 0, len(mapSyms))
	for i, ms := range mapSyms {
		end := ms.Vrom + ms.Size
		if end > uint64(len(romBytes)) {
			log.Printf("warning: symbol %s rom range [%#x, %#x) out of image bounds, skipping", ms.Name, ms.Vrom, end)
			continue
		}

		isDecompiled := unmatchedFuncs != nil && !unmatchedFuncs[ms.Name]
		out = append(out, core.NewSymbol(ms.Name, romBytes[ms.Vrom:end], ms.Vram, i, isDecompiled, p, reloc.Map{}))
	}
	return out, nil
}
