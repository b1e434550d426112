// Package mapfile parses GNU ld-style linker maps into the .text symbol
// table needed to slice functions out of a raw ROM image.
package mapfile

import (
	"bufio"
	"strconv"
	"strings"

	"coddog/internal/errors"
)

// Symbol is one .text symbol from the map: its virtual address, its ROM
// offset, and its size in bytes.
type Symbol struct {
	Name string
	Vram uint64
	Vrom uint64
	Size uint64
}

type segment struct {
	vram uint64
	rom  uint64
}

type fileEntry struct {
	section string
	vram    uint64
	size    uint64
	seg     segment
	syms    []Symbol
}

// Parse extracts the .text symbols from map contents. Segment lines carry
// the ROM load address; per-file section lines scope the symbol lines that
// follow; symbol sizes are derived from the next symbol's address (the
// last symbol runs to the end of its file's section).
func Parse(contents string) ([]Symbol, error) {
	var (
		files   []*fileEntry
		curSeg  segment
		curFile *fileEntry
		seen    bool
	)

	sc := bufio.NewScanner(strings.NewReader(contents))
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()

		if seg, ok := parseSegmentLine(line); ok {
			curSeg = seg
			curFile = nil
			seen = true
			continue
		}
		if fe, ok := parseFileLine(line); ok {
			fe.seg = curSeg
			files = append(files, fe)
			curFile = fe
			seen = true
			continue
		}
		if curFile == nil {
			continue
		}
		if name, vram, ok := parseSymbolLine(line); ok {
			curFile.syms = append(curFile.syms, Symbol{Name: name, Vram: vram})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.KindParse, "reading mapfile")
	}
	if !seen {
		return nil, errors.New(errors.KindParse, "no recognizable entries in mapfile")
	}

	var out []Symbol
	for _, fe := range files {
		if fe.section != ".text" {
			continue
		}
		for i := range fe.syms {
			s := fe.syms[i]
			if i+1 < len(fe.syms) {
				s.Size = fe.syms[i+1].Vram - s.Vram
			} else {
				s.Size = fe.vram + fe.size - s.Vram
			}
			s.Vrom = fe.seg.rom + (s.Vram - fe.seg.vram)
			if s.Size == 0 {
				continue
			}
			out = append(out, s)
		}
	}
	return out, nil
}

// parseSegmentLine matches "<name> 0x<vram> 0x<size> load address 0x<rom>".
func parseSegmentLine(line string) (segment, bool) {
	if strings.HasPrefix(line, " ") {
		return segment{}, false
	}
	idx := strings.Index(line, "load address")
	if idx < 0 {
		return segment{}, false
	}
	fields := strings.Fields(line[:idx])
	if len(fields) != 3 {
		return segment{}, false
	}
	vram, ok1 := parseHex(fields[1])
	rom, ok2 := parseHex(strings.TrimSpace(line[idx+len("load address"):]))
	if !ok1 || !ok2 {
		return segment{}, false
	}
	return segment{vram: vram, rom: rom}, true
}

// parseFileLine matches " .text 0x<vram> 0x<size> path/to/file.o".
func parseFileLine(line string) (*fileEntry, bool) {
	if !strings.HasPrefix(line, " ") {
		return nil, false
	}
	fields := strings.Fields(line)
	if len(fields) != 4 || !strings.HasPrefix(fields[0], ".") {
		return nil, false
	}
	vram, ok1 := parseHex(fields[1])
	size, ok2 := parseHex(fields[2])
	if !ok1 || !ok2 {
		return nil, false
	}
	return &fileEntry{section: fields[0], vram: vram, size: size}, true
}

// parseSymbolLine matches " 0x<vram> symbol_name".
func parseSymbolLine(line string) (string, uint64, bool) {
	if !strings.HasPrefix(line, " ") {
		return "", 0, false
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, false
	}
	vram, ok := parseHex(fields[0])
	if !ok {
		return "", 0, false
	}
	name := fields[1]
	if strings.ContainsAny(name, "=.*()") {
		return "", 0, false
	}
	return name, vram, true
}

func parseHex(s string) (uint64, bool) {
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
