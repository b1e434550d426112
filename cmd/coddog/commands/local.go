package commands

import (
	"flag"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"coddog/internal/core"
	"coddog/internal/errors"
)

// MatchCommand scores every symbol of the working-directory project
// against the query function and prints the ones above threshold.
func MatchCommand(args []string) error {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	threshold := fs.Float64("t", 0.985, "similarity threshold")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New(errors.KindBadRequest, "usage: coddog match [-t threshold] <query>")
	}
	query := fs.Arg(0)

	symbols, err := cwdSymbols()
	if err != nil {
		return err
	}
	querySym := findSymbol(symbols, query)
	if querySym == nil {
		return errors.New(errors.KindNotFound, "symbol %q not found", query)
	}

	type match struct {
		sym   *core.Symbol
		score float32
	}
	var matches []match
	for i := range symbols {
		s := &symbols[i]
		if s.Name == querySym.Name {
			continue
		}
		if score := core.Similarity(querySym, s, float32(*threshold)); score > float32(*threshold) {
			matches = append(matches, match{sym: s, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	for _, m := range matches {
		fmt.Printf("%.2f%% - %s\n", m.score*100, fullname(m.sym.Name, m.sym.IsDecompiled))
	}
	return nil
}

// SubmatchCommand finds shared instruction sub-sequences between the query
// function and every other symbol of the working-directory project.
func SubmatchCommand(args []string) error {
	if len(args) != 2 {
		return errors.New(errors.KindBadRequest, "usage: coddog submatch <query> <window-size>")
	}
	query := args[0]
	windowSize, err := strconv.Atoi(args[1])
	if err != nil || windowSize <= 0 {
		return errors.New(errors.KindBadRequest, "window size must be a positive integer")
	}

	symbols, err := cwdSymbols()
	if err != nil {
		return err
	}
	querySym := findSymbol(symbols, query)
	if querySym == nil {
		return errors.New(errors.KindNotFound, "symbol %q not found", query)
	}

	queryHashes := core.WindowHashes(querySym.Opcodes, windowSize)

	for i := range symbols {
		s := &symbols[i]
		if s.Name == querySym.Name {
			continue
		}

		if opcodesEqual(querySym.Opcodes, s.Opcodes) {
			pct := "99%"
			if bytesEqual(querySym.Bytes, s.Bytes) {
				pct = "100%"
			}
			fmt.Printf("%s matches %s\n", fullname(s.Name, s.IsDecompiled), pct)
			continue
		}

		runs := core.Submatches(queryHashes, core.WindowHashes(s.Opcodes, windowSize))
		if len(runs) == 0 {
			continue
		}

		fmt.Printf("%s:\n", fullname(s.Name, s.IsDecompiled))
		for _, m := range runs {
			insns := m.Length + windowSize - 1
			fmt.Printf("\tquery [%d-%d] matches %s [insn %d-%d] (%d total)\n",
				m.Offset1, m.Offset1+insns, s.Name, m.Offset2, m.Offset2+insns, insns)
		}
	}
	return nil
}

// ClusterCommand groups the working-directory project's symbols by
// similarity and prints the clusters with more than one member.
func ClusterCommand(args []string) error {
	fs := flag.NewFlagSet("cluster", flag.ContinueOnError)
	threshold := fs.Float64("t", 0.985, "similarity threshold")
	minLen := fs.Int("m", 5, "minimum function length in instructions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	symbols, err := cwdSymbols()
	if err != nil {
		return err
	}

	for _, cluster := range core.GetClusters(symbols, float32(*threshold), *minLen) {
		if cluster.Size() > 1 {
			fmt.Printf("Cluster %s has %d symbols\n", cluster.Syms[0].Name, cluster.Size())
		}
	}
	return nil
}

// Compare2Command compares the symbols of two builds, grouping the matched
// pairs by their decompiled status.
func Compare2Command(args []string) error {
	fs := flag.NewFlagSet("compare2", flag.ContinueOnError)
	threshold := fs.Float64("t", 0.985, "similarity threshold")
	minLen := fs.Int("m", 5, "minimum function length in instructions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 4 {
		return errors.New(errors.KindBadRequest, "usage: coddog compare2 <yaml1> <version1> <yaml2> <version2>")
	}

	bin1, err := loadBinary(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}
	bin2, err := loadBinary(fs.Arg(2), fs.Arg(3))
	if err != nil {
		return err
	}

	compareBinaries(bin1, bin2, float32(*threshold), *minLen)
	return nil
}

// CompareNCommand compares one build against every version of the other
// given projects.
func CompareNCommand(args []string) error {
	if len(args) < 3 {
		return errors.New(errors.KindBadRequest, "usage: coddog compare-n <yaml> <version> <other-yamls...>")
	}

	mainBin, err := loadBinary(args[0], args[1])
	if err != nil {
		return err
	}

	for _, otherPath := range args[2:] {
		d, err := loadDescriptor(otherPath)
		if err != nil {
			return err
		}
		for i, v := range d.Versions {
			syms, _, err := collectSymbols(d, i, filepath.Dir(otherPath))
			if err != nil {
				return err
			}
			other := &core.Binary{Name: d.Name + " " + v.Name, Symbols: syms}
			fmt.Printf("Comparing %s to %s:\n",
				colored(binaryColors[0], mainBin.Name), colored(binaryColors[1], other.Name))
			compareBinaries(mainBin, other, 0.99, 5)
			fmt.Println()
		}
	}
	return nil
}

func loadBinary(yamlPath, version string) (*core.Binary, error) {
	d, err := loadDescriptor(yamlPath)
	if err != nil {
		return nil, err
	}
	for i, v := range d.Versions {
		if v.Name == version {
			syms, _, err := collectSymbols(d, i, filepath.Dir(yamlPath))
			if err != nil {
				return nil, err
			}
			return &core.Binary{Name: d.Name + " " + v.Name, Symbols: syms}, nil
		}
	}
	return nil, errors.New(errors.KindNotFound, "version %q not found in %s", version, yamlPath)
}

func compareBinaries(bin1, bin2 *core.Binary, threshold float32, minLen int) {
	matches := core.CompareBinaries(bin1, bin2, threshold, minLen)
	if len(matches) == 0 {
		fmt.Println("No matches found")
		return
	}

	var both, only1, only2, neither []core.Match
	for _, m := range matches {
		switch {
		case m.A.IsDecompiled && m.B.IsDecompiled:
			both = append(both, m)
		case m.A.IsDecompiled:
			only1 = append(only1, m)
		case m.B.IsDecompiled:
			only2 = append(only2, m)
		default:
			neither = append(neither, m)
		}
	}

	printGroup := func(header string, group []core.Match) {
		if len(group) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", header)
		for _, m := range group {
			fmt.Printf("%s - %s (%.2f%%)\n",
				colored(binaryColors[0], m.A.Name),
				colored(binaryColors[1], m.B.Name),
				m.Score*100)
		}
	}

	printGroup(fmt.Sprintf("Decompiled in %s and %s",
		colored(binaryColors[0], bin1.Name), colored(binaryColors[1], bin2.Name)), both)
	printGroup(fmt.Sprintf("Only decompiled in %s", colored(binaryColors[0], bin1.Name)), only1)
	printGroup(fmt.Sprintf("Only decompiled in %s", colored(binaryColors[1], bin2.Name)), only2)
	printGroup("Decompiled in neither", neither)
}

func findSymbol(symbols []core.Symbol, name string) *core.Symbol {
	for i := range symbols {
		if symbols[i].Name == name {
			return &symbols[i]
		}
	}
	return nil
}

func opcodesEqual(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
