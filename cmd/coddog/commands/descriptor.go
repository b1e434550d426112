// Package commands implements the coddog CLI commands.
package commands

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"coddog/internal/core"
	"coddog/internal/errors"
	"coddog/internal/ingest"
	"coddog/internal/platform"
)

// Descriptor is a coddog.yaml project descriptor. Each version names
// either an object file or a (image, map) pair; asm_dir, when present,
// locates the still-assembly functions used for decompiled marking.
type Descriptor struct {
	Name     string   `yaml:"name"`
	Repo     string   `yaml:"repo"`
	Platform string   `yaml:"platform"`
	Versions []struct {
		Name   string `yaml:"name"`
		Object string `yaml:"object"`
		Image  string `yaml:"image"`
		Map    string `yaml:"map"`
		AsmDir string `yaml:"asm_dir"`
	} `yaml:"versions"`
}

// loadDescriptor reads and validates a descriptor file.
func loadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindNotFound, "reading %s", path)
	}
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, errors.KindParse, "parsing %s", path)
	}
	if d.Name == "" || d.Platform == "" || len(d.Versions) == 0 {
		return nil, errors.New(errors.KindParse, "%s needs name, platform and at least one version", path)
	}
	return &d, nil
}

// findDescriptor locates coddog.yaml in the working directory.
func findDescriptor() (*Descriptor, string, error) {
	for _, name := range []string{"coddog.yaml", "coddog.yml"} {
		if _, err := os.Stat(name); err == nil {
			d, err := loadDescriptor(name)
			if err != nil {
				return nil, "", err
			}
			base, _ := os.Getwd()
			return d, base, nil
		}
	}
	return nil, "", errors.New(errors.KindNotFound, "no coddog.yaml in the current directory")
}

// unmatchedFuncs collects function names that still live as .s files under
// asmDir; everything else in the build counts as decompiled.
func unmatchedFuncs(asmDir string) (map[string]bool, error) {
	if asmDir == "" {
		return nil, nil
	}
	funcs := make(map[string]bool)
	err := filepath.WalkDir(asmDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".s") {
			name := strings.TrimSuffix(filepath.Base(path), ".s")
			funcs[name] = true
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.KindNotFound, "scanning asm dir %s", asmDir)
	}
	return funcs, nil
}

// collectSymbols ingests one descriptor version rooted at baseDir.
func collectSymbols(d *Descriptor, versionIdx int, baseDir string) ([]core.Symbol, []byte, error) {
	p, err := platform.Of(d.Platform)
	if err != nil {
		return nil, nil, err
	}
	v := d.Versions[versionIdx]

	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(baseDir, path)
	}

	funcs, err := unmatchedFuncs(resolve(v.AsmDir))
	if err != nil {
		return nil, nil, err
	}

	if v.Object != "" {
		data, err := os.ReadFile(resolve(v.Object))
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.KindNotFound, "reading object %s", v.Object)
		}
		syms, err := ingest.ReadELF(p, data, funcs)
		return syms, data, err
	}

	if v.Image != "" && v.Map != "" {
		image, err := os.ReadFile(resolve(v.Image))
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.KindNotFound, "reading image %s", v.Image)
		}
		mapText, err := os.ReadFile(resolve(v.Map))
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.KindNotFound, "reading map %s", v.Map)
		}
		syms, err := ingest.ReadMap(p, image, string(mapText), funcs)
		return syms, image, err
	}

	return nil, nil, errors.New(errors.KindParse, "version %s needs either an object or an image+map pair", v.Name)
}

// cwdSymbols loads the first version of the working directory's project.
func cwdSymbols() ([]core.Symbol, error) {
	d, base, err := findDescriptor()
	if err != nil {
		return nil, err
	}
	syms, _, err := collectSymbols(d, 0, base)
	return syms, err
}
