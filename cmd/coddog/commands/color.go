package commands

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI colors used for binary names and decompiled markers; disabled when
// stdout is not a terminal.
var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

const (
	ansiGreen   = "\033[92m"
	ansiYellow  = "\033[93m"
	ansiBlue    = "\033[94m"
	ansiMagenta = "\033[95m"
	ansiReset   = "\033[0m"
)

var binaryColors = []string{ansiGreen, ansiYellow, ansiBlue, ansiMagenta}

func colored(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + ansiReset
}

// fullname renders a symbol name with its decompiled marker.
func fullname(name string, isDecompiled bool) string {
	if isDecompiled {
		return fmt.Sprintf("%s%s", name, colored(ansiGreen, " (decompiled)"))
	}
	return name
}
