package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the rewind ASCII art banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	lines := []struct {
		text  string
		color string
	}{
		{"  ____                _           _ ", "#818cf8"},
		{" |  _ \\ _____      __(_)_ __   __| |", "#a78bfa"},
		{" | |_) / _ \\ \\ /\\ / /| | '_ \\ / _` |", "#c084fc"},
		{" |  _ <  __/\\ V  V / | | | | | (_| |", "#e879f9"},
		{" |_| \\_\\___| \\_/\\_/  |_|_| |_|\\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
