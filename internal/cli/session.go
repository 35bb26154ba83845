package cli

import (
	"context"
	"io"
	"os"

	"github.com/aretw0/rewind"
	"github.com/aretw0/rewind/internal/presentation/tui"
	"golang.org/x/term"
)

// RunREPL starts an interactive counter session on the given streams.
// Banner, prompt and markdown rendering are only enabled when in and out are
// terminals.
func RunREPL(cfg Config, in io.Reader, out io.Writer) error {
	logger := NewLogger(cfg.Log)
	s := NewCounterStore(cfg, logger)

	interactive := isTerminal(in) && isTerminal(out)
	repl := &REPL{
		Store:  s,
		In:     in,
		Out:    out,
		Logger: logger,
		Prompt: interactive,
	}
	if interactive {
		tui.PrintBanner(out, rewind.Version)
		printSystemMessage(out, "Type 'help' for commands.")
		repl.Render = tui.NewRenderer()
		style := tui.StatusStyle()
		repl.Highlight = func(line string) string { return style.Render(line) }
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	err := repl.Run(sigCtx)
	if sigCtx.Signal() != nil {
		printSystemMessage(out, "Interrupted.")
	}
	return handleExecutionError(err)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
