package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/rewind/internal/presentation/tui"
	"github.com/aretw0/rewind/pkg/scenario"
	"github.com/aretw0/rewind/pkg/store"
)

// Replay runs a scenario file against a fresh counter store and prints a
// step-by-step report followed by the final history.
func Replay(ctx context.Context, cfg Config, path string, out io.Writer) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	opts := []store.Option{store.WithEnhancerOptions(sc.EnhancerOptions()...)}
	s := NewCounterStore(cfg, logger, opts...)

	report, runErr := scenario.Run(ctx, s, sc)

	printSystemMessage(out, "Scenario '%s' (%d steps)", sc.Name, len(sc.Steps))
	for _, res := range report.Steps {
		status := "ok"
		if res.Err != nil {
			status = "rejected: " + reason(res.Err)
		}
		fmt.Fprintf(out, "%3d  %-18s head=%d len=%d  %s\n", res.Index+1, res.Action.Type, res.Head, res.Len, status)
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, tui.HistoryMarkdown(report.Final.History, formatCounter))

	if runErr != nil {
		return fmt.Errorf("scenario %s: %w", sc.Name, runErr)
	}
	printSystemMessage(out, "All expectations met.")
	return nil
}
