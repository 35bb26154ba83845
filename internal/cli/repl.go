package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/aretw0/rewind/internal/demo"
	"github.com/aretw0/rewind/internal/presentation/graph"
	"github.com/aretw0/rewind/internal/presentation/tui"
	"github.com/aretw0/rewind/internal/sanitize"
	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/store"
)

const replHelp = `Commands:
  inc | dec          change the counter by one
  add <n> | set <n>  add n to the counter, or set it
  commit <message>   snapshot the current value
  undo | redo        walk the history
  goto <index>       jump to a history entry (0 is the newest)
  log                show the history
  graph              print the history as a Mermaid flowchart
  state              show the current value
  help               show this help
  exit               leave`

// REPL drives a counter store from line commands.
type REPL struct {
	Store  *store.Store[demo.Counter]
	In     io.Reader
	Out    io.Writer
	Logger *slog.Logger
	// Render turns markdown into terminal output. Nil prints markdown as is.
	Render func(string) (string, error)
	// Highlight styles the status line printed after each action. Nil prints it plain.
	Highlight func(string) string
	// Prompt prints "> " before reading each line.
	Prompt bool
}

// Run reads commands until exit, EOF or cancellation of ctx.
// Interruptions are reported as a nil error.
func (r *REPL) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(NewInterruptibleReader(r.In, ctx.Done()))
	for {
		if r.Prompt {
			fmt.Fprint(r.Out, "> ")
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return handleExecutionError(err)
			}
			return nil
		}
		quit, err := r.Exec(ctx, scanner.Text())
		if err != nil {
			printSystemMessage(r.Out, "error: %s", err)
		}
		if quit {
			return nil
		}
	}
}

// Exec runs one command line. quit reports whether the user asked to leave.
func (r *REPL) Exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var action domain.Action
	switch cmd {
	case "exit", "quit":
		printSystemMessage(r.Out, "Bye!")
		return true, nil
	case "help", "?":
		fmt.Fprintln(r.Out, replHelp)
		return false, nil
	case "state":
		fmt.Fprintln(r.Out, describe(r.Store.State()))
		return false, nil
	case "log", "history":
		return false, r.printLog()
	case "graph":
		fmt.Fprint(r.Out, graph.GenerateMermaid(r.Store.State().History, formatCounter))
		return false, nil
	case "inc":
		action = demo.Inc()
	case "dec":
		action = demo.Dec()
	case "add", "set":
		n, err := intArg(cmd, args)
		if err != nil {
			return false, err
		}
		if cmd == "add" {
			action = demo.Add(n)
		} else {
			action = demo.Set(n)
		}
	case "commit":
		msg, err := sanitize.Message(strings.Join(args, " "))
		if err != nil {
			return false, fmt.Errorf("commit: %w", err)
		}
		action = domain.Commit(msg)
	case "undo":
		action = domain.Undo()
	case "redo":
		action = domain.Redo()
	case "goto":
		n, err := intArg(cmd, args)
		if err != nil {
			return false, err
		}
		action = domain.Goto(n)
	default:
		if guess := suggest(cmd); guess != "" {
			return false, fmt.Errorf("unknown command %q (did you mean %q?)", cmd, guess)
		}
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}

	st, err := r.Store.Dispatch(ctx, action)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Debug("Command rejected", "command", cmd, "err", err)
		}
		return false, fmt.Errorf("%s: %s", cmd, reason(err))
	}
	line = describe(st)
	if r.Highlight != nil {
		line = r.Highlight(line)
	}
	fmt.Fprintln(r.Out, line)
	return false, nil
}

func (r *REPL) printLog() error {
	md := tui.HistoryMarkdown(r.Store.State().History, formatCounter)
	if r.Render != nil {
		out, err := r.Render(md)
		if err != nil {
			return fmt.Errorf("render history: %w", err)
		}
		md = out
	}
	fmt.Fprint(r.Out, md)
	return nil
}

var replCommands = []string{
	"inc", "dec", "add", "set", "commit", "undo", "redo", "goto",
	"log", "graph", "state", "help", "exit",
}

// suggest returns the closest known command within two edits, or "".
func suggest(cmd string) string {
	best, bestDist := "", 3
	for _, c := range replCommands {
		if d := levenshtein.ComputeDistance(cmd, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func formatCounter(c demo.Counter) string {
	return strconv.Itoa(c.Value)
}

func intArg(cmd string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s <n>", cmd)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", cmd, args[0])
	}
	return n, nil
}
