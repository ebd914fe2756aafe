package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/oibkeeper/internal/common"
)

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Help(ctx context.Context) error
	Generate(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Pin(ctx context.Context, value string) error
	Unpin(ctx context.Context, value string) error
	Copy(ctx context.Context, value string) error
	Verify(ctx context.Context, value string) error
	Clear(ctx context.Context, confirmed bool) error
	ClearAll(ctx context.Context, confirmed bool) error
}

// runREPL reads one line at a time from r, takes the first word as the
// command and dispatches it to a. The loop ends on end of input, on
// "exit"/"quit", or as soon as ctx is done, even while waiting for input.
// A line read after cancellation is not dispatched. Handler errors are
// reported to out and the loop goes on.
func runREPL(ctx context.Context, a execIface, promptFn func() string, r *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		if p := promptFn(); p != "" {
			fmt.Fprint(out, p)
		}

		line, readErr := readLine(ctx, r)
		if ctx.Err() != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) > 0 {
			quit, err := dispatch(ctx, a, parts[0], parts[1:])
			if err != nil {
				report(out, err)
			}
			if quit {
				fmt.Fprintln(out, "Bye!")
				return
			}
		}
		if readErr != nil {
			return
		}
	}
}

type readResult struct {
	line string
	err  error
}

// readLine waits for one line from r or for ctx to end, whichever comes
// first. On cancellation the pending read is abandoned; nothing else may
// read from r afterwards.
func readLine(ctx context.Context, r *bufio.Reader) (string, error) {
	ch := make(chan readResult, 1)
	go func() {
		line, err := r.ReadString('\n')
		ch <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.line, res.err
	}
}

// dispatch runs cmd with its arguments. quit is true for exit commands.
func dispatch(ctx context.Context, a execIface, cmd string, args []string) (quit bool, err error) {
	arg := func() string {
		if len(args) == 0 {
			return ""
		}
		return args[0]
	}
	required := func(usage string) (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("%w: %s", ErrUsage, usage)
		}
		return args[0], nil
	}

	switch strings.ToLower(cmd) {
	case "help", "h", "?":
		return false, a.Help(ctx)

	case "generate", "g":
		return false, a.Generate(ctx)

	case "list", "l":
		return false, a.List(ctx)

	case "search", "s":
		return false, a.Search(ctx, strings.Join(args, " "))

	case "pin":
		v, err := required("pin <value>")
		if err != nil {
			return false, err
		}
		return false, a.Pin(ctx, v)

	case "unpin":
		v, err := required("unpin <value>")
		if err != nil {
			return false, err
		}
		return false, a.Unpin(ctx, v)

	case "copy", "c":
		return false, a.Copy(ctx, arg())

	case "verify", "v":
		v, err := required("verify <value>")
		if err != nil {
			return false, err
		}
		return false, a.Verify(ctx, v)

	case "clear":
		return false, a.Clear(ctx, isYes(arg()))

	case "clearall":
		return false, a.ClearAll(ctx, isYes(arg()))

	case "exit", "quit", "q":
		return true, nil

	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func report(out io.Writer, err error) {
	switch {
	case errors.Is(err, common.ErrorCancelled):
		fmt.Fprintln(out, "Cancelled")
	case errors.Is(err, ErrUnknownCommand):
		fmt.Fprintf(out, "%v (type 'help' for commands)\n", err)
	default:
		fmt.Fprintf(out, "error: %v\n", err)
	}
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
