package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/oibkeeper/internal/client/services"
	"github.com/dmitrijs2005/oibkeeper/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// placeholder shown when there is no current identifier.
const placeholder = "-"

var (
	// ErrUnknownCommand is returned for input that names no command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a command is missing a required argument.
	ErrUsage = errors.New("usage")
)

// isTerminal is a test seam for terminal detection.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// App is the interactive front end over an OIBService.
type App struct {
	svc         services.OIBService
	reader      *bufio.Reader
	out         io.Writer
	log         logging.Logger
	interactive bool
	current     string
}

// NewApp returns an App reading commands and confirmations from in and
// writing everything user-facing to out.
func NewApp(svc services.OIBService, in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		svc:         svc,
		reader:      bufio.NewReader(in),
		out:         out,
		log:         log,
		interactive: isTerminal(in),
		current:     placeholder,
	}
}

// SessionLogger tags every record of one CLI run with a random session id.
func SessionLogger(l logging.Logger) (logging.Logger, string) {
	id := uuid.NewString()
	return l.With("session", id), id
}

// Run shows the current identifier, generating one for an empty history,
// and then serves commands until exit or end of input.
func (a *App) Run(ctx context.Context) {
	a.current = a.svc.Init(ctx).Value
	a.log.Info(ctx, "repl started", "current", a.current)

	a.printf("oibkeeper (type 'help' for commands)\n")
	a.printf("Current: %s\n", a.current)

	runREPL(ctx, a, a.prompt, a.reader, a.out)
	a.log.Info(ctx, "repl finished")
}

// Exec runs a single command given as words, e.g. {"pin", "12345678903"}.
func (a *App) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	if e, ok := a.svc.Latest(ctx); ok {
		a.current = e.Value
	}
	_, err := dispatch(ctx, a, args[0], args[1:])
	return err
}

func (a *App) prompt() string {
	if !a.interactive {
		return ""
	}
	return fmt.Sprintf("oib [%s]> ", a.current)
}

func (a *App) refreshCurrent(ctx context.Context) {
	a.current = placeholder
	if e, ok := a.svc.Latest(ctx); ok {
		a.current = e.Value
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
