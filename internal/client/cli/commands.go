package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/oibkeeper/internal/client/history"
	"github.com/dmitrijs2005/oibkeeper/internal/client/models"
	"github.com/dmitrijs2005/oibkeeper/internal/common"
)

const helpText = `Available commands:
  generate | g          generate a new identifier
  list | l              show pinned entries and history
  search | s <term>     show entries containing term
  pin <value>           pin an entry
  unpin <value>         unpin an entry
  copy | c [value]      copy value (current identifier when omitted)
  verify <value>        check the control digit
  clear [yes]           remove unpinned entries
  clearall [yes]        remove all entries, pinned too
  exit | quit           leave`

func (a *App) Help(ctx context.Context) error {
	a.printf("%s\n", helpText)
	return nil
}

func (a *App) Generate(ctx context.Context) error {
	e := a.svc.Generate(ctx)
	a.current = e.Value
	a.printf("Generated %s\n", e.Value)
	return nil
}

func (a *App) List(ctx context.Context) error {
	a.render(a.svc.List(ctx))
	return nil
}

func (a *App) Search(ctx context.Context, term string) error {
	a.render(a.svc.Search(ctx, term))
	return nil
}

func (a *App) Pin(ctx context.Context, value string) error {
	return a.setPinned(ctx, value, true)
}

func (a *App) Unpin(ctx context.Context, value string) error {
	return a.setPinned(ctx, value, false)
}

func (a *App) setPinned(ctx context.Context, value string, pinned bool) error {
	op := a.svc.Unpin
	verb := "Unpinned"
	if pinned {
		op = a.svc.Pin
		verb = "Pinned"
	}
	if err := op(ctx, value); err != nil {
		return fmt.Errorf("%s: %w", value, err)
	}
	a.printf("%s %s\n", verb, value)
	return nil
}

// Copy copies value, or the current identifier when value is empty.
func (a *App) Copy(ctx context.Context, value string) error {
	if value == "" {
		value = a.current
	}
	if value == "" || value == placeholder {
		a.printf("Nothing to copy\n")
		return nil
	}
	if err := a.svc.Copy(ctx, value); err != nil {
		return err
	}
	a.printf("Copied %s\n", value)
	return nil
}

func (a *App) Verify(ctx context.Context, value string) error {
	if !a.svc.Verify(value) {
		return fmt.Errorf("%s: %w", value, common.ErrorInvalidValue)
	}
	a.printf("%s: valid\n", value)
	return nil
}

// Clear removes unpinned entries after confirmation.
func (a *App) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed && !a.confirm("Clear history (pinned entries will remain)?") {
		return common.ErrorCancelled
	}
	a.svc.ClearUnpinned(ctx)
	a.refreshCurrent(ctx)
	a.printf("History cleared, pinned entries kept\n")
	return nil
}

// ClearAll removes every entry after confirmation.
func (a *App) ClearAll(ctx context.Context, confirmed bool) error {
	if !confirmed && !a.confirm("Clear entire history including pinned entries?") {
		return common.ErrorCancelled
	}
	a.svc.ClearAll(ctx)
	a.refreshCurrent(ctx)
	a.printf("History cleared\n")
	return nil
}

func (a *App) confirm(question string) bool {
	answer, err := GetSimpleText(a.reader, question+" [y/N]", a.out)
	if err != nil {
		return false
	}
	return isYes(answer)
}

// render prints the pinned section (only when non-empty) followed by the
// rest of the history.
func (a *App) render(entries []models.Entry) {
	pinned, rest := history.Split(entries)

	a.printf("Current: %s\n", a.current)
	if len(pinned) > 0 {
		a.printf("Pinned:\n")
		for _, e := range pinned {
			a.printf("%s\n", e)
		}
	}
	a.printf("History:\n")
	if len(rest) == 0 {
		a.printf("  (empty)\n")
	}
	for _, e := range rest {
		a.printf("%s\n", e)
	}
}
