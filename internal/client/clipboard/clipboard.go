// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available
// (e.g. a headless Linux box without xclip, xsel or wl-copy).
var ErrUnsupported = errors.New("clipboard not supported on this system")

// Writer accepts text destined for the clipboard.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// System writes through github.com/atotto/clipboard.
type System struct{}

func (System) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}
