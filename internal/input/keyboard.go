// Package input maps key presses onto transport actions.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"
)

const ctrlC = 0x03

// Controls is the part of the engine a viewer can drive
type Controls interface {
	TogglePlay(ctx context.Context) bool
	ToggleFullscreen(ctx context.Context)
}

// Keyboard reads single key presses: space or p toggles play, f toggles
// fullscreen, q or Ctrl-C quits.
type Keyboard struct {
	logger   *zap.Logger
	in       io.Reader
	controls Controls
	quit     func()
}

// NewKeyboard creates a key reader. quit is called once when the viewer asks to leave.
func NewKeyboard(logger *zap.Logger, in io.Reader, controls Controls, quit func()) *Keyboard {
	return &Keyboard{
		logger:   logger,
		in:       in,
		controls: controls,
		quit:     quit,
	}
}

// IsTerminal reports whether r is an interactive terminal
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run reads keys until EOF, quit or ctx cancellation. A terminal input is put
// in raw mode for the duration so keys arrive without Enter.
func (k *Keyboard) Run(ctx context.Context) error {
	if f, ok := k.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer func() {
			if err := term.Restore(int(f.Fd()), state); err != nil {
				k.logger.Warn("Failed to restore terminal", zap.Error(err))
			}
		}()
	}

	k.logger.Info("Keyboard controls ready", zap.String("keys", "space/p play, f fullscreen, q quit"))

	r := bufio.NewReader(k.in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		if !k.Handle(ctx, b) {
			return nil
		}
	}
}

// Handle applies one key press. It returns false once the viewer has quit.
func (k *Keyboard) Handle(ctx context.Context, key byte) bool {
	switch key {
	case ' ', 'p', 'P':
		k.controls.TogglePlay(ctx)
	case 'f', 'F':
		k.controls.ToggleFullscreen(ctx)
	case 'q', 'Q', ctrlC:
		k.logger.Info("Quit requested")
		if k.quit != nil {
			k.quit()
		}
		return false
	default:
		k.logger.Debug("Unmapped key", zap.Int("key", int(key)))
	}
	return true
}
