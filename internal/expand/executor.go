package expand

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kumar10248/keyreplacer/internal/input/key"
	"github.com/kumar10248/keyreplacer/internal/platform"
)

// Options tunes the timing of a replacement.
type Options struct {
	// BackspaceDelay is the pause between deleting the shortcut and
	// typing the expansion.
	BackspaceDelay time.Duration

	// SettleDelay is how long the generation gate stays open after the
	// last injected key, covering events still queued in the OS.
	SettleDelay time.Duration
}

// DefaultOptions returns the timing used when none is configured.
func DefaultOptions() Options {
	return Options{
		BackspaceDelay: 50 * time.Millisecond,
		SettleDelay:    100 * time.Millisecond,
	}
}

// Executor replaces typed shortcuts with their expansions.
type Executor struct {
	synth platform.Synthesizer
	gen   *Generation
	opts  Options
}

// NewExecutor returns an Executor injecting through synth. gen may be
// shared with the listener so it can discard injected events.
func NewExecutor(synth platform.Synthesizer, gen *Generation, opts Options) (*Executor, error) {
	if synth == nil {
		return nil, ErrNilSynthesizer
	}
	if gen == nil {
		gen = &Generation{}
	}
	if opts.BackspaceDelay <= 0 {
		opts.BackspaceDelay = DefaultOptions().BackspaceDelay
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultOptions().SettleDelay
	}
	return &Executor{synth: synth, gen: gen, opts: opts}, nil
}

// Generation returns the executor's injection gate.
func (e *Executor) Generation() *Generation {
	return e.gen
}

// Execute deletes shortcutLen characters behind the cursor and types
// expansion in their place. Newlines in the expansion are injected as
// Enter presses. Only one expansion may run at a time.
func (e *Executor) Execute(ctx context.Context, shortcutLen int, expansion string) error {
	if !e.gen.Open() {
		return ErrInFlight
	}
	defer e.closeAfterSettle()

	if err := ctx.Err(); err != nil {
		return err
	}
	if shortcutLen > 0 {
		if err := e.synth.SynthesizeBackspace(shortcutLen); err != nil {
			return fmt.Errorf("delete shortcut: %w", err)
		}
	}

	if err := sleepCtx(ctx, e.opts.BackspaceDelay); err != nil {
		return err
	}

	for i, segment := range strings.Split(expansion, "\n") {
		if i > 0 {
			if err := e.synth.SynthesizeKey(key.KeyEnter); err != nil {
				return fmt.Errorf("type expansion: %w", err)
			}
		}
		if segment == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.synth.SynthesizeText(segment); err != nil {
			return fmt.Errorf("type expansion: %w", err)
		}
	}
	return nil
}

func (e *Executor) closeAfterSettle() {
	time.Sleep(e.opts.SettleDelay)
	e.gen.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
