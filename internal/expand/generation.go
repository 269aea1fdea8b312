package expand

import "sync/atomic"

// Generation tracks whether keystroke injection is in progress. The
// listener consults it to discard events that originate from the
// injector rather than from the user.
type Generation struct {
	active atomic.Bool
}

// Open marks injection as in progress. It reports false if injection
// was already open.
func (g *Generation) Open() bool {
	return g.active.CompareAndSwap(false, true)
}

// Close marks injection as finished.
func (g *Generation) Close() {
	g.active.Store(false)
}

// Active reports whether injection is in progress.
func (g *Generation) Active() bool {
	return g.active.Load()
}
