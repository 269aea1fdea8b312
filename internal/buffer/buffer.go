// Package buffer implements the bounded rolling window of recently typed
// printable characters that the shortcut matcher inspects.
//
// The buffer's contract is that its content mirrors the literal characters
// the focused application currently displays to the left of the caret, as
// far as they were observed through the monitored channel. Any key that
// breaks that guarantee (navigation, Enter, an unrecognized special key)
// clears the window.
package buffer

import (
	"sync"
)

// MinCapacity is the smallest window the buffer will hold. A window is
// kept even when no shortcuts are registered so capacity changes never
// invalidate in-flight typing.
const MinCapacity = 1

// Buffer is a bounded rolling window of printable runes.
// It is safe for concurrent use: the listener observes keystrokes on the
// hook goroutine while mapping changes resize the window from another.
type Buffer struct {
	mu       sync.Mutex
	runes    []rune
	capacity int
}

// New creates a buffer with the given capacity. Capacities below
// MinCapacity are clamped.
func New(capacity int) *Buffer {
	if capacity < MinCapacity {
		capacity = MinCapacity
	}
	return &Buffer{
		runes:    make([]rune, 0, capacity),
		capacity: capacity,
	}
}

// Observe appends a printable character, evicting the oldest character
// when the window is full.
func (b *Buffer) Observe(r rune) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.runes) >= b.capacity {
		drop := len(b.runes) - b.capacity + 1
		b.runes = b.runes[:copy(b.runes, b.runes[drop:])]
	}
	b.runes = append(b.runes, r)
}

// ObserveControl records a control or navigation key. The window no
// longer mirrors the target's text, so it is cleared.
func (b *Buffer) ObserveControl() {
	b.Reset()
}

// DeleteLast removes the most recent character, mirroring a Backspace in
// the target application. It is a no-op on an empty window.
func (b *Buffer) DeleteLast() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.runes) > 0 {
		b.runes = b.runes[:len(b.runes)-1]
	}
}

// Reset empties the window unconditionally.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runes = b.runes[:0]
}

// Snapshot returns the current contents without mutation.
func (b *Buffer) Snapshot() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.runes)
}

// Len returns the number of buffered characters.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.runes)
}

// Cap returns the current window capacity.
func (b *Buffer) Cap() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Resize changes the window capacity, keeping the most recent characters
// when shrinking. Called when the mapping table changes so the window
// always covers the longest registered shortcut.
func (b *Buffer) Resize(capacity int) {
	if capacity < MinCapacity {
		capacity = MinCapacity
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.capacity = capacity
	if len(b.runes) > capacity {
		drop := len(b.runes) - capacity
		b.runes = b.runes[:copy(b.runes, b.runes[drop:])]
	}
}
