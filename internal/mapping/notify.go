package mapping

import (
	"sync"
)

// ChangeType describes a mapping table change.
type ChangeType int

const (
	// ChangeAdd indicates a shortcut was added or updated.
	ChangeAdd ChangeType = iota

	// ChangeRemove indicates a shortcut was removed.
	ChangeRemove

	// ChangeReload indicates the whole table was replaced.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeAdd:
		return "add"
	case ChangeRemove:
		return "remove"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change is delivered to observers after a new table has been installed.
type Change struct {
	// Type is the kind of change.
	Type ChangeType

	// Shortcut is the affected shortcut. Empty for reloads.
	Shortcut string

	// Table is the newly installed snapshot.
	Table *Table
}

// Observer is called after each table swap.
type Observer func(Change)

// Subscription represents an active observer registration.
type Subscription struct {
	id       uint64
	notifier *notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// notifier fans table changes out to observers. Delivery is synchronous
// and happens after the swap, so observers always read the new table.
type notifier struct {
	mu        sync.RWMutex
	observers map[uint64]Observer
	nextID    uint64
}

func newNotifier() *notifier {
	return &notifier{observers: make(map[uint64]Observer)}
}

func (n *notifier) subscribe(o Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.observers[id] = o
	return &Subscription{id: id, notifier: n}
}

func (n *notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

func (n *notifier) notify(change Change) {
	n.mu.RLock()
	observers := make([]Observer, 0, len(n.observers))
	for _, o := range n.observers {
		observers = append(observers, o)
	}
	n.mu.RUnlock()

	for _, o := range observers {
		o(change)
	}
}
