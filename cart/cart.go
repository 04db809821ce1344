// Package cart holds the transient shopping cart: a serialized line list in
// browser storage plus a change signal so the nav badge updates in the same
// view cycle as the mutation.
package cart

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/chronoluxe/rental-frontend/backend"
	"github.com/chronoluxe/rental-frontend/checkout"
	"github.com/chronoluxe/rental-frontend/storage"
)

// StorageKey is the well-known storage key the cart serializes under.
const StorageKey = "cart"

// Cart manages the line list. Every mutation persists immediately and then
// notifies subscribers, mirroring the storage-event fanout the views listen
// on.
type Cart struct {
	storage storage.Store

	mu        sync.Mutex
	lines     []checkout.Line
	loaded    bool
	listeners []func(count int)
}

// New initializes a Cart over the given store.
func New(store storage.Store) (*Cart, error) {
	if store == nil {
		return nil, errors.New("[cart New] storage is required")
	}
	return &Cart{storage: store}, nil
}

// Subscribe registers a change listener invoked with the new line count
// after every mutation. Listeners run outside the cart mutex and may call
// back into the cart. They cannot be removed; they live as long as the cart.
func (c *Cart) Subscribe(listener func(count int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, listener)
}

// Items returns a copy of the current lines, loading from storage on first
// use. An absent or unreadable blob means an empty cart.
func (c *Cart) Items() []checkout.Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	out := make([]checkout.Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count returns the number of lines, for the nav badge.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	return len(c.lines)
}

// HasItems reports whether the badge should show.
func (c *Cart) HasItems() bool {
	return c.Count() > 0
}

// Add prices a line for watch over [start, end] and appends it. Adding a
// watch already in the cart replaces its line instead of duplicating it.
func (c *Cart) Add(watch backend.Watch, start, end time.Time) error {
	c.mu.Lock()
	c.load()

	line := checkout.NewLine(watch, start, end)
	replaced := false
	for i := range c.lines {
		if c.lines[i].Item.WatchID == watch.ID {
			c.lines[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		c.lines = append(c.lines, line)
	}
	return c.persistAndNotify()
}

// Remove drops the line for watchID. Removing an absent watch is a no-op
// that still notifies, so stale badges self-correct.
func (c *Cart) Remove(watchID string) error {
	c.mu.Lock()
	c.load()

	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.Item.WatchID != watchID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
	return c.persistAndNotify()
}

// SetDates re-dates the line for watchID, clamping and re-pricing it.
func (c *Cart) SetDates(watchID string, start, end time.Time) error {
	c.mu.Lock()
	c.load()

	for i := range c.lines {
		if c.lines[i].Item.WatchID == watchID {
			c.lines[i] = checkout.NewLine(c.lines[i].Item.Watch, start, end)
			return c.persistAndNotify()
		}
	}
	c.mu.Unlock()
	return errors.Errorf("[Cart SetDates] watch %s is not in the cart", watchID)
}

// Sheet builds the editable checkout sheet over the current lines.
func (c *Cart) Sheet() *checkout.Sheet {
	return checkout.NewSheet(c.Items())
}

// Clear empties the cart and removes the stored blob. Satisfies the
// checkout processor's CartClearer.
func (c *Cart) Clear() error {
	c.mu.Lock()
	c.lines = nil
	c.loaded = true
	if err := c.storage.Remove(StorageKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		c.mu.Unlock()
		return errors.Wrap(err, "[Cart Clear]")
	}
	c.unlockAndNotify()
	return nil
}

// load reads the stored blob once per cart. A corrupt blob is discarded
// rather than surfaced; the cart is a convenience, not a record.
func (c *Cart) load() {
	if c.loaded {
		return
	}
	c.loaded = true

	raw, err := c.storage.Read(StorageKey)
	if err != nil {
		return
	}
	var lines []checkout.Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return
	}
	c.lines = lines
}

// persistAndNotify writes the line list and fans the change out. Called
// with the mutex held; it releases the mutex on every path.
func (c *Cart) persistAndNotify() error {
	raw, err := json.Marshal(c.lines)
	if err != nil {
		c.mu.Unlock()
		return errors.Wrap(err, "[Cart persist] marshal")
	}
	if err := c.storage.Write(StorageKey, raw); err != nil {
		c.mu.Unlock()
		return errors.Wrap(err, "[Cart persist] write")
	}
	c.unlockAndNotify()
	return nil
}

// unlockAndNotify snapshots the listeners and count, releases the mutex,
// and only then invokes the listeners, so they can call back into the cart
// without deadlocking.
func (c *Cart) unlockAndNotify() {
	listeners := make([]func(int), len(c.listeners))
	copy(listeners, c.listeners)
	count := len(c.lines)
	c.mu.Unlock()

	for _, listener := range listeners {
		listener(count)
	}
}
