// Package playlist implements the ordered, versioned playlist that backs
// the add/clear/next/previous/playlistinfo commands, plus the on-disk
// catalog of named playlists used by save/load/listplaylists.
package playlist

import "sync"

// Item is a single playlist entry. ID is -1 until the item is first
// played, at which point the playlist assigns it a stable identity;
// it never changes afterward.
type Item struct {
	URI  string
	Name string
	ID   int
}

// IsZero reports whether i is the sentinel "no item" value returned by
// Next/Previous/Current when the cursor has nothing to point at.
func (i Item) IsZero() bool {
	return i.ID == -1 && i.URI == ""
}

// emptyItem is returned in place of a real item when the cursor is past
// the end of the list or the list itself is empty. Its ID is -1 so it can
// never collide with a real, assigned item ID.
var emptyItem = Item{ID: -1}

// Playlist is an ordered, versioned sequence of items with a cursor.
//
// cursor is always in [0, len(items)]; cursor == len(items) means "past
// the end" — Current/Next then have nothing to return. version increases
// by exactly one on the first structural mutation since the last
// save/load and does not bump again until the dirty window is cleared
// by a save, load or clear (the "collapsed dirty window" policy).
type Playlist struct {
	mu      sync.Mutex
	items   []Item
	cursor  int
	version uint32
	dirty   bool
	nextID  int
}

// New returns an empty playlist at version 0.
func New() *Playlist {
	return &Playlist{nextID: 1}
}

// Add appends uri as a new item (ID unassigned, -1) and bumps the
// version if this is the first mutation since the last clean state.
func (p *Playlist) Add(uri string) Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	item := Item{URI: uri, ID: -1}
	p.items = append(p.items, item)
	p.markDirty()
	return item
}

// MarkPlayed assigns the item at pos its real ID the first time it is
// played (a no-op if it already has one), and returns it. pos must be
// the item's current index; an out-of-range pos returns the empty item.
func (p *Playlist) MarkPlayed(pos int) Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pos < 0 || pos >= len(p.items) {
		return emptyItem
	}
	if p.items[pos].ID < 0 {
		p.items[pos].ID = p.nextID
		p.nextID++
	}
	return p.items[pos]
}

// markDirty bumps version exactly once per dirty window. Must be called
// with mu held.
func (p *Playlist) markDirty() {
	if !p.dirty {
		p.dirty = true
		p.version++
	}
}

// Clear empties the playlist and resets the cursor and dirty flag.
// Version is left untouched.
func (p *Playlist) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.cursor = 0
	p.dirty = false
}

// Next returns the item at the cursor and advances it, or the empty item
// if the playlist is empty or the cursor is already past the end.
// Calling Next repeatedly once past the end is a no-op.
func (p *Playlist) Next() Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.items) == 0 || p.cursor >= len(p.items) {
		return emptyItem
	}
	item := p.items[p.cursor]
	p.cursor++
	return item
}

// Previous returns the item before the cursor and retreats it. From
// position 0 it returns the first item (if any) without moving the
// cursor.
func (p *Playlist) Previous() Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.items) == 0 {
		return emptyItem
	}
	if p.cursor == 0 {
		return p.items[0]
	}
	p.cursor--
	return p.items[p.cursor]
}

// Current returns the item at the cursor without moving it, or the empty
// item if the cursor is past the end.
func (p *Playlist) Current() Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor >= len(p.items) {
		return emptyItem
	}
	return p.items[p.cursor]
}

// SeekTo moves the cursor directly to pos, clamping into [0, len(items)],
// and returns the item now at the cursor (the empty item if pos lands
// past the end). Used by `play <pos>` to start at an explicit position
// without going through repeated Next calls.
func (p *Playlist) SeekTo(pos int) Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pos < 0 {
		pos = 0
	}
	if pos > len(p.items) {
		pos = len(p.items)
	}
	p.cursor = pos
	if p.cursor >= len(p.items) {
		return emptyItem
	}
	return p.items[p.cursor]
}

// PeekNext returns the item the next Next() call would return, without
// advancing the cursor. Used by the status projection's "next item"
// fields.
func (p *Playlist) PeekNext() Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor >= len(p.items) {
		return emptyItem
	}
	return p.items[p.cursor]
}

// Enumerate calls f for every item in order. f must not mutate the
// playlist.
func (p *Playlist) Enumerate(f func(index int, item Item)) {
	p.mu.Lock()
	items := make([]Item, len(p.items))
	copy(items, p.items)
	p.mu.Unlock()

	for i, item := range items {
		f(i, item)
	}
}

// Len returns the number of items.
func (p *Playlist) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Version returns the current version counter.
func (p *Playlist) Version() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

// CursorIndex returns the raw cursor position, len(items) when past the
// end.
func (p *Playlist) CursorIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// loadFrom replaces the playlist contents with items. Resets cursor,
// dirty, version and the ID sequence, since a freshly loaded item has
// no ID until it is played.
func (p *Playlist) loadFrom(items []Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = items
	p.cursor = 0
	p.dirty = false
	p.version = 0
	p.nextID = 1
}

// snapshot returns a copy of the current items, used by Save.
func (p *Playlist) snapshot() []Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]Item, len(p.items))
	copy(items, p.items)
	return items
}
