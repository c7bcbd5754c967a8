// Package history keeps the linear undo/redo list of surface snapshots.
package history

import "LocalSketch/internal/raster"

// Stack is an ordered list of snapshots with a cursor marking the frame
// currently on screen. Pushing while the cursor is not at the tail prunes
// the redo branch first.
type Stack struct {
	entries  []raster.Snapshot
	cursor   int
	limit    int
	maxBytes int64
	bytes    int64
}

// New returns an empty stack retaining at most limit entries and at most
// maxBytes of pixel data. Zero or less disables either bound. The entry under
// the cursor is always kept, even when it alone exceeds maxBytes.
func New(limit int, maxBytes int64) *Stack {
	return &Stack{limit: max(limit, 0), maxBytes: max(maxBytes, 0), cursor: -1}
}

// Reset drops every entry and seeds the stack with s.
func (h *Stack) Reset(s raster.Snapshot) {
	h.entries = append(h.entries[:0:0], s)
	h.cursor = 0
	h.bytes = s.Size()
}

// Push appends s after the cursor and moves the cursor onto it.
func (h *Stack) Push(s raster.Snapshot) {
	tail := h.entries[h.cursor+1:]
	for _, e := range tail {
		h.bytes -= e.Size()
	}
	// pruned frames must not stay reachable through the backing array
	clear(tail)
	h.entries = append(h.entries[:h.cursor+1], s)
	h.cursor = len(h.entries) - 1
	h.bytes += s.Size()

	drop := 0
	for drop < h.cursor && h.over(len(h.entries)-drop) {
		h.bytes -= h.entries[drop].Size()
		drop++
	}
	if drop > 0 {
		// shift down instead of reslicing so dropped frames can be collected
		n := copy(h.entries, h.entries[drop:])
		clear(h.entries[n:])
		h.entries = h.entries[:n]
		h.cursor -= drop
	}
}

// over reports whether keeping the newest n entries breaks a bound.
func (h *Stack) over(n int) bool {
	return (h.limit > 0 && n > h.limit) || (h.maxBytes > 0 && h.bytes > h.maxBytes)
}

// Undo moves the cursor back one entry and returns the snapshot there.
// It is a no-op at the first entry.
func (h *Stack) Undo() (raster.Snapshot, bool) {
	if !h.CanUndo() {
		return raster.Snapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo moves the cursor forward one entry and returns the snapshot there.
// It is a no-op at the last entry.
func (h *Stack) Redo() (raster.Snapshot, bool) {
	if !h.CanRedo() {
		return raster.Snapshot{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Current returns the snapshot under the cursor.
func (h *Stack) Current() (raster.Snapshot, bool) {
	if h.cursor < 0 {
		return raster.Snapshot{}, false
	}
	return h.entries[h.cursor], true
}

// CanUndo reports whether an earlier entry exists.
func (h *Stack) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a later entry exists.
func (h *Stack) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.entries)-1 }

// Len returns the number of retained entries.
func (h *Stack) Len() int { return len(h.entries) }

// Cursor returns the index of the current entry, or -1 when empty.
func (h *Stack) Cursor() int { return h.cursor }

// Limit returns the retention limit, zero meaning unbounded.
func (h *Stack) Limit() int { return h.limit }

// MaxBytes returns the pixel byte budget, zero meaning unbounded.
func (h *Stack) MaxBytes() int64 { return h.maxBytes }

// Bytes returns the pixel bytes currently retained.
func (h *Stack) Bytes() int64 { return h.bytes }
