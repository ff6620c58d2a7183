package video

import "sync"

// Rotator cycles through a fixed list of video IDs with wraparound in both
// directions. The index is guarded so request handlers can advance it
// concurrently.
type Rotator struct {
	mu    sync.Mutex
	ids   []string
	index int
}

// New creates a Rotator over the given IDs.
func New(ids []string) *Rotator {
	return &Rotator{ids: ids}
}

// Current returns the ID at the rotation index, or "" when no IDs are
// configured.
func (r *Rotator) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current()
}

// Next advances the rotation and returns the new current ID.
func (r *Rotator) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ids) == 0 {
		return ""
	}
	r.index = (r.index + 1) % len(r.ids)
	return r.current()
}

// Prev steps the rotation backwards and returns the new current ID.
func (r *Rotator) Prev() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ids) == 0 {
		return ""
	}
	r.index = (r.index - 1 + len(r.ids)) % len(r.ids)
	return r.current()
}

func (r *Rotator) current() string {
	if len(r.ids) == 0 {
		return ""
	}
	return r.ids[r.index]
}
