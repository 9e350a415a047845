package monitor

// ring is a fixed-capacity circular buffer of log entries. The oldest
// entry is evicted when a push exceeds capacity. Not safe for concurrent
// use on its own; the Monitor serializes access.
type ring struct {
	entries []LogEntry
	head    int // index of the next write
	size    int
}

func newRing(capacity int) *ring {
	return &ring{
		entries: make([]LogEntry, capacity),
	}
}

// push appends an entry, evicting the oldest if the ring is full.
func (r *ring) push(entry LogEntry) {
	r.entries[r.head] = entry
	r.head = (r.head + 1) % len(r.entries)
	if r.size < len(r.entries) {
		r.size++
	}
}

// recent returns up to limit entries, most recent first.
func (r *ring) recent(limit int) []LogEntry {
	if limit > r.size {
		limit = r.size
	}
	if limit <= 0 {
		return nil
	}

	out := make([]LogEntry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.head - i + len(r.entries)) % len(r.entries)
		out = append(out, r.entries[idx])
	}
	return out
}

func (r *ring) len() int {
	return r.size
}
