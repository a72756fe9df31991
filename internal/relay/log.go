package relay

import "encoding/json"

// Chunk is one opaque unit of streamed content. The relay does not
// interpret its contents.
type Chunk = json.RawMessage

// ChunkLog is the append-only ordered history for one query key plus a
// completion flag. It carries no synchronization of its own; the Store
// serializes all access.
type ChunkLog struct {
	seq       []Chunk
	completed bool
}

// Append adds a chunk to the log. It reports false without storing
// anything when the log is already complete; completion is a hard
// end-of-log marker.
func (l *ChunkLog) Append(c Chunk) bool {
	if l.completed {
		return false
	}
	l.seq = append(l.seq, c)
	return true
}

// Snapshot returns a defensive copy of the sequence.
func (l *ChunkLog) Snapshot() []Chunk {
	out := make([]Chunk, len(l.seq))
	copy(out, l.seq)
	return out
}

// MarkComplete sets the completion flag. Idempotent.
func (l *ChunkLog) MarkComplete() { l.completed = true }

// Completed reports whether the log has been marked complete.
func (l *ChunkLog) Completed() bool { return l.completed }

// Len returns the number of chunks appended so far.
func (l *ChunkLog) Len() int { return len(l.seq) }
