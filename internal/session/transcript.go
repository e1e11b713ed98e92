package session

import (
	"sync"
	"time"
)

type TranscriptEntry struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TranscriptRecorder is an append-only chronological log of completed turns.
// Entries are never removed or reordered.
type TranscriptRecorder struct {
	mu      sync.Mutex
	entries []TranscriptEntry
}

func NewTranscriptRecorder() *TranscriptRecorder {
	return &TranscriptRecorder{}
}

func (r *TranscriptRecorder) Append(role, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, TranscriptEntry{
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	})
}

// Entries returns a snapshot copy; the recorder keeps ownership of its log.
func (r *TranscriptRecorder) Entries() []TranscriptEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TranscriptEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *TranscriptRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
