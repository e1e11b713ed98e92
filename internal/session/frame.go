package session

import (
	"sync/atomic"
	"time"

	"ai-interview-be/internal/constant"
)

// SourceKind identifies a published media track within a session.
type SourceKind string

const (
	SourcePrimaryCamera SourceKind = constant.SourcePrimaryCamera
	SourceScreenShare   SourceKind = constant.SourceScreenShare
)

// MediaFrame is one decoded sample from a media track.
type MediaFrame struct {
	Kind       SourceKind
	Data       []byte
	CapturedAt time.Time
}

// FrameBuffer holds at most one pending frame per source kind. Writers
// overwrite, readers swap-and-clear: intermediate frames between turns are
// intentionally lost, only the most recent sample matters.
type FrameBuffer struct {
	camera atomic.Pointer[MediaFrame]
	screen atomic.Pointer[MediaFrame]
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

func (b *FrameBuffer) slot(kind SourceKind) *atomic.Pointer[MediaFrame] {
	switch kind {
	case SourcePrimaryCamera:
		return &b.camera
	case SourceScreenShare:
		return &b.screen
	default:
		return nil
	}
}

// Store publishes a frame, replacing any undelivered predecessor.
func (b *FrameBuffer) Store(frame *MediaFrame) {
	if frame == nil {
		return
	}
	if slot := b.slot(frame.Kind); slot != nil {
		slot.Store(frame)
	}
}

// Take consumes the pending frame for a source kind, clearing the slot.
// Returns nil when nothing arrived since the last Take.
func (b *FrameBuffer) Take(kind SourceKind) *MediaFrame {
	if slot := b.slot(kind); slot != nil {
		return slot.Swap(nil)
	}
	return nil
}

// TakeAll consumes every pending frame in a fixed source order.
func (b *FrameBuffer) TakeAll() []*MediaFrame {
	var frames []*MediaFrame
	for _, kind := range []SourceKind{SourcePrimaryCamera, SourceScreenShare} {
		if f := b.Take(kind); f != nil {
			frames = append(frames, f)
		}
	}
	return frames
}

// Peek reads the pending frame without consuming it. The compliance monitor
// uses this so its observations do not steal frames from turn association.
func (b *FrameBuffer) Peek(kind SourceKind) *MediaFrame {
	if slot := b.slot(kind); slot != nil {
		return slot.Load()
	}
	return nil
}
