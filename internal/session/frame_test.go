package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameBufferOverwritesPending(t *testing.T) {
	b := NewFrameBuffer()
	b.Store(&MediaFrame{Kind: SourcePrimaryCamera, Data: []byte("one")})
	b.Store(&MediaFrame{Kind: SourcePrimaryCamera, Data: []byte("two")})

	got := b.Take(SourcePrimaryCamera)
	require.NotNil(t, got)
	assert.Equal(t, []byte("two"), got.Data)
}

func TestFrameBufferTakeClearsSlot(t *testing.T) {
	b := NewFrameBuffer()
	b.Store(&MediaFrame{Kind: SourceScreenShare, Data: []byte("shot")})

	require.NotNil(t, b.Take(SourceScreenShare))
	assert.Nil(t, b.Take(SourceScreenShare))
}

func TestFrameBufferSlotsAreIndependent(t *testing.T) {
	b := NewFrameBuffer()
	b.Store(&MediaFrame{Kind: SourcePrimaryCamera, Data: []byte("cam")})
	b.Store(&MediaFrame{Kind: SourceScreenShare, Data: []byte("scr")})

	require.NotNil(t, b.Take(SourcePrimaryCamera))
	got := b.Take(SourceScreenShare)
	require.NotNil(t, got)
	assert.Equal(t, []byte("scr"), got.Data)
}

func TestFrameBufferTakeAllOrderAndDrain(t *testing.T) {
	b := NewFrameBuffer()
	b.Store(&MediaFrame{Kind: SourceScreenShare, Data: []byte("scr")})
	b.Store(&MediaFrame{Kind: SourcePrimaryCamera, Data: []byte("cam")})

	frames := b.TakeAll()
	require.Len(t, frames, 2)
	assert.Equal(t, SourcePrimaryCamera, frames[0].Kind)
	assert.Equal(t, SourceScreenShare, frames[1].Kind)

	assert.Empty(t, b.TakeAll())
}

func TestFrameBufferPeekDoesNotConsume(t *testing.T) {
	b := NewFrameBuffer()
	b.Store(&MediaFrame{Kind: SourceScreenShare, Data: []byte("shot")})

	assert.NotNil(t, b.Peek(SourceScreenShare))
	assert.NotNil(t, b.Peek(SourceScreenShare))
	assert.NotNil(t, b.Take(SourceScreenShare))
}

func TestFrameBufferIgnoresUnknownKind(t *testing.T) {
	b := NewFrameBuffer()
	b.Store(&MediaFrame{Kind: SourceKind("microphone"), Data: []byte("x")})

	assert.Nil(t, b.Peek(SourceKind("microphone")))
	assert.Empty(t, b.TakeAll())
}

func TestTranscriptAppendOnlyAndSnapshot(t *testing.T) {
	r := NewTranscriptRecorder()
	r.Append("user", "hello")
	r.Append("assistant", "hi there")

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "hello", entries[0].Text)
	assert.WithinDuration(t, time.Now(), entries[0].Timestamp, time.Minute)

	// Mutating the snapshot must not touch the recorder.
	entries[0].Text = "tampered"
	assert.Equal(t, "hello", r.Entries()[0].Text)
	assert.Equal(t, 2, r.Len())
}
