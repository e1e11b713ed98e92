package entity

import (
	"time"

	"github.com/google/uuid"
)

// ResumeFragment is one indexed chunk of a participant's background document.
// Fragments are immutable; re-indexing the same resume overwrites them by id
// instead of mutating in place.
type ResumeFragment struct {
	Id             uuid.UUID
	ParticipantId  uuid.UUID
	ResumeId       uuid.UUID
	Source         string
	Text           string
	EmbeddingValue []float32
	SequenceIndex  int
	TotalCount     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
