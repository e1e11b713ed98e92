package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedByParticipant restricts a query to one participant's fragments.
// Retrieval must never cross participant boundaries.
type OwnedByParticipant struct {
	ParticipantId uuid.UUID
}

func (s OwnedByParticipant) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("participant_id = ?", s.ParticipantId)
}

// BySource filters fragments by source category (e.g. "resume").
type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}

// ByResumeId filters fragments belonging to one indexed document set.
type ByResumeId struct {
	ResumeId uuid.UUID
}

func (s ByResumeId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("resume_id = ?", s.ResumeId)
}
