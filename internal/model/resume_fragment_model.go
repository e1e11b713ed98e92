package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ResumeFragment struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ParticipantId  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ResumeId       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Source         string          `gorm:"type:varchar(32);not null;default:'resume'"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	ChunkIndex     int             `gorm:"default:0"` // 0-based index for ordering
	TotalChunks    int             `gorm:"default:0"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (ResumeFragment) TableName() string {
	return "resume_fragments"
}
