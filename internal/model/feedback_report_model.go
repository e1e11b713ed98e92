package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FeedbackReport struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId       string         `gorm:"type:varchar(128);not null;uniqueIndex"`
	ParticipantId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	ParticipantName string         `gorm:"type:varchar(255)"`
	Mode            string         `gorm:"type:varchar(32)"`
	RawText         string         `gorm:"type:text"`
	Sections        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (FeedbackReport) TableName() string {
	return "feedback_reports"
}
