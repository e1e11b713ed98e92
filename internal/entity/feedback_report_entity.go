package entity

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackReport struct {
	Id              uuid.UUID
	SessionId       string
	ParticipantId   uuid.UUID
	ParticipantName string
	Mode            string
	RawText         string
	Sections        map[string]string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
