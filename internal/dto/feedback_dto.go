package dto

import "time"

type FeedbackReportResponse struct {
	SessionId       string            `json:"session_id"`
	ParticipantName string            `json:"participant_name"`
	Mode            string            `json:"mode"`
	RawText         string            `json:"raw_text"`
	Sections        map[string]string `json:"sections"`
	CreatedAt       time.Time         `json:"created_at"`
}
