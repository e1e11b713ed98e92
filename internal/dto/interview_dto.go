package dto

import "time"

type CreateSessionRequest struct {
	ParticipantName string `json:"participant_name" validate:"required,min=1,max=255"`
	Mode            string `json:"mode" validate:"required,oneof=coached-practice formal-assessment"`
	JobDescription  string `json:"job_description"`
	Email           string `json:"email" validate:"omitempty,email"`
}

type CreateSessionResponse struct {
	SessionId       string `json:"session_id"`
	Token           string `json:"token"`
	Mode            string `json:"mode"`
	ParticipantName string `json:"participant_name"`
}

type SessionStatusResponse struct {
	SessionId       string    `json:"session_id"`
	ParticipantName string    `json:"participant_name"`
	Mode            string    `json:"mode"`
	Status          string    `json:"status"`
	TranscriptLen   int       `json:"transcript_len"`
	CreatedAt       time.Time `json:"created_at"`
}

type UploadResumeRequest struct {
	ParticipantName string `json:"participant_name" validate:"required,min=1,max=255"`
	Text            string `json:"text" validate:"required,min=1"`
}

type UploadResumeResponse struct {
	ResumeId        string `json:"resume_id"`
	ParticipantName string `json:"participant_name"`
	Status          string `json:"status"`
}

// PublishIndexResumeMessage is the payload of the async indexing job.
type PublishIndexResumeMessage struct {
	ResumeId        string `json:"resume_id"`
	ParticipantName string `json:"participant_name"`
}
