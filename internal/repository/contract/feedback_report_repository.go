package contract

import (
	"context"

	"ai-interview-be/internal/entity"

	"github.com/google/uuid"
)

type FeedbackReportRepository interface {
	// Upsert is keyed by session identity: insert-if-absent, replace-if-present.
	// A session never owns more than one report row.
	Upsert(ctx context.Context, report *entity.FeedbackReport) error
	FindBySessionId(ctx context.Context, sessionId string) (*entity.FeedbackReport, error)
	FindAllByParticipant(ctx context.Context, participantId uuid.UUID) ([]*entity.FeedbackReport, error)
}
