package contract

import (
	"context"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredFragment wraps ResumeFragment with its similarity score
type ScoredFragment struct {
	Fragment   *entity.ResumeFragment
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ResumeFragmentRepository interface {
	// Upsert inserts fragments or replaces existing rows with the same id.
	// Fragment ids are derived deterministically from (resumeId, chunkIndex),
	// so re-indexing the same resume overwrites instead of duplicating.
	Upsert(ctx context.Context, fragments []*entity.ResumeFragment) error
	// DeleteByResumeId clears every fragment of one indexed document, so a
	// re-upload starts from a clean slate.
	DeleteByResumeId(ctx context.Context, resumeId uuid.UUID) error
	DeleteAllByParticipantIdUnscoped(ctx context.Context, participantId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResumeFragment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns the participant's fragments ordered by
	// descending cosine similarity, filtered by source and threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, participantId uuid.UUID, source string, threshold float64) ([]*ScoredFragment, error)
}
