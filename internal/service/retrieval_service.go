// FILE: internal/service/retrieval_service.go
package service

import (
	"context"
	"errors"
	"strconv"
	"time"
	"unicode/utf8"

	"ai-interview-be/internal/constant"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/internal/repository/specification"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/pkg/chunker"
	"ai-interview-be/pkg/embedding"

	"github.com/google/uuid"
)

// ErrStoreUnavailable signals the degraded-but-running state where no vector
// store is configured. Callers treat it as "feature off", not as a crash.
var ErrStoreUnavailable = errors.New("retrieval store not configured")

type IRetrievalService interface {
	// Available reports whether the vector store is configured.
	Available() bool
	// Index splits text into fragments, embeds them in order and upserts them
	// under deterministic ids so re-indexing the same resume overwrites.
	Index(ctx context.Context, participantId, resumeId uuid.UUID, text string) (int, error)
	// Search returns the participant's fragments most similar to the query,
	// best first. Unavailable store or no match yields an empty list, not an
	// error.
	Search(ctx context.Context, query string, participantId uuid.UUID, topK int) ([]*contract.ScoredFragment, error)
	// SearchTool is the language-model-facing surface: it always returns a
	// sentence or a snippet block, never an error. topK <= 0 means the
	// configured default.
	SearchTool(ctx context.Context, participantId *uuid.UUID, query string, topK int) string
}

type retrievalService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	chunkBudget       int
	topK              int
	log               logger.ILogger
}

func NewRetrievalService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	chunkBudget int,
	topK int,
	log logger.ILogger,
) IRetrievalService {
	if chunkBudget <= 0 {
		chunkBudget = chunker.DefaultBudget
	}
	if topK <= 0 {
		topK = constant.RetrievalTopK
	}
	return &retrievalService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		chunkBudget:       chunkBudget,
		topK:              topK,
		log:               log,
	}
}

// ParticipantIdFor derives a stable participant identity from a display name.
// The same name always maps to the same id, so uploads and sessions agree
// without a user account system.
func ParticipantIdFor(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("participant:"+name))
}

func (s *retrievalService) Available() bool {
	return s.uowFactory != nil
}

func (s *retrievalService) Index(ctx context.Context, participantId, resumeId uuid.UUID, text string) (int, error) {
	if !s.Available() {
		return 0, ErrStoreUnavailable
	}

	chunks := chunker.Split(text, s.chunkBudget)
	if len(chunks) == 0 {
		return 0, nil
	}

	fragments := make([]*entity.ResumeFragment, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := s.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			s.log.Error("retrieval", "embedding generation failed", map[string]interface{}{
				"resume_id": resumeId, "chunk": i, "error": err.Error(),
			})
			return 0, err
		}

		// Fragment identity derives from (resumeId, sequenceIndex) so the
		// same resume re-indexed lands on the same rows.
		fragments = append(fragments, &entity.ResumeFragment{
			Id:             uuid.NewSHA1(resumeId, []byte(strconv.Itoa(i))),
			ParticipantId:  participantId,
			ResumeId:       resumeId,
			Source:         constant.SourceResume,
			Text:           chunk,
			EmbeddingValue: res.Embedding.Values,
			SequenceIndex:  i,
			TotalCount:     len(chunks),
			CreatedAt:      time.Now(),
		})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	repo := uow.ResumeFragmentRepository()

	// A shorter re-upload must not leave trailing chunks from a longer
	// prior version of the same resume.
	if err := repo.DeleteByResumeId(ctx, resumeId); err != nil {
		return 0, err
	}
	if err := repo.Upsert(ctx, fragments); err != nil {
		return 0, err
	}
	total, _ := repo.Count(ctx,
		specification.OwnedByParticipant{ParticipantId: participantId},
		specification.BySource{Source: constant.SourceResume},
	)
	if err := uow.Commit(); err != nil {
		return 0, err
	}

	s.log.Info("retrieval", "resume indexed", map[string]interface{}{
		"resume_id": resumeId, "participant_id": participantId,
		"fragments": len(fragments), "participant_total": total,
	})
	return len(fragments), nil
}

func (s *retrievalService) Search(ctx context.Context, query string, participantId uuid.UUID, topK int) ([]*contract.ScoredFragment, error) {
	if !s.Available() {
		return nil, nil
	}
	if topK <= 0 {
		topK = s.topK
	}

	res, err := s.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ResumeFragmentRepository().SearchSimilarWithScore(
		ctx, res.Embedding.Values, topK, participantId, constant.SourceResume, 0,
	)
}

func (s *retrievalService) SearchTool(ctx context.Context, participantId *uuid.UUID, query string, topK int) string {
	if participantId == nil {
		return constant.NoIdentityBoundMessage
	}

	results, err := s.Search(ctx, query, *participantId, topK)
	if err != nil {
		s.log.Error("retrieval", "tool search failed", map[string]interface{}{
			"participant_id": participantId, "error": err.Error(),
		})
		return constant.RetrievalErrorMessage
	}
	if len(results) == 0 {
		return constant.NothingFoundMessage
	}

	out := ""
	for i, r := range results {
		if i > 0 {
			out += "\n\n"
		}
		out += truncateRunes(r.Fragment.Text, constant.RetrievalSnippetSize)
	}
	return out
}

// truncateRunes cuts on character boundaries; a byte slice could split a
// multibyte rune and hand the model invalid UTF-8.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
