// FILE: test/integration/gorm_integration_test.go
package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/repository/specification"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormFragmentRoundTrip(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "connect to GORM DB")

	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(gormDB)
	uow := factory.NewUnitOfWork(ctx)

	participantId := uuid.New()
	resumeId := uuid.New()

	// Deliberately near-orthogonal vectors so ordering is unambiguous.
	embA := make([]float32, 768)
	embB := make([]float32, 768)
	embA[0] = 1
	embB[1] = 1

	fragments := []*entity.ResumeFragment{
		{
			Id:             uuid.NewSHA1(resumeId, []byte("0")),
			ParticipantId:  participantId,
			ResumeId:       resumeId,
			Source:         "resume",
			Text:           "Led a platform team of four Go engineers.",
			EmbeddingValue: embA,
			SequenceIndex:  0,
			TotalCount:     2,
		},
		{
			Id:             uuid.NewSHA1(resumeId, []byte("1")),
			ParticipantId:  participantId,
			ResumeId:       resumeId,
			Source:         "resume",
			Text:           "Organized the annual volleyball tournament.",
			EmbeddingValue: embB,
			SequenceIndex:  1,
			TotalCount:     2,
		},
	}

	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.ResumeFragmentRepository().Upsert(ctx, fragments))
	require.NoError(t, uow.Commit())

	// A second participant with an identical embedding is the most tempting
	// possible match; it still must never cross into the first participant's
	// results.
	intruderId := uuid.New()
	intruderResumeId := uuid.New()
	intruder := []*entity.ResumeFragment{{
		Id:             uuid.NewSHA1(intruderResumeId, []byte("0")),
		ParticipantId:  intruderId,
		ResumeId:       intruderResumeId,
		Source:         "resume",
		Text:           "Also led a platform team of Go engineers.",
		EmbeddingValue: embA,
		SequenceIndex:  0,
		TotalCount:     1,
	}}
	intruderUow := factory.NewUnitOfWork(ctx)
	require.NoError(t, intruderUow.Begin(ctx))
	require.NoError(t, intruderUow.ResumeFragmentRepository().Upsert(ctx, intruder))
	require.NoError(t, intruderUow.Commit())

	defer func() {
		cleanup := factory.NewUnitOfWork(ctx)
		_ = cleanup.ResumeFragmentRepository().DeleteAllByParticipantIdUnscoped(ctx, participantId)
		_ = cleanup.ResumeFragmentRepository().DeleteAllByParticipantIdUnscoped(ctx, intruderId)
	}()

	// Query with embA: the first fragment must rank on top with similarity ~1.
	reader := factory.NewUnitOfWork(ctx)
	results, err := reader.ResumeFragmentRepository().SearchSimilarWithScore(ctx, embA, 5, participantId, "resume", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, fragments[0].Id, results[0].Fragment.Id)
	assert.InDelta(t, 1.0, results[0].Similarity, 0.001)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
	for _, r := range results {
		assert.Equal(t, participantId, r.Fragment.ParticipantId, "results must stay within the queried participant")
		assert.NotEqual(t, intruder[0].Id, r.Fragment.Id)
	}

	// Upsert again with changed text: same ids, no duplicate rows.
	fragments[0].Text = "Led a platform team of five Go engineers."
	writer := factory.NewUnitOfWork(ctx)
	require.NoError(t, writer.Begin(ctx))
	require.NoError(t, writer.ResumeFragmentRepository().Upsert(ctx, fragments))
	require.NoError(t, writer.Commit())

	counter := factory.NewUnitOfWork(ctx)
	count, err := counter.ResumeFragmentRepository().Count(ctx,
		specification.OwnedByParticipant{ParticipantId: participantId},
		specification.BySource{Source: "resume"},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	stored, err := counter.ResumeFragmentRepository().FindAll(ctx, specification.ByResumeId{ResumeId: resumeId})
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	results, err = counter.ResumeFragmentRepository().SearchSimilarWithScore(ctx, embA, 5, participantId, "resume", 0)
	require.NoError(t, err)
	require.Len(t, results, 2, "re-index must overwrite, not duplicate")
	assert.Contains(t, results[0].Fragment.Text, "five")
}
