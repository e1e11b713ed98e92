package service

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"ai-interview-be/internal/constant"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/internal/repository/specification"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// fixedEmbedder returns the same vector for every input.
type fixedEmbedder struct{}

func (fixedEmbedder) Generate(string, string) (*embedding.Response, error) {
	return &embedding.Response{Embedding: embedding.ResponseEmbedding{Values: []float32{1, 0, 0}}}, nil
}

// fakeFragmentRepo captures upserts and serves scripted search results.
type fakeFragmentRepo struct {
	upserted []*entity.ResumeFragment
	purged   []uuid.UUID
	results  []*contract.ScoredFragment
}

func (r *fakeFragmentRepo) Upsert(_ context.Context, fragments []*entity.ResumeFragment) error {
	r.upserted = append(r.upserted, fragments...)
	return nil
}
func (r *fakeFragmentRepo) DeleteByResumeId(_ context.Context, resumeId uuid.UUID) error {
	r.purged = append(r.purged, resumeId)
	return nil
}
func (r *fakeFragmentRepo) DeleteAllByParticipantIdUnscoped(context.Context, uuid.UUID) error {
	return nil
}
func (r *fakeFragmentRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.ResumeFragment, error) {
	return nil, nil
}
func (r *fakeFragmentRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *fakeFragmentRepo) SearchSimilarWithScore(context.Context, []float32, int, uuid.UUID, string, float64) ([]*contract.ScoredFragment, error) {
	return r.results, nil
}

type fakeUow struct {
	fragments *fakeFragmentRepo
	feedback  contract.FeedbackReportRepository
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }
func (u *fakeUow) ResumeFragmentRepository() contract.ResumeFragmentRepository {
	return u.fragments
}
func (u *fakeUow) FeedbackReportRepository() contract.FeedbackReportRepository {
	return u.feedback
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

func newRetrievalFixture(results []*contract.ScoredFragment) (IRetrievalService, *fakeFragmentRepo) {
	repo := &fakeFragmentRepo{results: results}
	svc := NewRetrievalService(&fakeFactory{uow: &fakeUow{fragments: repo}}, fixedEmbedder{}, 500, 5, nopLogger{})
	return svc, repo
}

func TestParticipantIdForIsDeterministic(t *testing.T) {
	a := ParticipantIdFor("Ada Lovelace")
	b := ParticipantIdFor("Ada Lovelace")
	c := ParticipantIdFor("ada lovelace")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c, "names are case-sensitive identities")
}

func TestIndexAssignsDeterministicFragmentIds(t *testing.T) {
	svc, repo := newRetrievalFixture(nil)
	participantId := ParticipantIdFor("Ada")
	resumeId := uuid.New()

	// 20 short paragraphs overflow the 500-char budget into multiple chunks.
	text := strings.TrimSpace(strings.Repeat("Led backend migrations across three separate teams.\n\n", 20))
	count, err := svc.Index(context.Background(), participantId, resumeId, text)
	require.NoError(t, err)
	require.Greater(t, count, 1)
	require.Len(t, repo.upserted, count)

	// Any prior version of this resume is purged before the new chunks land.
	assert.Equal(t, []uuid.UUID{resumeId}, repo.purged)

	for i, f := range repo.upserted {
		assert.Equal(t, uuid.NewSHA1(resumeId, []byte(strconv.Itoa(i))), f.Id)
		assert.Equal(t, i, f.SequenceIndex)
		assert.Equal(t, count, f.TotalCount)
		assert.Equal(t, participantId, f.ParticipantId)
		assert.Equal(t, constant.SourceResume, f.Source)
	}

	// Re-indexing the same resume produces the same ids.
	repo2 := &fakeFragmentRepo{}
	svc2 := NewRetrievalService(&fakeFactory{uow: &fakeUow{fragments: repo2}}, fixedEmbedder{}, 500, 5, nopLogger{})
	_, err = svc2.Index(context.Background(), participantId, resumeId, text)
	require.NoError(t, err)
	for i := range repo.upserted {
		assert.Equal(t, repo.upserted[i].Id, repo2.upserted[i].Id)
	}
}

func TestIndexEmptyTextIsNoop(t *testing.T) {
	svc, repo := newRetrievalFixture(nil)

	count, err := svc.Index(context.Background(), uuid.New(), uuid.New(), "   \n\n  ")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, repo.upserted)
}

func TestIndexUnavailableStore(t *testing.T) {
	svc := NewRetrievalService(nil, fixedEmbedder{}, 500, 5, nopLogger{})

	_, err := svc.Index(context.Background(), uuid.New(), uuid.New(), "text")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.False(t, svc.Available())
}

func TestSearchToolWithoutIdentity(t *testing.T) {
	svc, _ := newRetrievalFixture(nil)

	out := svc.SearchTool(context.Background(), nil, "tell me about go", 0)
	assert.Equal(t, constant.NoIdentityBoundMessage, out)
}

func TestSearchToolNothingFound(t *testing.T) {
	svc, _ := newRetrievalFixture(nil)
	id := ParticipantIdFor("Ada")

	out := svc.SearchTool(context.Background(), &id, "quantum basket weaving", 0)
	assert.Equal(t, constant.NothingFoundMessage, out)
}

func TestSearchToolFormatsSnippets(t *testing.T) {
	long := strings.Repeat("x", constant.RetrievalSnippetSize+50)
	results := []*contract.ScoredFragment{
		{Fragment: &entity.ResumeFragment{Text: "Short fragment."}, Similarity: 0.9},
		{Fragment: &entity.ResumeFragment{Text: long}, Similarity: 0.8},
	}
	svc, _ := newRetrievalFixture(results)
	id := ParticipantIdFor("Ada")

	out := svc.SearchTool(context.Background(), &id, "experience", 0)

	parts := strings.Split(out, "\n\n")
	require.Len(t, parts, 2)
	assert.Equal(t, "Short fragment.", parts[0])
	assert.Len(t, parts[1], constant.RetrievalSnippetSize)
}

func TestSearchToolTruncatesOnRuneBoundaries(t *testing.T) {
	long := strings.Repeat("é", constant.RetrievalSnippetSize+50)
	svc, _ := newRetrievalFixture([]*contract.ScoredFragment{
		{Fragment: &entity.ResumeFragment{Text: long}, Similarity: 0.9},
	})
	id := ParticipantIdFor("Ada")

	out := svc.SearchTool(context.Background(), &id, "experience", 0)

	assert.True(t, utf8.ValidString(out), "snippet must not end mid-rune")
	assert.Equal(t, constant.RetrievalSnippetSize, utf8.RuneCountInString(out))
}
