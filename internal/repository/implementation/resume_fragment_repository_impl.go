package implementation

import (
	"context"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/mapper"
	"ai-interview-be/internal/model"
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResumeFragmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ResumeFragmentMapper
}

func NewResumeFragmentRepository(db *gorm.DB) contract.ResumeFragmentRepository {
	return &ResumeFragmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewResumeFragmentMapper(),
	}
}

func (r *ResumeFragmentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ResumeFragmentRepositoryImpl) Upsert(ctx context.Context, fragments []*entity.ResumeFragment) error {
	if len(fragments) == 0 {
		return nil
	}
	models := make([]*model.ResumeFragment, len(fragments))
	for i, e := range fragments {
		models[i] = r.mapper.ToModel(e)
	}

	// Fragment ids repeat across re-index runs; replace the row in place.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(models).Error
	if err != nil {
		return err
	}

	for i, m := range models {
		*fragments[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ResumeFragmentRepositoryImpl) DeleteByResumeId(ctx context.Context, resumeId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("resume_id = ?", resumeId).Delete(&model.ResumeFragment{}).Error
}

func (r *ResumeFragmentRepositoryImpl) DeleteAllByParticipantIdUnscoped(ctx context.Context, participantId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("participant_id = ?", participantId).Delete(&model.ResumeFragment{}).Error
}

func (r *ResumeFragmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResumeFragment, error) {
	var models []*model.ResumeFragment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ResumeFragmentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ResumeFragment{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore returns fragments with similarity scores, filtered by threshold
func (r *ResumeFragmentRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, participantId uuid.UUID, source string, threshold float64) ([]*contract.ScoredFragment, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.ResumeFragment
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("resume_fragments").
		Select("resume_fragments.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("participant_id = ?", participantId).
		Where("source = ?", source).
		Where("deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredFragment, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredFragment{
			Fragment:   r.mapper.ToEntity(&res.ResumeFragment),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
