package implementation

import (
	"context"
	"errors"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/mapper"
	"ai-interview-be/internal/model"
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedbackReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeedbackReportMapper
}

func NewFeedbackReportRepository(db *gorm.DB) contract.FeedbackReportRepository {
	return &FeedbackReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeedbackReportMapper(),
	}
}

func (r *FeedbackReportRepositoryImpl) Upsert(ctx context.Context, report *entity.FeedbackReport) error {
	m := r.mapper.ToModel(report)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}

	// session_id carries a unique index; a duplicate end-of-session signal
	// replaces the existing row instead of creating a second one.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"raw_text", "sections", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	*report = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeedbackReportRepositoryImpl) FindBySessionId(ctx context.Context, sessionId string) (*entity.FeedbackReport, error) {
	var m model.FeedbackReport
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FeedbackReportRepositoryImpl) FindAllByParticipant(ctx context.Context, participantId uuid.UUID) ([]*entity.FeedbackReport, error) {
	var models []*model.FeedbackReport
	err := r.db.WithContext(ctx).
		Scopes(scope.OrderByCreatedDesc).
		Where("participant_id = ?", participantId).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
