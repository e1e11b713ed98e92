package mapper

import (
	"encoding/json"
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/model"

	"gorm.io/datatypes"
)

type FeedbackReportMapper struct{}

func NewFeedbackReportMapper() *FeedbackReportMapper {
	return &FeedbackReportMapper{}
}

func (m *FeedbackReportMapper) ToEntity(e *model.FeedbackReport) *entity.FeedbackReport {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	// Malformed stored sections degrade to an empty map, never a failed read.
	sections := map[string]string{}
	if len(e.Sections) > 0 {
		if err := json.Unmarshal(e.Sections, &sections); err != nil {
			sections = map[string]string{}
		}
	}

	return &entity.FeedbackReport{
		Id:              e.Id,
		SessionId:       e.SessionId,
		ParticipantId:   e.ParticipantId,
		ParticipantName: e.ParticipantName,
		Mode:            e.Mode,
		RawText:         e.RawText,
		Sections:        sections,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *FeedbackReportMapper) ToModel(e *entity.FeedbackReport) *model.FeedbackReport {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	var sections datatypes.JSON
	if e.Sections != nil {
		if raw, err := json.Marshal(e.Sections); err == nil {
			sections = raw
		}
	}

	return &model.FeedbackReport{
		Id:              e.Id,
		SessionId:       e.SessionId,
		ParticipantId:   e.ParticipantId,
		ParticipantName: e.ParticipantName,
		Mode:            e.Mode,
		RawText:         e.RawText,
		Sections:        sections,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *FeedbackReportMapper) ToEntities(reports []*model.FeedbackReport) []*entity.FeedbackReport {
	entities := make([]*entity.FeedbackReport, len(reports))
	for i, e := range reports {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
