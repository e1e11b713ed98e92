// FILE: internal/service/feedback_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-interview-be/internal/constant"
	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/internal/session"
	"ai-interview-be/pkg/events"
	"ai-interview-be/pkg/llm"
	pkgNats "ai-interview-be/pkg/nats"

	"github.com/google/uuid"
)

type IFeedbackService interface {
	session.ReportGenerator
	GetBySessionId(ctx context.Context, sessionId string) (*dto.FeedbackReportResponse, error)
	ListByParticipant(ctx context.Context, participantId uuid.UUID) ([]*dto.FeedbackReportResponse, error)
}

type feedbackService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.Provider
	natsPub     *pkgNats.Publisher
	log         logger.ILogger
}

func NewFeedbackService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.Provider,
	natsPub *pkgNats.Publisher,
	log logger.ILogger,
) IFeedbackService {
	return &feedbackService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		natsPub:     natsPub,
		log:         log,
	}
}

// Generate renders the transcript, asks the LLM for a structured evaluation,
// parses it into sections and upserts the report keyed by session identity.
// Storage failures are wrapped in session.ErrPersistFailed so the state
// machine can re-open its exactly-once guard.
func (s *feedbackService) Generate(ctx context.Context, req session.ReportRequest) error {
	if len(req.Entries) == 0 {
		return fmt.Errorf("cannot generate feedback for empty transcript")
	}
	if s.uowFactory == nil {
		return fmt.Errorf("%w: report store not configured", session.ErrPersistFailed)
	}

	conversation := renderTranscript(req.Entries)

	jobContext := constant.NoJobDescriptionProvided
	if req.JobDescription != "" {
		jobContext = "Job Description: " + req.JobDescription
	}

	prompt := fmt.Sprintf(constant.FeedbackPromptTemplate,
		req.ParticipantName, req.Mode, jobContext, conversation)

	raw, err := s.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.5), llm.WithMaxTokens(1000))
	if err != nil {
		return fmt.Errorf("feedback generation failed: %w", err)
	}

	report := &entity.FeedbackReport{
		SessionId:       req.SessionId,
		ParticipantId:   req.ParticipantId,
		ParticipantName: req.ParticipantName,
		Mode:            req.Mode,
		RawText:         raw,
		Sections:        parseSections(raw),
		CreatedAt:       time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FeedbackReportRepository().Upsert(ctx, report); err != nil {
		return fmt.Errorf("%w: %v", session.ErrPersistFailed, err)
	}

	s.log.Info("feedback", "report persisted", map[string]interface{}{
		"session_id": req.SessionId, "sections": len(report.Sections),
	})

	if s.natsPub != nil {
		evt := events.NewSessionEvent(events.TypeFeedbackGenerated, req.SessionId, req.ParticipantName, map[string]interface{}{
			"participant_id": req.ParticipantId.String(),
		})
		if err := s.natsPub.Publish(ctx, evt); err != nil {
			s.log.Warn("feedback", "failed to publish feedback event", map[string]interface{}{
				"session_id": req.SessionId, "error": err.Error(),
			})
		}
	}

	return nil
}

func (s *feedbackService) GetBySessionId(ctx context.Context, sessionId string) (*dto.FeedbackReportResponse, error) {
	if s.uowFactory == nil {
		return nil, nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	report, err := uow.FeedbackReportRepository().FindBySessionId(ctx, sessionId)
	if err != nil || report == nil {
		return nil, err
	}
	return toFeedbackResponse(report), nil
}

func (s *feedbackService) ListByParticipant(ctx context.Context, participantId uuid.UUID) ([]*dto.FeedbackReportResponse, error) {
	if s.uowFactory == nil {
		return nil, nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	reports, err := uow.FeedbackReportRepository().FindAllByParticipant(ctx, participantId)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.FeedbackReportResponse, len(reports))
	for i, r := range reports {
		out[i] = toFeedbackResponse(r)
	}
	return out, nil
}

func toFeedbackResponse(r *entity.FeedbackReport) *dto.FeedbackReportResponse {
	return &dto.FeedbackReportResponse{
		SessionId:       r.SessionId,
		ParticipantName: r.ParticipantName,
		Mode:            r.Mode,
		RawText:         r.RawText,
		Sections:        r.Sections,
		CreatedAt:       r.CreatedAt,
	}
}

// renderTranscript flattens the transcript into role-prefixed lines.
// System entries carry no evaluative signal and are dropped.
func renderTranscript(entries []session.TranscriptEntry) string {
	var lines []string
	for _, e := range entries {
		switch e.Role {
		case constant.RoleCandidate:
			lines = append(lines, "[Candidate] "+e.Text)
		case constant.RoleInterviewer:
			lines = append(lines, "[Interviewer] "+e.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// parseSections splits the generated text on markdown headings. Lines before
// the first heading are boilerplate and discarded; everything else collects
// under the most recently seen heading.
func parseSections(raw string) map[string]string {
	sections := make(map[string]string)
	var current string
	var body []string

	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			flush()
			current = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			continue
		}
		if current != "" {
			body = append(body, line)
		}
	}
	flush()

	return sections
}
