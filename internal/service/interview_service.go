// FILE: internal/service/interview_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-interview-be/internal/config"
	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/repository/memory"
	"ai-interview-be/internal/session"
	"ai-interview-be/pkg/events"
	"ai-interview-be/pkg/llm"
	pkgNats "ai-interview-be/pkg/nats"
	"ai-interview-be/pkg/vision"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type IInterviewService interface {
	CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	// Attach binds the websocket transport to a created session and starts
	// its state machine. A session can be attached at most once.
	Attach(ctx context.Context, sessionId string, narrator session.Narrator) (*session.Machine, error)
	GetSession(sessionId string) (*dto.SessionStatusResponse, error)
	// ListSessions returns the live sessions belonging to one participant.
	ListSessions(participantName string) []*dto.SessionStatusResponse
	EndSession(ctx context.Context, sessionId string)
	UploadResume(ctx context.Context, req dto.UploadResumeRequest) (*dto.UploadResumeResponse, error)
}

// sessionSpec is a created-but-not-yet-attached session.
type sessionSpec struct {
	Mode            session.Mode
	ParticipantName string
	JobDescription  string
	Email           string
}

type interviewService struct {
	cfg       *config.Config
	registry  *memory.SessionRegistry
	pending   *memory.PendingResumeStore
	specs     *cache.Cache
	publisher IPublisherService
	retrieval IRetrievalService
	feedback  IFeedbackService

	llmProvider   llm.Provider
	visionAnalyst vision.Analyzer
	natsPub       *pkgNats.Publisher
	log           logger.ILogger
}

func NewInterviewService(
	cfg *config.Config,
	registry *memory.SessionRegistry,
	pending *memory.PendingResumeStore,
	publisher IPublisherService,
	retrieval IRetrievalService,
	feedback IFeedbackService,
	llmProvider llm.Provider,
	visionAnalyst vision.Analyzer,
	natsPub *pkgNats.Publisher,
	log logger.ILogger,
) IInterviewService {
	return &interviewService{
		cfg:           cfg,
		registry:      registry,
		pending:       pending,
		specs:         cache.New(cfg.Interview.SessionTokenTTL, 10*time.Minute),
		publisher:     publisher,
		retrieval:     retrieval,
		feedback:      feedback,
		llmProvider:   llmProvider,
		visionAnalyst: visionAnalyst,
		natsPub:       natsPub,
		log:           log,
	}
}

func (s *interviewService) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	mode := session.Mode(req.Mode)
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown session mode: %s", req.Mode)
	}

	sessionId := uuid.NewString()
	token, err := serverutils.IssueSessionToken(sessionId, req.ParticipantName, s.cfg.Interview.SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.specs.Set(sessionId, &sessionSpec{
		Mode:            mode,
		ParticipantName: req.ParticipantName,
		JobDescription:  req.JobDescription,
		Email:           req.Email,
	}, cache.DefaultExpiration)

	s.log.Info("interview", "session created", map[string]interface{}{
		"session_id": sessionId, "mode": req.Mode, "participant": req.ParticipantName,
	})

	return &dto.CreateSessionResponse{
		SessionId:       sessionId,
		Token:           token,
		Mode:            req.Mode,
		ParticipantName: req.ParticipantName,
	}, nil
}

func (s *interviewService) Attach(ctx context.Context, sessionId string, narrator session.Narrator) (*session.Machine, error) {
	if _, exists := s.registry.Get(sessionId); exists {
		return nil, fmt.Errorf("session %s already attached", sessionId)
	}

	raw, found := s.specs.Get(sessionId)
	if !found {
		return nil, fmt.Errorf("session %s not found or expired", sessionId)
	}
	spec := raw.(*sessionSpec)

	params := session.ParamsFor(spec.Mode)
	params.SilenceThreshold = s.cfg.Interview.SilenceThreshold
	params.GraceWindow = s.cfg.Interview.GraceWindow
	params.MonitorTick = s.cfg.Interview.MonitorTick

	participantId := ParticipantIdFor(spec.ParticipantName)

	conversant := NewConversant(
		s.llmProvider,
		s.retrieval,
		s.visionAnalyst,
		&participantId,
		spec.ParticipantName,
		params,
		spec.JobDescription,
		s.log,
	)

	var classifier session.ScreenClassifier
	if s.visionAnalyst != nil {
		classifier = s.visionAnalyst
	}

	machine := session.NewMachine(session.MachineConfig{
		Id:              sessionId,
		ParticipantId:   participantId,
		ParticipantName: spec.ParticipantName,
		Mode:            spec.Mode,
		Params:          params,
		JobDescription:  spec.JobDescription,
		Narrator:        narrator,
		Conversant:      conversant,
		Classifier:      classifier,
		Reporter:        s.feedback,
		Logger:          s.log,
	})

	s.registry.Save(machine)
	s.specs.Delete(sessionId)

	machine.Start(ctx)

	s.announce(ctx, events.TypeSessionStarted, machine, map[string]interface{}{
		"mode": string(spec.Mode), "email": spec.Email,
	})

	return machine, nil
}

func (s *interviewService) GetSession(sessionId string) (*dto.SessionStatusResponse, error) {
	machine, found := s.registry.Get(sessionId)
	if !found {
		return nil, fmt.Errorf("session %s not found", sessionId)
	}
	return toSessionStatus(machine), nil
}

func (s *interviewService) ListSessions(participantName string) []*dto.SessionStatusResponse {
	out := []*dto.SessionStatusResponse{}
	for _, m := range s.registry.Items() {
		if m.ParticipantName != participantName {
			continue
		}
		out = append(out, toSessionStatus(m))
	}
	return out
}

// EndSession tears the session down: cancels its background tasks, triggers
// the feedback pipeline (assessment mode) and discards the live state.
func (s *interviewService) EndSession(ctx context.Context, sessionId string) {
	machine, found := s.registry.Get(sessionId)
	if !found {
		return
	}

	terminated := machine.Status() == session.StatusTerminated
	machine.End(ctx)
	s.registry.Delete(sessionId)

	eventType := events.TypeSessionEnded
	if terminated {
		eventType = events.TypeSessionTerminated
	}
	s.announce(ctx, eventType, machine, map[string]interface{}{
		"transcript_len": machine.Transcript().Len(),
	})
}

func (s *interviewService) UploadResume(ctx context.Context, req dto.UploadResumeRequest) (*dto.UploadResumeResponse, error) {
	if !s.retrieval.Available() {
		return nil, ErrStoreUnavailable
	}

	resumeId := uuid.NewString()
	s.pending.Put(req.ParticipantName, &memory.PendingResume{
		ResumeId:        resumeId,
		ParticipantName: req.ParticipantName,
		Text:            req.Text,
		UploadedAt:      time.Now(),
	})

	payload, err := json.Marshal(dto.PublishIndexResumeMessage{
		ResumeId:        resumeId,
		ParticipantName: req.ParticipantName,
	})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.pending.Remove(req.ParticipantName)
		return nil, fmt.Errorf("failed to enqueue indexing job: %w", err)
	}

	s.log.Info("interview", "resume upload accepted", map[string]interface{}{
		"resume_id": resumeId, "participant": req.ParticipantName, "chars": len(req.Text),
	})

	return &dto.UploadResumeResponse{
		ResumeId:        resumeId,
		ParticipantName: req.ParticipantName,
		Status:          "indexing",
	}, nil
}

func (s *interviewService) announce(ctx context.Context, eventType string, machine *session.Machine, extra map[string]interface{}) {
	if s.natsPub == nil {
		return
	}
	evt := events.NewSessionEvent(eventType, machine.Id, machine.ParticipantName, extra)
	if err := s.natsPub.Publish(ctx, evt); err != nil {
		s.log.Warn("interview", "failed to publish session event", map[string]interface{}{
			"session_id": machine.Id, "event": eventType, "error": err.Error(),
		})
	}
}

func toSessionStatus(m *session.Machine) *dto.SessionStatusResponse {
	return &dto.SessionStatusResponse{
		SessionId:       m.Id,
		ParticipantName: m.ParticipantName,
		Mode:            string(m.Mode),
		Status:          string(m.Status()),
		TranscriptLen:   m.Transcript().Len(),
		CreatedAt:       m.CreatedAt,
	}
}
