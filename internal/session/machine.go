// FILE: internal/session/machine.go
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ai-interview-be/internal/constant"
	"ai-interview-be/internal/pkg/logger"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAwaitingPreconditions Status = constant.StatusAwaitingPreconditions
	StatusActive                Status = constant.StatusActive
	StatusEnded                 Status = constant.StatusEnded
	StatusTerminated            Status = constant.StatusTerminated
)

// ErrPersistFailed marks a feedback save that demonstrably did not reach the
// store. It is the only failure that re-opens the exactly-once guard.
var ErrPersistFailed = errors.New("feedback persistence failed")

// ErrSessionClosed is returned for turns arriving after End or Terminate.
var ErrSessionClosed = errors.New("session no longer accepts turns")

// Turn is one completed participant utterance plus the freshest frame of each
// active media source, consumed at most once per turn.
type Turn struct {
	Text   string
	Frames []*MediaFrame
}

// Narrator delivers spoken output to the participant.
type Narrator interface {
	Say(ctx context.Context, text string) error
}

// Conversant produces the counterpart side of the conversation.
type Conversant interface {
	Opening(ctx context.Context, participantName string) (string, error)
	Reply(ctx context.Context, turn Turn) (string, error)
}

// ReportRequest carries everything the feedback pipeline needs.
type ReportRequest struct {
	SessionId       string
	ParticipantId   uuid.UUID
	ParticipantName string
	Mode            string
	JobDescription  string
	Entries         []TranscriptEntry
}

// ReportGenerator builds and persists the post-session feedback report.
// Implementations must wrap storage failures with ErrPersistFailed.
type ReportGenerator interface {
	Generate(ctx context.Context, req ReportRequest) error
}

type MachineConfig struct {
	Id              string
	ParticipantId   uuid.UUID
	ParticipantName string
	Mode            Mode
	Params          Params
	JobDescription  string
	Narrator        Narrator
	Conversant      Conversant
	Classifier      ScreenClassifier
	Reporter        ReportGenerator
	Logger          logger.ILogger
}

// Machine owns one session: mode gating, monitors, frame-to-turn association
// and the exactly-once feedback trigger.
type Machine struct {
	Id              string
	ParticipantId   uuid.UUID
	ParticipantName string
	Mode            Mode
	Params          Params
	JobDescription  string
	CreatedAt       time.Time

	narrator   Narrator
	conversant Conversant
	classifier ScreenClassifier
	reporter   ReportGenerator
	log        logger.ILogger

	state      *MonitorState
	frames     *FrameBuffer
	transcript *TranscriptRecorder

	mu                sync.Mutex
	status            Status
	tracks            map[SourceKind]bool
	opened            bool
	feedbackAttempted bool
	cancelMonitors    context.CancelFunc
	wg                sync.WaitGroup
}

func NewMachine(cfg MachineConfig) *Machine {
	return &Machine{
		Id:              cfg.Id,
		ParticipantId:   cfg.ParticipantId,
		ParticipantName: cfg.ParticipantName,
		Mode:            cfg.Mode,
		Params:          cfg.Params,
		JobDescription:  cfg.JobDescription,
		CreatedAt:       time.Now(),
		narrator:        cfg.Narrator,
		conversant:      cfg.Conversant,
		classifier:      cfg.Classifier,
		reporter:        cfg.Reporter,
		log:             cfg.Logger,
		state:           NewMonitorState(),
		frames:          NewFrameBuffer(),
		transcript:      NewTranscriptRecorder(),
		tracks:          make(map[SourceKind]bool),
	}
}

func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Machine) Transcript() *TranscriptRecorder { return m.transcript }
func (m *Machine) Frames() *FrameBuffer            { return m.frames }
func (m *Machine) MonitorState() *MonitorState     { return m.state }

// Start enters the initial state for the session's mode. Practice sessions
// activate immediately; assessment sessions wait for both required tracks.
func (m *Machine) Start(ctx context.Context) {
	m.mu.Lock()
	if m.status != "" {
		m.mu.Unlock()
		return
	}
	if m.Params.RequiresCamera || m.Params.RequiresScreen {
		m.status = StatusAwaitingPreconditions
		m.mu.Unlock()
		m.sayBestEffort(ctx, constant.PreconditionsReminderMessage)
		return
	}
	m.mu.Unlock()
	m.activate(ctx)
}

// TrackPublished records a newly observed media track and re-evaluates
// preconditions.
func (m *Machine) TrackPublished(ctx context.Context, kind SourceKind) {
	m.mu.Lock()
	m.tracks[kind] = true
	shouldActivate := m.status == StatusAwaitingPreconditions && m.preconditionsMetLocked()
	m.mu.Unlock()
	if shouldActivate {
		m.activate(ctx)
	}
}

func (m *Machine) TrackUnpublished(kind SourceKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tracks, kind)
}

func (m *Machine) preconditionsMetLocked() bool {
	if m.Params.RequiresCamera && !m.tracks[SourcePrimaryCamera] {
		return false
	}
	if m.Params.RequiresScreen && !m.tracks[SourceScreenShare] {
		return false
	}
	return true
}

// activate transitions to Active, starts the monitors and emits the opening
// statement exactly once.
func (m *Machine) activate(ctx context.Context) {
	m.mu.Lock()
	if m.status == StatusActive || m.status == StatusEnded || m.status == StatusTerminated {
		m.mu.Unlock()
		return
	}
	m.status = StatusActive
	alreadyOpened := m.opened
	m.opened = true

	monCtx, cancel := context.WithCancel(context.Background())
	m.cancelMonitors = cancel

	silence := NewSilenceMonitor(m.state, m.narrator, m.Params, m.log)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		silence.Run(monCtx)
	}()

	if m.Params.MonitorCompliance && m.classifier != nil {
		compliance := NewComplianceMonitor(m.state, m.frames, m.classifier, m.narrator, m.Params, m.Terminate, m.log)
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			compliance.Run(monCtx)
		}()
	}
	m.mu.Unlock()

	if alreadyOpened {
		return
	}

	opening, err := m.conversant.Opening(ctx, m.ParticipantName)
	if err != nil || opening == "" {
		if err != nil {
			m.log.Warn("session", "opening generation failed, using fallback", map[string]interface{}{
				"session_id": m.Id, "error": err.Error(),
			})
		}
		opening = constant.FallbackGreeting
	}
	m.deliverCounterpart(ctx, opening)
}

// OfferFrame publishes a frame into the single-slot buffer. Frames arriving
// after the session closed are dropped.
func (m *Machine) OfferFrame(frame *MediaFrame) {
	m.mu.Lock()
	closed := m.status == StatusEnded || m.status == StatusTerminated
	m.mu.Unlock()
	if closed {
		return
	}
	m.frames.Store(frame)
}

// ParticipantTurn processes one completed participant utterance: it records
// the turn, consumes the freshest frame per source, and forwards everything to
// the conversant. The reply is narrated and recorded before returning.
func (m *Machine) ParticipantTurn(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	if m.status != StatusActive {
		status := m.status
		m.mu.Unlock()
		return "", fmt.Errorf("%w (status %s)", ErrSessionClosed, status)
	}
	m.mu.Unlock()

	m.state.ParticipantSpeaking()
	m.transcript.Append(constant.RoleCandidate, text)

	turn := Turn{
		Text:   text,
		Frames: m.frames.TakeAll(),
	}

	reply, err := m.conversant.Reply(ctx, turn)
	if err != nil {
		m.log.Error("session", "reply generation failed", map[string]interface{}{
			"session_id": m.Id, "error": err.Error(),
		})
		// Re-arm the silence countdown so the participant is re-prompted
		// rather than left hanging.
		m.state.CounterpartFinished(time.Now())
		return "", err
	}

	m.deliverCounterpart(ctx, reply)
	return reply, nil
}

func (m *Machine) deliverCounterpart(ctx context.Context, text string) {
	m.transcript.Append(constant.RoleInterviewer, text)
	m.sayBestEffort(ctx, text)
	m.state.CounterpartFinished(time.Now())
}

// Terminate forcibly closes an assessment session. Only valid from Active;
// the compliance monitor has already narrated the termination statement.
func (m *Machine) Terminate(ctx context.Context) {
	m.mu.Lock()
	if m.status != StatusActive || m.Mode != ModeFormalAssessment {
		m.mu.Unlock()
		return
	}
	m.status = StatusTerminated
	cancel := m.cancelMonitors
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.log.Info("session", "session terminated", map[string]interface{}{"session_id": m.Id})
}

// End is called on connection teardown. It cancels all background work and,
// for assessment sessions, triggers the feedback pipeline exactly once.
func (m *Machine) End(ctx context.Context) {
	m.mu.Lock()
	alreadyEnded := m.status == StatusEnded
	m.status = StatusEnded
	cancel := m.cancelMonitors
	m.mu.Unlock()

	if !alreadyEnded {
		if cancel != nil {
			cancel()
		}
		m.wg.Wait()
	}

	// Runs on every teardown signal: the attempted flag inside makes it
	// exactly-once, and a persist failure re-opens it for the next signal.
	if m.Params.GenerateFeedback {
		m.generateFeedbackOnce(ctx)
	}
}

func (m *Machine) generateFeedbackOnce(ctx context.Context) {
	m.mu.Lock()
	if m.feedbackAttempted {
		m.mu.Unlock()
		return
	}
	m.feedbackAttempted = true
	m.mu.Unlock()

	entries := m.transcript.Entries()
	if len(entries) == 0 {
		m.log.Warn("session", "skipping feedback for empty transcript", map[string]interface{}{
			"session_id": m.Id,
		})
		return
	}

	err := m.reporter.Generate(ctx, ReportRequest{
		SessionId:       m.Id,
		ParticipantId:   m.ParticipantId,
		ParticipantName: m.ParticipantName,
		Mode:            string(m.Mode),
		JobDescription:  m.JobDescription,
		Entries:         entries,
	})
	if err != nil {
		m.log.Error("session", "feedback generation failed", map[string]interface{}{
			"session_id": m.Id, "error": err.Error(),
		})
		if errors.Is(err, ErrPersistFailed) {
			// The report never reached the store; allow a duplicate teardown
			// signal to retry.
			m.mu.Lock()
			m.feedbackAttempted = false
			m.mu.Unlock()
		}
		m.sayBestEffort(ctx, constant.FeedbackUnavailableMessage)
		return
	}

	// Best-effort verbal summary; a delivery failure must not undo the save.
	m.sayBestEffort(ctx, fmt.Sprintf(constant.FeedbackReadySummaryTemplate, m.ParticipantName))
}

func (m *Machine) sayBestEffort(ctx context.Context, text string) {
	if err := m.narrator.Say(ctx, text); err != nil {
		m.log.Warn("session", "narration delivery failed", map[string]interface{}{
			"session_id": m.Id, "error": err.Error(),
		})
	}
}
