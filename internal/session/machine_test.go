package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-interview-be/internal/constant"

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

type recordingNarrator struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (n *recordingNarrator) Say(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.lines = append(n.lines, text)
	return nil
}

func (n *recordingNarrator) Lines() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.lines))
	copy(out, n.lines)
	return out
}

type stubConversant struct {
	mu         sync.Mutex
	opening    string
	openingErr error
	replyErr   error
	turns      []Turn
}

func (c *stubConversant) Opening(_ context.Context, _ string) (string, error) {
	return c.opening, c.openingErr
}

func (c *stubConversant) Reply(_ context.Context, turn Turn) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, turn)
	if c.replyErr != nil {
		return "", c.replyErr
	}
	return fmt.Sprintf("reply %d", len(c.turns)), nil
}

func (c *stubConversant) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

type stubReporter struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (r *stubReporter) Generate(_ context.Context, _ ReportRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		return err
	}
	return nil
}

func (r *stubReporter) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func testParams(mode Mode) Params {
	p := ParamsFor(mode)
	// Long tick keeps the background monitors quiet for the test's duration.
	p.MonitorTick = time.Hour
	return p
}

func newTestMachine(mode Mode, narrator *recordingNarrator, conversant *stubConversant, reporter *stubReporter) *Machine {
	return NewMachine(MachineConfig{
		Id:              "sess-1",
		ParticipantId:   uuid.New(),
		ParticipantName: "Ava",
		Mode:            mode,
		Params:          testParams(mode),
		Narrator:        narrator,
		Conversant:      conversant,
		Reporter:        reporter,
		Logger:          nopLogger{},
	})
}

func TestPracticeSessionActivatesImmediately(t *testing.T) {
	narrator := &recordingNarrator{}
	conversant := &stubConversant{opening: "welcome"}
	m := newTestMachine(ModeCoachedPractice, narrator, conversant, &stubReporter{})

	m.Start(context.Background())

	assert.Equal(t, StatusActive, m.Status())
	require.Equal(t, []string{"welcome"}, narrator.Lines())

	entries := m.Transcript().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, constant.RoleInterviewer, entries[0].Role)
	assert.Equal(t, "welcome", entries[0].Text)
}

func TestAssessmentWaitsForBothTracks(t *testing.T) {
	narrator := &recordingNarrator{}
	conversant := &stubConversant{opening: "welcome"}
	m := newTestMachine(ModeFormalAssessment, narrator, conversant, &stubReporter{})
	ctx := context.Background()

	m.Start(ctx)
	assert.Equal(t, StatusAwaitingPreconditions, m.Status())
	assert.Equal(t, []string{constant.PreconditionsReminderMessage}, narrator.Lines())

	m.TrackPublished(ctx, SourcePrimaryCamera)
	assert.Equal(t, StatusAwaitingPreconditions, m.Status(), "camera alone must not activate")

	m.TrackPublished(ctx, SourceScreenShare)
	assert.Equal(t, StatusActive, m.Status())
	assert.Contains(t, narrator.Lines(), "welcome")

	m.End(ctx)
}

func TestOpeningFallbackOnConversantError(t *testing.T) {
	narrator := &recordingNarrator{}
	conversant := &stubConversant{openingErr: errors.New("model down")}
	m := newTestMachine(ModeCoachedPractice, narrator, conversant, &stubReporter{})

	m.Start(context.Background())

	require.Equal(t, []string{constant.FallbackGreeting}, narrator.Lines())
}

func TestTurnRejectedBeforeActivation(t *testing.T) {
	narrator := &recordingNarrator{}
	m := newTestMachine(ModeFormalAssessment, narrator, &stubConversant{opening: "hi"}, &stubReporter{})

	m.Start(context.Background())
	_, err := m.ParticipantTurn(context.Background(), "hello?")
	require.ErrorIs(t, err, ErrSessionClosed)
	assert.Equal(t, 0, m.Transcript().Len(), "rejected turns must not reach the transcript")
}

func TestTurnConsumesFramesAtMostOnce(t *testing.T) {
	narrator := &recordingNarrator{}
	conversant := &stubConversant{opening: "hi"}
	m := newTestMachine(ModeCoachedPractice, narrator, conversant, &stubReporter{})
	ctx := context.Background()
	m.Start(ctx)

	m.OfferFrame(&MediaFrame{Kind: SourcePrimaryCamera, Data: []byte("cam-old")})
	m.OfferFrame(&MediaFrame{Kind: SourcePrimaryCamera, Data: []byte("cam-new")})
	m.OfferFrame(&MediaFrame{Kind: SourceScreenShare, Data: []byte("scr")})

	reply, err := m.ParticipantTurn(ctx, "first answer")
	require.NoError(t, err)
	assert.Equal(t, "reply 1", reply)

	turns := conversant.Turns()
	require.Len(t, turns, 1)
	require.Len(t, turns[0].Frames, 2, "one frame per source, freshest only")
	assert.Equal(t, []byte("cam-new"), turns[0].Frames[0].Data)
	assert.Equal(t, []byte("scr"), turns[0].Frames[1].Data)

	_, err = m.ParticipantTurn(ctx, "second answer")
	require.NoError(t, err)
	turns = conversant.Turns()
	require.Len(t, turns, 2)
	assert.Empty(t, turns[1].Frames, "frames were already consumed by the first turn")

	entries := m.Transcript().Entries()
	require.Len(t, entries, 5) // opening + 2x(user, assistant)
	assert.Equal(t, constant.RoleCandidate, entries[1].Role)
	assert.Equal(t, "first answer", entries[1].Text)
}

func TestReplyFailureKeepsTranscriptAndRearmsSilence(t *testing.T) {
	narrator := &recordingNarrator{}
	conversant := &stubConversant{opening: "hi", replyErr: errors.New("model down")}
	m := newTestMachine(ModeCoachedPractice, narrator, conversant, &stubReporter{})
	ctx := context.Background()
	m.Start(ctx)

	_, err := m.ParticipantTurn(ctx, "answer")
	require.Error(t, err)

	entries := m.Transcript().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, constant.RoleCandidate, entries[1].Role)

	// The countdown was re-armed, so a later check past the threshold prompts.
	due := m.MonitorState().beginSilenceEscalation(time.Now().Add(6*time.Second), 5*time.Second)
	assert.True(t, due)
}

func TestFramesDroppedAfterEnd(t *testing.T) {
	narrator := &recordingNarrator{}
	m := newTestMachine(ModeCoachedPractice, narrator, &stubConversant{opening: "hi"}, &stubReporter{})
	ctx := context.Background()
	m.Start(ctx)
	m.End(ctx)

	m.OfferFrame(&MediaFrame{Kind: SourcePrimaryCamera, Data: []byte("late")})
	assert.Nil(t, m.Frames().Peek(SourcePrimaryCamera))
}

func TestTerminateOnlyInAssessment(t *testing.T) {
	narrator := &recordingNarrator{}
	m := newTestMachine(ModeCoachedPractice, narrator, &stubConversant{opening: "hi"}, &stubReporter{})
	ctx := context.Background()
	m.Start(ctx)

	m.Terminate(ctx)
	assert.Equal(t, StatusActive, m.Status(), "practice sessions cannot be terminated")
}

func TestTerminateClosesAssessment(t *testing.T) {
	narrator := &recordingNarrator{}
	conversant := &stubConversant{opening: "hi"}
	m := newTestMachine(ModeFormalAssessment, narrator, conversant, &stubReporter{})
	ctx := context.Background()
	m.Start(ctx)
	m.TrackPublished(ctx, SourcePrimaryCamera)
	m.TrackPublished(ctx, SourceScreenShare)
	require.Equal(t, StatusActive, m.Status())

	m.Terminate(ctx)
	assert.Equal(t, StatusTerminated, m.Status())

	_, err := m.ParticipantTurn(ctx, "still there?")
	require.ErrorIs(t, err, ErrSessionClosed)

	m.End(ctx)
	assert.Equal(t, StatusEnded, m.Status())
}

func TestFeedbackGeneratedExactlyOnce(t *testing.T) {
	narrator := &recordingNarrator{}
	conversant := &stubConversant{opening: "hi"}
	reporter := &stubReporter{}
	m := newTestMachine(ModeFormalAssessment, narrator, conversant, reporter)
	ctx := context.Background()
	m.Start(ctx)
	m.TrackPublished(ctx, SourcePrimaryCamera)
	m.TrackPublished(ctx, SourceScreenShare)
	_, err := m.ParticipantTurn(ctx, "my answer")
	require.NoError(t, err)

	m.End(ctx)
	m.End(ctx)
	assert.Equal(t, 1, reporter.Calls())
	assert.Contains(t, narrator.Lines(), fmt.Sprintf(constant.FeedbackReadySummaryTemplate, "Ava"))
}

func TestFeedbackRetriedAfterPersistFailure(t *testing.T) {
	narrator := &recordingNarrator{}
	conversant := &stubConversant{opening: "hi"}
	reporter := &stubReporter{errs: []error{fmt.Errorf("%w: connection refused", ErrPersistFailed)}}
	m := newTestMachine(ModeFormalAssessment, narrator, conversant, reporter)
	ctx := context.Background()
	m.Start(ctx)
	m.TrackPublished(ctx, SourcePrimaryCamera)
	m.TrackPublished(ctx, SourceScreenShare)
	_, err := m.ParticipantTurn(ctx, "my answer")
	require.NoError(t, err)

	m.End(ctx)
	assert.Equal(t, 1, reporter.Calls())
	assert.Contains(t, narrator.Lines(), constant.FeedbackUnavailableMessage)

	// The save never landed, so a duplicate teardown signal retries it.
	m.End(ctx)
	assert.Equal(t, 2, reporter.Calls())

	// Once persisted, further signals are no-ops.
	m.End(ctx)
	assert.Equal(t, 2, reporter.Calls())
}

func TestFeedbackNotRetriedAfterNonPersistFailure(t *testing.T) {
	narrator := &recordingNarrator{}
	conversant := &stubConversant{opening: "hi"}
	reporter := &stubReporter{errs: []error{errors.New("llm timeout")}}
	m := newTestMachine(ModeFormalAssessment, narrator, conversant, reporter)
	ctx := context.Background()
	m.Start(ctx)
	m.TrackPublished(ctx, SourcePrimaryCamera)
	m.TrackPublished(ctx, SourceScreenShare)
	_, err := m.ParticipantTurn(ctx, "my answer")
	require.NoError(t, err)

	m.End(ctx)
	m.End(ctx)
	assert.Equal(t, 1, reporter.Calls(), "ambiguous failures must not risk a duplicate report")
}

func TestFeedbackSkippedForEmptyTranscript(t *testing.T) {
	narrator := &recordingNarrator{}
	reporter := &stubReporter{}
	m := NewMachine(MachineConfig{
		Id:              "sess-2",
		ParticipantId:   uuid.New(),
		ParticipantName: "Ava",
		Mode:            ModeFormalAssessment,
		Params:          testParams(ModeFormalAssessment),
		Narrator:        narrator,
		Conversant:      &stubConversant{opening: "hi"},
		Reporter:        reporter,
		Logger:          nopLogger{},
	})
	ctx := context.Background()
	m.Start(ctx)
	// Preconditions never met, transcript stays empty.

	m.End(ctx)
	m.End(ctx)
	assert.Equal(t, 0, reporter.Calls())
}

func TestNoFeedbackForPracticeMode(t *testing.T) {
	narrator := &recordingNarrator{}
	reporter := &stubReporter{}
	m := newTestMachine(ModeCoachedPractice, narrator, &stubConversant{opening: "hi"}, reporter)
	ctx := context.Background()
	m.Start(ctx)
	_, err := m.ParticipantTurn(ctx, "answer")
	require.NoError(t, err)

	m.End(ctx)
	assert.Equal(t, 0, reporter.Calls())
}
