package session

import (
	"sync"
	"time"
)

// MonitorState is the per-session mutable state shared between the turn flow
// and the background monitors. All access goes through the methods below;
// none of the fields require more than simple read-modify-write under the lock.
type MonitorState struct {
	mu              sync.Mutex
	lastSpeechAt    time.Time
	speaking        bool
	escalating      bool
	complianceStage int
	stageDeadline   time.Time
}

func NewMonitorState() *MonitorState {
	return &MonitorState{}
}

// CounterpartFinished marks the end of a counterpart utterance: the silence
// countdown starts now, aimed at the participant.
func (s *MonitorState) CounterpartFinished(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSpeechAt = now
	s.speaking = false
}

// ParticipantSpeaking suspends the silence countdown while the participant
// holds the floor.
func (s *MonitorState) ParticipantSpeaking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speaking = true
	s.lastSpeechAt = time.Time{}
}

// beginSilenceEscalation reports whether a silence prompt is due and, if so,
// claims the single in-flight escalation slot.
func (s *MonitorState) beginSilenceEscalation(now time.Time, threshold time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.speaking || s.escalating || s.lastSpeechAt.IsZero() {
		return false
	}
	if now.Sub(s.lastSpeechAt) < threshold {
		return false
	}
	s.escalating = true
	return true
}

// finishSilenceEscalation re-arms the countdown so the next prompt is a full
// threshold away, and releases the in-flight slot.
func (s *MonitorState) finishSilenceEscalation(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSpeechAt = now
	s.escalating = false
}

func (s *MonitorState) complianceSnapshot() (stage int, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complianceStage, s.stageDeadline
}

func (s *MonitorState) setComplianceStage(stage int, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complianceStage = stage
	s.stageDeadline = deadline
}
