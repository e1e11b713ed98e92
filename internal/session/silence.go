package session

import (
	"context"
	"time"

	"ai-interview-be/internal/constant"
	"ai-interview-be/internal/pkg/logger"
)

// SilenceMonitor watches the gap since the counterpart last finished speaking
// and prompts the participant when it crosses the threshold. Prompts never
// overlap: one escalation is in flight at a time, and each prompt re-arms the
// countdown so the next one is a full threshold away.
type SilenceMonitor struct {
	state     *MonitorState
	narrator  Narrator
	threshold time.Duration
	tick      time.Duration
	log       logger.ILogger
}

func NewSilenceMonitor(state *MonitorState, narrator Narrator, params Params, log logger.ILogger) *SilenceMonitor {
	return &SilenceMonitor{
		state:     state,
		narrator:  narrator,
		threshold: params.SilenceThreshold,
		tick:      params.MonitorTick,
		log:       log,
	}
}

func (m *SilenceMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Check(ctx, now)
		}
	}
}

// Check runs one evaluation step against the given clock reading and reports
// whether a prompt was emitted.
func (m *SilenceMonitor) Check(ctx context.Context, now time.Time) bool {
	if !m.state.beginSilenceEscalation(now, m.threshold) {
		return false
	}
	if err := m.narrator.Say(ctx, constant.SilencePromptMessage); err != nil {
		m.log.Warn("silence_monitor", "failed to deliver silence prompt", map[string]interface{}{
			"error": err.Error(),
		})
	}
	m.state.finishSilenceEscalation(now)
	return true
}
