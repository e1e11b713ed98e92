package session

import (
	"context"
	"time"

	"ai-interview-be/internal/constant"
	"ai-interview-be/internal/pkg/logger"
)

// ScreenClassifier decides whether shared screen content belongs to the
// interview. The classification itself is delegated; this package only tracks
// the escalation stage derived from repeated out-of-scope verdicts.
type ScreenClassifier interface {
	ClassifyScreenScope(ctx context.Context, image []byte) (bool, error)
}

type ComplianceOutcome int

const (
	ComplianceNone ComplianceOutcome = iota
	ComplianceWarned
	ComplianceFinalWarned
	ComplianceTerminated
	ComplianceReset
)

// ComplianceMonitor escalates sustained out-of-scope screen content through
// two warnings, each opening a grace window, before terminating the session.
// Returning to in-scope content at any stage resets to stage 0.
type ComplianceMonitor struct {
	state       *MonitorState
	frames      *FrameBuffer
	classifier  ScreenClassifier
	narrator    Narrator
	grace       time.Duration
	tick        time.Duration
	onTerminate func(ctx context.Context)
	log         logger.ILogger
}

func NewComplianceMonitor(
	state *MonitorState,
	frames *FrameBuffer,
	classifier ScreenClassifier,
	narrator Narrator,
	params Params,
	onTerminate func(ctx context.Context),
	log logger.ILogger,
) *ComplianceMonitor {
	return &ComplianceMonitor{
		state:       state,
		frames:      frames,
		classifier:  classifier,
		narrator:    narrator,
		grace:       params.GraceWindow,
		tick:        params.MonitorTick,
		onTerminate: onTerminate,
		log:         log,
	}
}

func (m *ComplianceMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if m.Observe(ctx, now) == ComplianceTerminated {
				return
			}
		}
	}
}

// Observe runs one evaluation step against the given clock reading.
func (m *ComplianceMonitor) Observe(ctx context.Context, now time.Time) ComplianceOutcome {
	frame := m.frames.Peek(SourceScreenShare)
	if frame == nil {
		return ComplianceNone
	}

	inScope, err := m.classifier.ClassifyScreenScope(ctx, frame.Data)
	if err != nil {
		// A failing classifier must never escalate toward termination.
		m.log.Warn("compliance_monitor", "screen classification failed", map[string]interface{}{
			"error": err.Error(),
		})
		return ComplianceNone
	}

	stage, deadline := m.state.complianceSnapshot()

	if inScope {
		if stage != 0 {
			m.state.setComplianceStage(0, time.Time{})
			return ComplianceReset
		}
		return ComplianceNone
	}

	switch stage {
	case 0:
		m.state.setComplianceStage(1, now.Add(m.grace))
		m.say(ctx, constant.ComplianceFirstWarning)
		return ComplianceWarned
	case 1:
		if now.Before(deadline) {
			return ComplianceNone
		}
		m.state.setComplianceStage(2, now.Add(m.grace))
		m.say(ctx, constant.ComplianceFinalWarning)
		return ComplianceFinalWarned
	default:
		if now.Before(deadline) {
			return ComplianceNone
		}
		m.say(ctx, constant.ComplianceTerminationMessage)
		if m.onTerminate != nil {
			m.onTerminate(ctx)
		}
		return ComplianceTerminated
	}
}

func (m *ComplianceMonitor) say(ctx context.Context, text string) {
	if err := m.narrator.Say(ctx, text); err != nil {
		m.log.Warn("compliance_monitor", "failed to deliver warning", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
