package session

import (
	"time"

	"ai-interview-be/internal/constant"
)

// Mode selects the behavioral contract of a session.
type Mode string

const (
	ModeCoachedPractice  Mode = constant.ModeCoachedPractice
	ModeFormalAssessment Mode = constant.ModeFormalAssessment
)

func (m Mode) Valid() bool {
	return m == ModeCoachedPractice || m == ModeFormalAssessment
}

// Params are the structured knobs a mode carries. The persona text that goes
// with a mode is an opaque prompt payload, not part of these parameters.
type Params struct {
	RequiresCamera    bool
	RequiresScreen    bool
	MonitorCompliance bool
	GenerateFeedback  bool
	SilentRetrieval   bool
	SilenceThreshold  time.Duration
	GraceWindow       time.Duration
	MonitorTick       time.Duration
}

// ParamsFor returns the default parameters for a mode. Callers may override
// the timing fields from configuration before starting the machine.
func ParamsFor(mode Mode) Params {
	p := Params{
		SilenceThreshold: 5 * time.Second,
		GraceWindow:      10 * time.Second,
		MonitorTick:      time.Second,
	}
	if mode == ModeFormalAssessment {
		p.RequiresCamera = true
		p.RequiresScreen = true
		p.MonitorCompliance = true
		p.GenerateFeedback = true
		p.SilentRetrieval = true
	}
	return p
}
