package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-interview-be/internal/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClassifier returns queued verdicts in order, repeating the last one.
type scriptedClassifier struct {
	mu       sync.Mutex
	verdicts []bool
	errs     []error
}

func (c *scriptedClassifier) ClassifyScreenScope(_ context.Context, _ []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]
		if err != nil {
			return false, err
		}
	}
	verdict := c.verdicts[0]
	if len(c.verdicts) > 1 {
		c.verdicts = c.verdicts[1:]
	}
	return verdict, nil
}

type complianceFixture struct {
	monitor    *ComplianceMonitor
	frames     *FrameBuffer
	narrator   *recordingNarrator
	terminated int
}

func newComplianceFixture(classifier ScreenClassifier) *complianceFixture {
	f := &complianceFixture{
		frames:   NewFrameBuffer(),
		narrator: &recordingNarrator{},
	}
	params := Params{GraceWindow: 10 * time.Second, MonitorTick: time.Second}
	f.monitor = NewComplianceMonitor(
		NewMonitorState(), f.frames, classifier, f.narrator, params,
		func(context.Context) { f.terminated++ },
		nopLogger{},
	)
	f.frames.Store(&MediaFrame{Kind: SourceScreenShare, Data: []byte("shot")})
	return f
}

func TestComplianceNoFrameNoEscalation(t *testing.T) {
	f := newComplianceFixture(&scriptedClassifier{verdicts: []bool{false}})
	f.frames.Take(SourceScreenShare) // empty the slot

	assert.Equal(t, ComplianceNone, f.monitor.Observe(context.Background(), time.Now()))
	assert.Empty(t, f.narrator.Lines())
}

func TestComplianceFullEscalationTimeline(t *testing.T) {
	f := newComplianceFixture(&scriptedClassifier{verdicts: []bool{false}})
	ctx := context.Background()
	base := time.Now()

	// First out-of-scope observation warns immediately and opens a 10s window.
	assert.Equal(t, ComplianceWarned, f.monitor.Observe(ctx, base))

	// Still inside the window: nothing new happens.
	assert.Equal(t, ComplianceNone, f.monitor.Observe(ctx, base.Add(5*time.Second)))
	assert.Equal(t, ComplianceNone, f.monitor.Observe(ctx, base.Add(9*time.Second)))

	// Window expired: final warning, second 10s window.
	assert.Equal(t, ComplianceFinalWarned, f.monitor.Observe(ctx, base.Add(10*time.Second)))
	assert.Equal(t, ComplianceNone, f.monitor.Observe(ctx, base.Add(15*time.Second)))

	// Second window expired: termination.
	assert.Equal(t, ComplianceTerminated, f.monitor.Observe(ctx, base.Add(20*time.Second)))
	assert.Equal(t, 1, f.terminated)

	require.Equal(t, []string{
		constant.ComplianceFirstWarning,
		constant.ComplianceFinalWarning,
		constant.ComplianceTerminationMessage,
	}, f.narrator.Lines())
}

func TestComplianceResetOnReturnToScope(t *testing.T) {
	classifier := &scriptedClassifier{verdicts: []bool{false, false, true, false}}
	f := newComplianceFixture(classifier)
	ctx := context.Background()
	base := time.Now()

	assert.Equal(t, ComplianceWarned, f.monitor.Observe(ctx, base))
	assert.Equal(t, ComplianceFinalWarned, f.monitor.Observe(ctx, base.Add(10*time.Second)))

	// Back in scope mid stage-2 window: full reset, no termination at 20s.
	assert.Equal(t, ComplianceReset, f.monitor.Observe(ctx, base.Add(15*time.Second)))

	// Out of scope again: the escalation starts over from the first warning.
	assert.Equal(t, ComplianceWarned, f.monitor.Observe(ctx, base.Add(20*time.Second)))
	assert.Equal(t, 0, f.terminated)
}

func TestComplianceInScopeStaysQuiet(t *testing.T) {
	f := newComplianceFixture(&scriptedClassifier{verdicts: []bool{true}})
	ctx := context.Background()
	base := time.Now()

	for s := 0; s < 30; s++ {
		assert.Equal(t, ComplianceNone, f.monitor.Observe(ctx, base.Add(time.Duration(s)*time.Second)))
	}
	assert.Empty(t, f.narrator.Lines())
}

func TestComplianceClassifierFailureNeverEscalates(t *testing.T) {
	classifier := &scriptedClassifier{
		verdicts: []bool{false},
		errs:     []error{errors.New("vision timeout"), errors.New("vision timeout")},
	}
	f := newComplianceFixture(classifier)
	ctx := context.Background()
	base := time.Now()

	assert.Equal(t, ComplianceNone, f.monitor.Observe(ctx, base))
	assert.Equal(t, ComplianceNone, f.monitor.Observe(ctx, base.Add(time.Second)))

	// Once the classifier recovers, escalation starts from stage 0.
	assert.Equal(t, ComplianceWarned, f.monitor.Observe(ctx, base.Add(2*time.Second)))
	assert.Equal(t, []string{constant.ComplianceFirstWarning}, f.narrator.Lines())
}

func TestCompliancePeeksWithoutConsuming(t *testing.T) {
	f := newComplianceFixture(&scriptedClassifier{verdicts: []bool{false}})

	f.monitor.Observe(context.Background(), time.Now())

	// The observation must leave the frame for turn association.
	frame := f.frames.Take(SourceScreenShare)
	require.NotNil(t, frame)
	assert.Equal(t, []byte("shot"), frame.Data)
}
