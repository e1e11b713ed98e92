package events

import "time"

// Session lifecycle event codes published to the bus.
const (
	TypeSessionStarted     = "SESSION_STARTED"
	TypeSessionEnded       = "SESSION_ENDED"
	TypeSessionTerminated  = "SESSION_TERMINATED"
	TypeFeedbackGenerated  = "FEEDBACK_GENERATED"
	TypeResumeIndexed      = "RESUME_INDEXED"
	TypeResumeIndexFailure = "RESUME_INDEX_FAILED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_ENDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewSessionEvent builds a lifecycle event carrying the session identity plus
// any extra payload fields.
func NewSessionEvent(eventType, sessionId, participantName string, extra map[string]interface{}) Event {
	data := map[string]interface{}{
		"session_id":       sessionId,
		"participant_name": participantName,
	}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
