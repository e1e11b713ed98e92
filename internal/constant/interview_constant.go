package constant

// Session modes. The mode decides preconditions, compliance monitoring and
// whether a feedback report is produced at the end.
const (
	ModeCoachedPractice  = "coached-practice"
	ModeFormalAssessment = "formal-assessment"
)

// Session statuses.
const (
	StatusAwaitingPreconditions = "awaiting_preconditions"
	StatusActive                = "active"
	StatusEnded                 = "ended"
	StatusTerminated            = "terminated"
)

// Transcript roles.
const (
	RoleCandidate   = "user"
	RoleInterviewer = "assistant"
	RoleSystem      = "system"
)

// Fragment source categories.
const (
	SourceResume = "resume"
)

// Media source kinds published into a session.
const (
	SourcePrimaryCamera = "primary-camera"
	SourceScreenShare   = "screen-share"
)

// Retrieval defaults. The narrow top-K serves automatic context injection,
// which wants only the closest matches; the tool surface defaults to the
// wider cut.
const (
	EmbeddingDimensions  = 768
	RetrievalTopK        = 5
	RetrievalNarrowTopK  = 3
	RetrievalSnippetSize = 300
)
