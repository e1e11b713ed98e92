package vision

import "context"

// Analyzer inspects raw frame images from a session's media tracks.
// Classification accuracy is owned by the generative backend, not by callers;
// results should be treated as advisory observations.
type Analyzer interface {
	// DescribeBodyLanguage returns short coaching remarks for a camera frame.
	DescribeBodyLanguage(ctx context.Context, image []byte) (string, error)

	// ReviewScreenContent returns short remarks about code visible on a
	// screen-share frame.
	ReviewScreenContent(ctx context.Context, image []byte) (string, error)

	// ClassifyScreenScope reports whether a screen-share frame shows content
	// that belongs to the interview (an editor, a coding environment) or
	// something unrelated. Returns true when the content is in scope.
	ClassifyScreenScope(ctx context.Context, image []byte) (bool, error)
}
