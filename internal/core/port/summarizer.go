package port

import "context"

// Summarizer produces a short structured summary of free text. Failures are
// typed by the implementation; callers on the creation path treat every
// failure as non-fatal.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
