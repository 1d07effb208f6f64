package domain

import "context"

// CompletionClient sends a prompt to an external text-completion
// service. The text payload carries the completion on StatusOkay and
// the error detail on failure statuses, for diagnostics.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, Status)
}
