// Package assistant produces BdAsk replies and translations from an LLM.
package assistant

import (
	"context"
	"errors"

	"github.com/bdask/bdask/internal/domain"
)

// ErrEmptyReply is returned when the model answers with no content.
var ErrEmptyReply = errors.New("empty reply from model")

// Processor defines the interface for AI processing.
type Processor interface {
	// Reply answers message given the session's earlier messages.
	Reply(ctx context.Context, history []domain.Message, message string) (string, error)

	// Translate renders text from source to target language codes.
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Ensure OpenAIProcessor implements Processor.
var _ Processor = (*OpenAIProcessor)(nil)
