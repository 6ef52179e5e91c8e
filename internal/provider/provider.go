package provider

import (
	"context"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
)

// Mailbox is the remote mailbox the triage pipeline reads from and trashes
// against.
type Mailbox interface {
	// ListMessageIDs runs a search and returns matching message ids in the
	// order the mailbox reports them, capped at max.
	ListMessageIDs(ctx context.Context, query string, max int) ([]string, error)

	// GetMessageMeta fetches header fields and the snippet for one message.
	// The message body is never requested.
	GetMessageMeta(ctx context.Context, id string) (*domain.MessageMeta, error)

	// TrashMessage moves a message to trash.
	TrashMessage(ctx context.Context, id string) error
}

// Classifier turns a batch of message metadata into per-message decisions.
// Implementations transport and decode only; they never classify themselves.
type Classifier interface {
	// ClassifyBatch returns one LabeledEmail per input message, in input
	// order, with DefaultDecision filled in for any message the remote
	// response did not cover.
	ClassifyBatch(ctx context.Context, settings domain.Settings, batch []domain.MessageMeta) ([]domain.LabeledEmail, error)
}
