package triage

import (
	"context"
	"fmt"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
	"go.uber.org/zap"
)

// LoadLast returns the persisted snapshot from the last scan.
func (s *Session) LoadLast(ctx context.Context) (*domain.ScanSnapshot, error) {
	return s.store.LoadSnapshot(ctx)
}

// BulkResult reports the outcome of a best-effort bulk trash.
type BulkResult struct {
	Sender    string
	Succeeded int
	Attempted int
}

func (r BulkResult) String() string {
	return fmt.Sprintf("trashed %d/%d from %s", r.Succeeded, r.Attempted, r.Sender)
}

// TrashSuggested trashes every email in the sender's group that the
// classifier flagged trash and that is not already marked trashed locally.
// Individual failures are logged and skipped; emails are marked trashed only
// when the mailbox call succeeded. The snapshot is persisted once at the end
// so the durable state matches the screen.
func (s *Session) TrashSuggested(ctx context.Context, snap *domain.ScanSnapshot, sender string) (BulkResult, error) {
	group, ok := snap.Groups[sender]
	if !ok {
		return BulkResult{}, fmt.Errorf("no group for sender %s", sender)
	}

	ids := group.TrashCandidates()
	res := BulkResult{Sender: sender, Attempted: len(ids)}
	for _, id := range ids {
		if err := s.mailbox.TrashMessage(ctx, id); err != nil {
			s.log.Warn("failed to trash message",
				zap.String("id", id),
				zap.String("sender", sender),
				zap.Error(err))
			continue
		}
		if _, e := snap.Find(id); e != nil {
			e.Trashed = true
		}
		res.Succeeded++
	}

	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return res, fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.log.Info("bulk trash finished",
		zap.String("sender", sender),
		zap.Int("succeeded", res.Succeeded),
		zap.Int("attempted", res.Attempted))
	return res, nil
}

// Keep overwrites the email's decision with a manual keep. No mailbox call is
// made; the override is purely local and persisted immediately.
func (s *Session) Keep(ctx context.Context, snap *domain.ScanSnapshot, id string) error {
	_, email := snap.Find(id)
	if email == nil {
		return fmt.Errorf("no email with id %s in snapshot", id)
	}

	email.Decision.Action = domain.ActionKeep
	email.Decision.Reason = "manually kept"

	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Trash trashes a single email. Unlike the bulk action this propagates the
// mailbox error and leaves the local trashed flag unset on failure, so the
// user always sees whether the one mutation they asked for happened.
func (s *Session) Trash(ctx context.Context, snap *domain.ScanSnapshot, id string) error {
	_, email := snap.Find(id)
	if email == nil {
		return fmt.Errorf("no email with id %s in snapshot", id)
	}

	if err := s.mailbox.TrashMessage(ctx, id); err != nil {
		return err
	}
	email.Trashed = true

	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
