// Package triage drives the scan pipeline and the follow-up actions that
// reconcile mailbox mutations with the persisted snapshot.
package triage

import (
	"github.com/Timmmy307/Gmail-unspamer/internal/provider"
	"github.com/Timmmy307/Gmail-unspamer/internal/store"
	"go.uber.org/zap"
)

// Session bundles the collaborators every operation needs. It is constructed
// once per process after credentials are resolved; nothing in this package
// reaches for global state.
type Session struct {
	mailbox    provider.Mailbox
	classifier provider.Classifier
	store      store.Store
	log        *zap.Logger
}

// NewSession creates a session. A nil logger is replaced with a no-op one.
func NewSession(mailbox provider.Mailbox, classifier provider.Classifier, st store.Store, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		mailbox:    mailbox,
		classifier: classifier,
		store:      st,
		log:        log,
	}
}

// Stage identifies where in the scan pipeline a progress report comes from.
type Stage string

const (
	StageListing     Stage = "listing"
	StageFetching    Stage = "fetching"
	StageClassifying Stage = "classifying"
)

// Progress reports pipeline advancement. For StageFetching, Done/Total count
// messages; for StageClassifying, batches.
type Progress struct {
	Stage Stage
	Done  int
	Total int
}

// ProgressFunc receives progress reports during a scan. It is called from the
// scanning goroutine; implementations must be safe for that.
type ProgressFunc func(Progress)
