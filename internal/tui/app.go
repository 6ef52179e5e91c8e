package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
	"github.com/Timmmy307/Gmail-unspamer/internal/store"
	"github.com/Timmmy307/Gmail-unspamer/internal/triage"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// --- async result messages ---

type progressMsg triage.Progress

type scanDoneMsg struct {
	snap *domain.ScanSnapshot
}

type snapshotLoadedMsg struct {
	snap *domain.ScanSnapshot
}

// bulkDoneMsg and actionDoneMsg carry the mutated snapshot copy back to the
// event loop; the shared m.snapshot is only ever swapped inside Update.
type bulkDoneMsg struct {
	res  triage.BulkResult
	snap *domain.ScanSnapshot
}

type actionDoneMsg struct {
	action string
	id     string
	snap   *domain.ScanSnapshot
}

type errMsg struct {
	err error
}

// confirmAction is the pending operation behind the confirmation overlay.
type confirmAction struct {
	prompt string
	run    tea.Cmd
}

// --- root model ---

type model struct {
	session  *triage.Session
	settings domain.Settings
	log      *zap.Logger

	snapshot *domain.ScanSnapshot
	groups   groupsModel
	status   statusBar

	confirm    *confirmAction
	scanning   bool
	busy       bool
	progressCh chan triage.Progress

	width  int
	height int
}

// NewModel creates the root TUI model.
func NewModel(sess *triage.Session, settings domain.Settings, log *zap.Logger) model {
	if log == nil {
		log = zap.NewNop()
	}
	return model{
		session:  sess,
		settings: settings,
		log:      log,
		groups:   newGroups(),
		status:   newStatusBar(),
	}
}

func (m model) Init() tea.Cmd {
	// Show the previous snapshot, if any, on startup. Its absence is not an
	// error yet.
	sess := m.session
	return func() tea.Msg {
		snap, err := sess.LoadLast(context.Background())
		if err != nil {
			return nil
		}
		return snapshotLoadedMsg{snap: snap}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.groups.width = msg.Width
		m.groups.height = msg.Height - 1
		m.status.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case progressMsg:
		m.status.setMessage(progressText(triage.Progress(msg)))
		return m, waitProgress(m.progressCh)

	case scanDoneMsg:
		m.scanning = false
		m.snapshot = msg.snap
		m.groups.reset()
		m.status.setMessage(fmt.Sprintf("Scan complete: %d messages in %d groups", msg.snap.Total, len(msg.snap.Groups)))
		return m, nil

	case snapshotLoadedMsg:
		m.snapshot = msg.snap
		m.groups.reset()
		m.status.setMessage(fmt.Sprintf("Loaded last scan from %s (%d messages)",
			msg.snap.GeneratedAt.Format("Jan 2 15:04"), msg.snap.Total))
		return m, nil

	case bulkDoneMsg:
		m.busy = false
		m.snapshot = msg.snap
		m.status.setMessage(msg.res.String())
		return m, nil

	case actionDoneMsg:
		m.busy = false
		m.snapshot = msg.snap
		switch msg.action {
		case "keep":
			m.status.setMessage("Marked as keep")
		case "trash":
			m.status.setMessage("Moved to trash")
		}
		return m, nil

	case errMsg:
		m.scanning = false
		m.busy = false
		m.status.setError(msg.err.Error())
		m.log.Warn("action failed", zap.Error(msg.err))
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The confirmation overlay captures all keys until resolved.
	if m.confirm != nil {
		switch {
		case key.Matches(msg, keys.Confirm):
			run := m.confirm.run
			m.confirm = nil
			m.busy = true
			return m, run
		case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Quit):
			m.confirm = nil
			m.status.setMessage("Cancelled")
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		m.groups.moveUp(m.snapshot)
		return m, nil

	case key.Matches(msg, keys.Down):
		m.groups.moveDown(m.snapshot)
		return m, nil

	case key.Matches(msg, keys.Toggle):
		m.groups.toggle(m.snapshot)
		return m, nil

	case key.Matches(msg, keys.Scan):
		return m.startScan()

	case key.Matches(msg, keys.LoadLast):
		return m, m.loadLastCmd()

	case key.Matches(msg, keys.BulkTrash):
		return m.promptBulkTrash()

	case key.Matches(msg, keys.Trash):
		return m.promptTrash()

	case key.Matches(msg, keys.Keep):
		return m.keepCurrent()
	}

	return m, nil
}

// startScan kicks off the pipeline and a progress listener.
func (m model) startScan() (tea.Model, tea.Cmd) {
	if m.scanning || m.busy {
		return m, nil
	}
	m.scanning = true
	m.status.setMessage("Scanning...")

	ch := make(chan triage.Progress, 16)
	m.progressCh = ch
	sess, settings := m.session, m.settings

	scan := func() tea.Msg {
		snap, err := sess.Scan(context.Background(), settings, func(p triage.Progress) {
			ch <- p
		})
		close(ch)
		if err != nil {
			return errMsg{err}
		}
		return scanDoneMsg{snap: snap}
	}
	return m, tea.Batch(scan, waitProgress(ch))
}

// waitProgress delivers the next progress report, re-armed by Update.
func waitProgress(ch chan triage.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

func progressText(p triage.Progress) string {
	switch p.Stage {
	case triage.StageListing:
		return "Scanning: listing messages..."
	case triage.StageFetching:
		return fmt.Sprintf("Scanning: fetching metadata %d/%d", p.Done, p.Total)
	case triage.StageClassifying:
		return fmt.Sprintf("Scanning: classifying batch %d/%d", p.Done, p.Total)
	}
	return "Scanning..."
}

func (m model) loadLastCmd() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		snap, err := sess.LoadLast(context.Background())
		if err != nil {
			if errors.Is(err, store.ErrNoSnapshot) {
				return errMsg{fmt.Errorf("no previous scan to load")}
			}
			return errMsg{err}
		}
		return snapshotLoadedMsg{snap: snap}
	}
}

// promptBulkTrash asks for confirmation naming the count and sender, as
// required before any bulk mutation.
func (m model) promptBulkTrash() (tea.Model, tea.Cmd) {
	if m.snapshot == nil || m.busy {
		return m, nil
	}
	r, ok := m.groups.current(m.snapshot)
	if !ok {
		return m, nil
	}
	group := m.snapshot.Groups[r.sender]
	if group == nil {
		return m, nil
	}
	n := len(group.TrashCandidates())
	if n == 0 {
		m.status.setMessage("Nothing suggested for trash in this group")
		return m, nil
	}

	// The command mutates a copy so the render loop never sees a
	// half-applied snapshot.
	sess, snap, sender := m.session, m.snapshot.Clone(), r.sender
	m.confirm = &confirmAction{
		prompt: fmt.Sprintf("Trash %d suggested email(s) from %s?", n, sender),
		run: func() tea.Msg {
			res, err := sess.TrashSuggested(context.Background(), snap, sender)
			if err != nil {
				return errMsg{err}
			}
			return bulkDoneMsg{res: res, snap: snap}
		},
	}
	return m, nil
}

// promptTrash confirms and trashes the single email under the cursor.
func (m model) promptTrash() (tea.Model, tea.Cmd) {
	email, ok := m.currentEmail()
	if !ok || m.busy {
		return m, nil
	}
	if email.Trashed {
		m.status.setMessage("Already trashed")
		return m, nil
	}

	sess, snap, id := m.session, m.snapshot.Clone(), email.ID
	subject := email.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	m.confirm = &confirmAction{
		prompt: fmt.Sprintf("Trash %q from %s?", subject, email.Sender),
		run: func() tea.Msg {
			if err := sess.Trash(context.Background(), snap, id); err != nil {
				return errMsg{err}
			}
			return actionDoneMsg{action: "trash", id: id, snap: snap}
		},
	}
	return m, nil
}

// keepCurrent applies the manual keep override, no confirmation needed since
// it is purely local and reversible.
func (m model) keepCurrent() (tea.Model, tea.Cmd) {
	email, ok := m.currentEmail()
	if !ok || m.busy {
		return m, nil
	}
	m.busy = true

	sess, snap, id := m.session, m.snapshot.Clone(), email.ID
	return m, func() tea.Msg {
		if err := sess.Keep(context.Background(), snap, id); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{action: "keep", id: id, snap: snap}
	}
}

// currentEmail returns the email under the cursor, if the cursor is on an
// email row.
func (m model) currentEmail() (*domain.LabeledEmail, bool) {
	if m.snapshot == nil {
		return nil, false
	}
	r, ok := m.groups.current(m.snapshot)
	if !ok || r.emailID == "" {
		return nil, false
	}
	_, email := m.snapshot.Find(r.emailID)
	if email == nil {
		return nil, false
	}
	return email, true
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	main := m.groups.View(m.snapshot)

	if m.confirm != nil {
		overlay := confirmStyle.Render(m.confirm.prompt + "\n\n" + mutedTextStyle.Render("y: confirm   n: cancel"))
		main = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, overlay)
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, m.status.View())
}

// Run starts the TUI event loop and blocks until the user quits.
func Run(sess *triage.Session, settings domain.Settings, log *zap.Logger) error {
	p := tea.NewProgram(NewModel(sess, settings, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
