package tui

import (
	"fmt"
	"strings"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// row is one display line: either a sender group header or an email inside
// an expanded group.
type row struct {
	sender  string
	emailID string // empty for group headers
}

// groupsModel renders the sender groups of the current snapshot. Expansion is
// display-only state and is never persisted.
type groupsModel struct {
	cursor   int
	offset   int
	expanded map[string]bool
	width    int
	height   int
}

func newGroups() groupsModel {
	return groupsModel{expanded: make(map[string]bool)}
}

// rows flattens the snapshot into display lines, honoring expansion state.
// Called on every render so counts and flags always reflect the snapshot.
func (m groupsModel) rows(snap *domain.ScanSnapshot) []row {
	if snap == nil {
		return nil
	}
	var rows []row
	for _, g := range snap.SortedGroups() {
		rows = append(rows, row{sender: g.Sender})
		if m.expanded[g.Sender] {
			for _, e := range g.Emails {
				rows = append(rows, row{sender: g.Sender, emailID: e.ID})
			}
		}
	}
	return rows
}

// current returns the row under the cursor.
func (m groupsModel) current(snap *domain.ScanSnapshot) (row, bool) {
	rows := m.rows(snap)
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

func (m *groupsModel) moveUp(snap *domain.ScanSnapshot) {
	if m.cursor > 0 {
		m.cursor--
		m.adjustScroll(snap)
	}
}

func (m *groupsModel) moveDown(snap *domain.ScanSnapshot) {
	if m.cursor < len(m.rows(snap))-1 {
		m.cursor++
		m.adjustScroll(snap)
	}
}

// toggle expands or collapses the group under the cursor.
func (m *groupsModel) toggle(snap *domain.ScanSnapshot) {
	r, ok := m.current(snap)
	if !ok {
		return
	}
	if r.emailID == "" {
		m.expanded[r.sender] = !m.expanded[r.sender]
	} else {
		// Toggling on an email row collapses its group.
		m.expanded[r.sender] = false
		m.cursorToGroup(snap, r.sender)
	}
	m.clamp(snap)
}

// cursorToGroup moves the cursor onto the given group header.
func (m *groupsModel) cursorToGroup(snap *domain.ScanSnapshot, sender string) {
	for i, r := range m.rows(snap) {
		if r.sender == sender && r.emailID == "" {
			m.cursor = i
			return
		}
	}
}

// reset clears cursor and expansion state, for a freshly loaded snapshot.
func (m *groupsModel) reset() {
	m.cursor = 0
	m.offset = 0
	m.expanded = make(map[string]bool)
}

func (m *groupsModel) clamp(snap *domain.ScanSnapshot) {
	if n := len(m.rows(snap)); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	m.adjustScroll(snap)
}

func (m *groupsModel) adjustScroll(snap *domain.ScanSnapshot) {
	visible := m.visibleLines()
	if visible <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m groupsModel) visibleLines() int {
	// Border, padding and the header line eat into the height.
	return m.height - 4
}

func (m groupsModel) View(snap *domain.ScanSnapshot) string {
	var b strings.Builder

	if snap == nil {
		b.WriteString(titleStyle.Render("unspamer"))
		b.WriteString("\n\n")
		b.WriteString(mutedTextStyle.Render("No scan yet. Press s to scan or l to load the last snapshot."))
		return listStyle.Width(m.width - 2).Height(m.height - 2).Render(b.String())
	}

	keep, trash, review := snap.Counts()
	header := fmt.Sprintf("%s  %s",
		titleStyle.Render(fmt.Sprintf("%d messages for %q", snap.Total, snap.Query)),
		mutedTextStyle.Render(fmt.Sprintf("keep:%d trash:%d review:%d  %s",
			keep, trash, review, snap.GeneratedAt.Format("Jan 2 15:04"))))
	b.WriteString(header)
	b.WriteString("\n")

	rows := m.rows(snap)
	visible := m.visibleLines()
	end := m.offset + visible
	if end > len(rows) {
		end = len(rows)
	}

	for i := m.offset; i < end; i++ {
		line := m.renderRow(snap, rows[i])
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return listStyle.Width(m.width - 2).Height(m.height - 2).Render(b.String())
}

func (m groupsModel) renderRow(snap *domain.ScanSnapshot, r row) string {
	g := snap.Groups[r.sender]
	if g == nil {
		return ""
	}

	if r.emailID == "" {
		marker := "▸"
		if m.expanded[r.sender] {
			marker = "▾"
		}
		keep, trash, review := g.Counts()
		return fmt.Sprintf("%s %s (%d)  %s",
			marker,
			lipgloss.NewStyle().Bold(true).Render(g.Sender),
			len(g.Emails),
			mutedTextStyle.Render(fmt.Sprintf("keep:%d trash:%d review:%d", keep, trash, review)))
	}

	for _, e := range g.Emails {
		if e.ID != r.emailID {
			continue
		}
		subject := e.Subject
		if subject == "" {
			subject = "(no subject)"
		}
		line := fmt.Sprintf("    %s %s", pill(string(e.Decision.Action)), subject)
		if e.Decision.Category != "" && e.Decision.Category != "other" {
			line += mutedTextStyle.Render("  #" + e.Decision.Category)
		}
		if e.Trashed {
			line = trashedStyle.Render(line + "  (trashed)")
		}
		return line
	}
	return ""
}
