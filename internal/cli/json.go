package cli

import (
	"time"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
)

// ---------------------------------------------------------------------------
// Settings JSON type (settings)
// ---------------------------------------------------------------------------

type jsonSettings struct {
	Model       string `json:"model"`
	BatchSize   int    `json:"batch_size"`
	MaxMessages int    `json:"max_messages"`
	Query       string `json:"query"`
}

func toJSONSettings(s domain.Settings) jsonSettings {
	return jsonSettings{
		Model:       s.Model,
		BatchSize:   s.BatchSize,
		MaxMessages: s.MaxMessages,
		Query:       s.Query,
	}
}

// ---------------------------------------------------------------------------
// Snapshot JSON types (scan, show)
// ---------------------------------------------------------------------------

type jsonSnapshot struct {
	GeneratedAt string      `json:"generated_at"`
	Query       string      `json:"query"`
	Total       int         `json:"total"`
	Keep        int         `json:"keep"`
	Trash       int         `json:"trash"`
	Review      int         `json:"review"`
	Groups      []jsonGroup `json:"groups"`
}

type jsonGroup struct {
	Sender string      `json:"sender"`
	From   string      `json:"from,omitempty"`
	Count  int         `json:"count"`
	Emails []jsonEmail `json:"emails"`
}

type jsonEmail struct {
	ID       string `json:"id"`
	From     string `json:"from"`
	Subject  string `json:"subject"`
	Date     string `json:"date,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
	Action   string `json:"action"`
	Category string `json:"category"`
	Summary  string `json:"summary,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Trashed  bool   `json:"trashed"`
}

func toJSONSnapshot(snap *domain.ScanSnapshot) jsonSnapshot {
	keep, trash, review := snap.Counts()
	out := jsonSnapshot{
		GeneratedAt: snap.GeneratedAt.Format(time.RFC3339),
		Query:       snap.Query,
		Total:       snap.Total,
		Keep:        keep,
		Trash:       trash,
		Review:      review,
		Groups:      make([]jsonGroup, 0, len(snap.Groups)),
	}
	for _, g := range snap.SortedGroups() {
		jg := jsonGroup{
			Sender: g.Sender,
			From:   g.SampleFrom,
			Count:  len(g.Emails),
			Emails: make([]jsonEmail, 0, len(g.Emails)),
		}
		for _, e := range g.Emails {
			jg.Emails = append(jg.Emails, jsonEmail{
				ID:       e.ID,
				From:     e.From,
				Subject:  e.Subject,
				Date:     e.Date,
				Snippet:  e.Snippet,
				Action:   string(e.Decision.Action),
				Category: e.Decision.Category,
				Summary:  e.Decision.Summary,
				Reason:   e.Decision.Reason,
				Trashed:  e.Trashed,
			})
		}
		out.Groups = append(out.Groups, jg)
	}
	return out
}

// ---------------------------------------------------------------------------
// Action result JSON types (keep, trash, trash-suggested)
// ---------------------------------------------------------------------------

type jsonAction struct {
	OK        bool   `json:"ok"`
	Action    string `json:"action"`
	MessageID string `json:"message_id,omitempty"`
}

type jsonBulkResult struct {
	OK        bool   `json:"ok"`
	Sender    string `json:"sender"`
	Succeeded int    `json:"succeeded"`
	Attempted int    `json:"attempted"`
}
