package domain

import (
	"sort"
	"time"
)

// LabeledEmail is a message with its decision attached. Trashed is local-only
// until a trash mutation succeeds against the mailbox.
type LabeledEmail struct {
	MessageMeta
	Decision Decision `json:"decision"`
	Trashed  bool     `json:"trashed"`
}

// SenderGroup collects the labeled emails of one normalized sender.
// SampleFrom keeps a raw From header for display.
type SenderGroup struct {
	Sender     string         `json:"sender"`
	SampleFrom string         `json:"sample_from"`
	Emails     []LabeledEmail `json:"emails"`
}

// Counts tallies the group's decisions. Recomputed on every render so manual
// overrides are always reflected.
func (g *SenderGroup) Counts() (keep, trash, review int) {
	for _, e := range g.Emails {
		switch e.Decision.Action {
		case ActionKeep:
			keep++
		case ActionTrash:
			trash++
		default:
			review++
		}
	}
	return keep, trash, review
}

// TrashCandidates returns the ids the bulk action would trash: suggested
// trash and not yet marked trashed locally.
func (g *SenderGroup) TrashCandidates() []string {
	var ids []string
	for _, e := range g.Emails {
		if e.Decision.Action == ActionTrash && !e.Trashed {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// ScanSnapshot is the complete result of one scan, plus any mutations applied
// since. Exactly one snapshot is retained; every mutation overwrites it.
type ScanSnapshot struct {
	GeneratedAt time.Time               `json:"generated_at"`
	Query       string                  `json:"query"`
	Total       int                     `json:"total"`
	Groups      map[string]*SenderGroup `json:"groups"`
}

// BuildSnapshot partitions labeled emails by normalized sender. Insertion
// order within a group follows the input order, which is the fetch order.
func BuildSnapshot(query string, emails []LabeledEmail, at time.Time) *ScanSnapshot {
	snap := &ScanSnapshot{
		GeneratedAt: at,
		Query:       query,
		Total:       len(emails),
		Groups:      make(map[string]*SenderGroup),
	}
	for _, e := range emails {
		key := e.Sender
		if key == "" {
			key = UnknownSender
		}
		g, ok := snap.Groups[key]
		if !ok {
			g = &SenderGroup{Sender: key, SampleFrom: e.From}
			snap.Groups[key] = g
		}
		g.Emails = append(g.Emails, e)
	}
	return snap
}

// SortedGroups returns the groups in render order: descending by email count,
// ties broken by sender for a consistent display.
func (s *ScanSnapshot) SortedGroups() []*SenderGroup {
	groups := make([]*SenderGroup, 0, len(s.Groups))
	for _, g := range s.Groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Emails) != len(groups[j].Emails) {
			return len(groups[i].Emails) > len(groups[j].Emails)
		}
		return groups[i].Sender < groups[j].Sender
	})
	return groups
}

// Clone returns a deep copy. Mutating the copy never touches the original,
// so a copy can be handed to another goroutine.
func (s *ScanSnapshot) Clone() *ScanSnapshot {
	out := &ScanSnapshot{
		GeneratedAt: s.GeneratedAt,
		Query:       s.Query,
		Total:       s.Total,
		Groups:      make(map[string]*SenderGroup, len(s.Groups)),
	}
	for key, g := range s.Groups {
		emails := make([]LabeledEmail, len(g.Emails))
		copy(emails, g.Emails)
		out.Groups[key] = &SenderGroup{
			Sender:     g.Sender,
			SampleFrom: g.SampleFrom,
			Emails:     emails,
		}
	}
	return out
}

// Find returns the group and email holding the given message id.
func (s *ScanSnapshot) Find(id string) (*SenderGroup, *LabeledEmail) {
	for _, g := range s.Groups {
		for i := range g.Emails {
			if g.Emails[i].ID == id {
				return g, &g.Emails[i]
			}
		}
	}
	return nil, nil
}

// Counts tallies decisions across all groups.
func (s *ScanSnapshot) Counts() (keep, trash, review int) {
	for _, g := range s.Groups {
		k, t, r := g.Counts()
		keep += k
		trash += t
		review += r
	}
	return keep, trash, review
}

// TrashedCount returns how many emails are locally marked trashed.
func (s *ScanSnapshot) TrashedCount() int {
	n := 0
	for _, g := range s.Groups {
		for _, e := range g.Emails {
			if e.Trashed {
				n++
			}
		}
	}
	return n
}
