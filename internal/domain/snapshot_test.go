package domain

import (
	"testing"
	"time"
)

func labeled(id, from string, action Action) LabeledEmail {
	return LabeledEmail{
		MessageMeta: MessageMeta{
			ID:     id,
			From:   from,
			Sender: NormalizeSender(from),
		},
		Decision: Decision{ID: id, Action: action},
	}
}

func TestBuildSnapshot_Partition(t *testing.T) {
	emails := []LabeledEmail{
		labeled("1", "Shop <deals@shop.example>", ActionTrash),
		labeled("2", "deals@shop.example", ActionTrash),
		labeled("3", "Alice <alice@example.com>", ActionKeep),
		labeled("4", "", ActionReview),
	}
	snap := BuildSnapshot("q", emails, time.Now())

	if snap.Total != 4 {
		t.Errorf("Total = %d, want 4", snap.Total)
	}
	if len(snap.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(snap.Groups))
	}

	// Every email appears in exactly one group and the union equals the input.
	seen := make(map[string]int)
	for _, g := range snap.Groups {
		for _, e := range g.Emails {
			seen[e.ID]++
		}
	}
	if len(seen) != 4 {
		t.Errorf("union of groups has %d emails, want 4", len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("email %s appears %d times, want 1", id, n)
		}
	}

	shop := snap.Groups["deals@shop.example"]
	if shop == nil {
		t.Fatal("missing group for deals@shop.example")
	}
	if len(shop.Emails) != 2 {
		t.Errorf("shop group has %d emails, want 2", len(shop.Emails))
	}
	if shop.SampleFrom != "Shop <deals@shop.example>" {
		t.Errorf("SampleFrom = %q, want first raw header", shop.SampleFrom)
	}
	if snap.Groups[UnknownSender] == nil {
		t.Error("email with empty From should land in the unknown group")
	}
}

func TestBuildSnapshot_InsertionOrderWithinGroup(t *testing.T) {
	emails := []LabeledEmail{
		labeled("a", "x@example.com", ActionKeep),
		labeled("b", "x@example.com", ActionKeep),
		labeled("c", "x@example.com", ActionKeep),
	}
	snap := BuildSnapshot("q", emails, time.Now())
	g := snap.Groups["x@example.com"]
	for i, want := range []string{"a", "b", "c"} {
		if g.Emails[i].ID != want {
			t.Errorf("Emails[%d].ID = %q, want %q", i, g.Emails[i].ID, want)
		}
	}
}

func TestSortedGroups_DescendingBySize(t *testing.T) {
	emails := []LabeledEmail{
		labeled("1", "solo@example.com", ActionKeep),
		labeled("2", "big@example.com", ActionTrash),
		labeled("3", "big@example.com", ActionTrash),
		labeled("4", "big@example.com", ActionTrash),
		labeled("5", "mid@example.com", ActionReview),
		labeled("6", "mid@example.com", ActionReview),
	}
	snap := BuildSnapshot("q", emails, time.Now())
	groups := snap.SortedGroups()

	wantOrder := []string{"big@example.com", "mid@example.com", "solo@example.com"}
	if len(groups) != len(wantOrder) {
		t.Fatalf("got %d groups, want %d", len(groups), len(wantOrder))
	}
	for i, want := range wantOrder {
		if groups[i].Sender != want {
			t.Errorf("groups[%d].Sender = %q, want %q", i, groups[i].Sender, want)
		}
	}
}

func TestSortedGroups_TiesBySender(t *testing.T) {
	emails := []LabeledEmail{
		labeled("1", "b@example.com", ActionKeep),
		labeled("2", "a@example.com", ActionKeep),
	}
	snap := BuildSnapshot("q", emails, time.Now())
	groups := snap.SortedGroups()
	if groups[0].Sender != "a@example.com" || groups[1].Sender != "b@example.com" {
		t.Errorf("tie order = [%s, %s], want senders ascending", groups[0].Sender, groups[1].Sender)
	}
}

func TestSenderGroup_Counts(t *testing.T) {
	g := &SenderGroup{Emails: []LabeledEmail{
		labeled("1", "x@example.com", ActionKeep),
		labeled("2", "x@example.com", ActionTrash),
		labeled("3", "x@example.com", ActionTrash),
		labeled("4", "x@example.com", ActionReview),
	}}
	keep, trash, review := g.Counts()
	if keep != 1 || trash != 2 || review != 1 {
		t.Errorf("Counts() = %d/%d/%d, want 1/2/1", keep, trash, review)
	}
}

func TestSenderGroup_TrashCandidates(t *testing.T) {
	g := &SenderGroup{Emails: []LabeledEmail{
		labeled("1", "x@example.com", ActionTrash),
		labeled("2", "x@example.com", ActionKeep),
		labeled("3", "x@example.com", ActionTrash),
	}}
	g.Emails[2].Trashed = true

	ids := g.TrashCandidates()
	if len(ids) != 1 || ids[0] != "1" {
		t.Errorf("TrashCandidates() = %v, want [1]", ids)
	}
}

func TestSnapshot_Find(t *testing.T) {
	snap := BuildSnapshot("q", []LabeledEmail{
		labeled("1", "a@example.com", ActionKeep),
		labeled("2", "b@example.com", ActionTrash),
	}, time.Now())

	g, e := snap.Find("2")
	if g == nil || e == nil {
		t.Fatal("Find(2) returned nil")
	}
	if g.Sender != "b@example.com" || e.ID != "2" {
		t.Errorf("Find(2) = group %q email %q", g.Sender, e.ID)
	}

	// Mutating through the returned pointer must be visible in the snapshot.
	e.Trashed = true
	if snap.TrashedCount() != 1 {
		t.Error("mutation through Find result not reflected in snapshot")
	}

	if g, e := snap.Find("nope"); g != nil || e != nil {
		t.Error("Find(missing) should return nils")
	}
}

func TestSnapshot_CloneIsIndependent(t *testing.T) {
	snap := BuildSnapshot("q", []LabeledEmail{
		labeled("1", "a@example.com", ActionTrash),
		labeled("2", "a@example.com", ActionTrash),
		labeled("3", "b@example.com", ActionKeep),
	}, time.Now())

	clone := snap.Clone()
	if clone.Total != snap.Total || len(clone.Groups) != len(snap.Groups) {
		t.Fatalf("clone shape differs: total %d/%d groups %d/%d",
			clone.Total, snap.Total, len(clone.Groups), len(snap.Groups))
	}

	_, e := clone.Find("1")
	e.Trashed = true
	e.Decision.Action = ActionKeep

	if snap.TrashedCount() != 0 {
		t.Error("mutating the clone changed the original's trashed count")
	}
	if _, orig := snap.Find("1"); orig.Decision.Action != ActionTrash {
		t.Errorf("original decision = %q, want trash untouched", orig.Decision.Action)
	}
	if clone.TrashedCount() != 1 {
		t.Error("mutation not visible in the clone itself")
	}
}

func TestSettings_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{"empty gets defaults", Settings{}, DefaultSettings()},
		{
			"negative batch size",
			Settings{Model: "m", BatchSize: -1, MaxMessages: 5, Query: "q"},
			Settings{Model: "m", BatchSize: 10, MaxMessages: 5, Query: "q"},
		},
		{
			"complete settings untouched",
			Settings{Model: "m", BatchSize: 3, MaxMessages: 7, Query: "q"},
			Settings{Model: "m", BatchSize: 3, MaxMessages: 7, Query: "q"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
