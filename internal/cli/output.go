package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
)

// printJSON encodes v as indented JSON to stdout.
func printJSON(v any) error {
	return fprintJSON(os.Stdout, v)
}

// fprintJSON encodes v as indented JSON to w.
func fprintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// printSnapshot renders a scan snapshot as grouped text to stdout.
func printSnapshot(snap *domain.ScanSnapshot) {
	fprintSnapshot(os.Stdout, snap)
}

func fprintSnapshot(w io.Writer, snap *domain.ScanSnapshot) {
	keep, trash, review := snap.Counts()
	fmt.Fprintf(w, "Scanned %d message(s) at %s (query: %s)\n",
		snap.Total, snap.GeneratedAt.Format(time.RFC3339), snap.Query)
	fmt.Fprintf(w, "keep: %d  trash: %d  review: %d\n", keep, trash, review)

	for _, g := range snap.SortedGroups() {
		fmt.Fprintf(w, "\n%s (%d)\n", g.Sender, len(g.Emails))
		for _, e := range g.Emails {
			marker := " "
			if e.Trashed {
				marker = "x"
			}
			subject := e.Subject
			if subject == "" {
				subject = "(no subject)"
			}
			fmt.Fprintf(w, "  [%s] %-6s %s  %s", marker, e.Decision.Action, e.ID, subject)
			if e.Decision.Category != "" {
				fmt.Fprintf(w, "  #%s", e.Decision.Category)
			}
			fmt.Fprintln(w)
		}
	}
}
