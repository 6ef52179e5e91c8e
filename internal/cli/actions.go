package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Timmmy307/Gmail-unspamer/internal/triage"
	"github.com/spf13/cobra"
)

func newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Authorize access to the Gmail account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(true)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.gmail.Connect(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Connected.")
			return nil
		},
	}
}

func newDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the stored Gmail authorization",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(true)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.gmail.Disconnect(); err != nil {
				return err
			}
			fmt.Println("Disconnected.")
			return nil
		},
	}
}

func newScanCmd() *cobra.Command {
	var queryFlag, modelFlag string
	var maxFlag, batchFlag int

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the mailbox and classify matching messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(true)
			if err != nil {
				return err
			}
			defer app.Close()

			settings, err := app.db.LoadSettings(cmd.Context())
			if err != nil {
				return err
			}
			if queryFlag != "" {
				settings.Query = queryFlag
			}
			if modelFlag != "" {
				settings.Model = modelFlag
			}
			if maxFlag > 0 {
				settings.MaxMessages = maxFlag
			}
			if batchFlag > 0 {
				settings.BatchSize = batchFlag
			}

			progress := func(p triage.Progress) {
				switch p.Stage {
				case triage.StageFetching:
					fmt.Fprintf(os.Stderr, "\rfetching metadata %d/%d", p.Done, p.Total)
					if p.Done == p.Total {
						fmt.Fprintln(os.Stderr)
					}
				case triage.StageClassifying:
					if p.Done > 0 {
						fmt.Fprintf(os.Stderr, "classified batch %d/%d\n", p.Done, p.Total)
					}
				}
			}
			if jsonFlag {
				progress = nil
			}

			snap, err := app.sess.Scan(cmd.Context(), settings, progress)
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(toJSONSnapshot(snap))
			}
			printSnapshot(snap)
			return nil
		},
	}

	cmd.Flags().StringVar(&queryFlag, "query", "", "search query override")
	cmd.Flags().StringVar(&modelFlag, "model", "", "model name override")
	cmd.Flags().IntVar(&maxFlag, "max-messages", 0, "maximum messages to scan")
	cmd.Flags().IntVar(&batchFlag, "batch-size", 0, "classification batch size")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the last persisted scan without rescanning",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(true)
			if err != nil {
				return err
			}
			defer app.Close()

			snap, err := app.sess.LoadLast(cmd.Context())
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(toJSONSnapshot(snap))
			}
			printSnapshot(snap)
			return nil
		},
	}
}

func newKeepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keep <message-id>",
		Short: "Manually mark a message as keep",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(true)
			if err != nil {
				return err
			}
			defer app.Close()

			snap, err := app.sess.LoadLast(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.sess.Keep(cmd.Context(), snap, args[0]); err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "keep", MessageID: args[0]})
			}
			fmt.Println("Marked as keep.")
			return nil
		},
	}
}

func newTrashCmd() *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "trash <message-id>",
		Short: "Move one message to trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(true)
			if err != nil {
				return err
			}
			defer app.Close()

			snap, err := app.sess.LoadLast(cmd.Context())
			if err != nil {
				return err
			}

			_, email := snap.Find(args[0])
			if email == nil {
				return fmt.Errorf("no email with id %s in the last scan", args[0])
			}
			if !yesFlag && !confirmPrompt(fmt.Sprintf("Trash %q from %s?", email.Subject, email.Sender)) {
				fmt.Println("Cancelled.")
				return nil
			}

			if err := app.sess.Trash(cmd.Context(), snap, args[0]); err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "trash", MessageID: args[0]})
			}
			fmt.Println("Moved to trash.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation")
	return cmd
}

func newTrashSuggestedCmd() *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "trash-suggested <sender>",
		Short: "Trash every suggested-trash message from a sender",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(true)
			if err != nil {
				return err
			}
			defer app.Close()

			snap, err := app.sess.LoadLast(cmd.Context())
			if err != nil {
				return err
			}

			sender := strings.ToLower(strings.TrimSpace(args[0]))
			group, ok := snap.Groups[sender]
			if !ok {
				return fmt.Errorf("no group for sender %s in the last scan", sender)
			}
			n := len(group.TrashCandidates())
			if n == 0 {
				fmt.Println("Nothing suggested for trash in this group.")
				return nil
			}
			if !yesFlag && !confirmPrompt(fmt.Sprintf("Trash %d suggested email(s) from %s?", n, sender)) {
				fmt.Println("Cancelled.")
				return nil
			}

			res, err := app.sess.TrashSuggested(cmd.Context(), snap, sender)
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(jsonBulkResult{
					OK:        true,
					Sender:    res.Sender,
					Succeeded: res.Succeeded,
					Attempted: res.Attempted,
				})
			}
			fmt.Printf("Trashed %d/%d from %s.\n", res.Succeeded, res.Attempted, res.Sender)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation")
	return cmd
}

// confirmPrompt asks a yes/no question on the terminal, defaulting to no.
func confirmPrompt(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return parseYes(line)
}

// parseYes accepts y/yes in any case.
func parseYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
