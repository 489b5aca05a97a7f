package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mdcards/internal/bootstrap"
	reviewdto "mdcards/internal/modules/review/dto"
	"mdcards/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	vaultPath string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "mdcards",
		Short:         "Spaced-repetition flashcards kept in markdown files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.vaultPath, "vault", ".", "directory holding the deck files")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug|info|warn|error")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newDeckCmd(opts))
	root.AddCommand(newDueCmd(opts))
	root.AddCommand(newReviewCmd(opts))
	root.AddCommand(newReindexCmd(opts))
	return root
}

func loadApp(cmd *cobra.Command, opts *rootOptions) (*bootstrap.App, error) {
	logger, err := logging.New(cmd.ErrOrStderr(), opts.logLevel)
	if err != nil {
		return nil, err
	}
	cfg, err := bootstrap.LoadConfig(opts.vaultPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logger)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Review decks in the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(opts.vaultPath, app)
		},
	}
}

func newDeckCmd(opts *rootOptions) *cobra.Command {
	deck := &cobra.Command{Use: "deck", Short: "Inspect decks"}

	deck.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List decks with card counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			decks, err := app.DeckCLI.ListDecks(cmd.Context())
			if err != nil {
				return err
			}
			if len(decks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no decks")
				return nil
			}
			for _, d := range decks {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d cards\t%d due\t%d new\n", d.Path, d.Title, d.CardCount, d.DueCount, d.NewCount)
			}
			return nil
		},
	})

	deck.AddCommand(&cobra.Command{
		Use:   "show <path>",
		Short: "Show the cards of one deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			detail, err := app.DeckCLI.GetDeck(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s (%s)\n", detail.Deck.Title, detail.Deck.Path)
			if len(detail.Deck.Tags) > 0 {
				_, _ = fmt.Fprintf(w, "tags: %s\n", strings.Join(detail.Deck.Tags, ", "))
			}
			for _, c := range detail.Cards {
				when := "new"
				if c.Schedule != nil {
					when = fmt.Sprintf("due %s (interval %dd, ease %d)", humanize.Time(c.Schedule.Due), c.Schedule.Interval, c.Schedule.Ease)
				}
				_, _ = fmt.Fprintf(w, "- [%s] %s => %s\t%s\n", c.Type, c.Front, c.Back, when)
			}
			return nil
		},
	})
	return deck
}

func newDueCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "Summarise due and new cards per deck",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			if err := app.DeckCLI.Reindex(cmd.Context()); err != nil {
				return err
			}
			summary, err := app.DeckCLI.DueSummary(cmd.Context())
			if err != nil {
				return err
			}
			if len(summary) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no decks")
				return nil
			}
			for _, s := range summary {
				next := "-"
				if s.NextDue != nil {
					next = humanize.Time(*s.NextDue)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d due\t%d new\t%d total\tnext %s\n", s.Path, s.Due, s.New, s.Total, next)
			}
			return nil
		},
	}
}

func newReviewCmd(opts *rootOptions) *cobra.Command {
	review := &cobra.Command{Use: "review", Short: "Run a review from the command line"}

	var decks []string
	var dueOnly bool
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a review of the given decks (all decks by default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			out, err := app.ReviewCLI.Start(cmd.Context(), decks, dueOnly)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "started review %s of %s: %d cards\n", out.SessionID, out.Label, out.Total)
			printCard(w, out.Current, false)
			return nil
		},
	}
	startCmd.Flags().StringSliceVar(&decks, "deck", nil, "deck path relative to the vault (repeatable)")
	startCmd.Flags().BoolVar(&dueOnly, "due-only", false, "leave out cards scheduled for later")

	var reveal bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current card",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			out, err := app.ReviewCLI.Current(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s: card %d of %d (%d%%)\n", out.Label, out.Progress.Current+1, out.Progress.Total, out.Progress.Percentage)
			printCard(w, out.Card, reveal)
			return nil
		},
	}
	showCmd.Flags().BoolVar(&reveal, "reveal", false, "also print the back of the card")

	answerCmd := &cobra.Command{
		Use:       "answer <hard|good|easy>",
		Short:     "Grade the current card",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"hard", "good", "easy"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			out, err := app.ReviewCLI.Answer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if s := out.Answered.Schedule; s != nil {
				_, _ = fmt.Fprintf(w, "%s: %s => %s, next %s (interval %dd, ease %d)\n", out.Response, out.Answered.Front, out.Answered.Back, humanize.Time(s.Due), s.Interval, s.Ease)
			}
			if out.Unmatched > 0 {
				_, _ = fmt.Fprintf(w, "warning: %d schedule(s) could not be written back\n", out.Unmatched)
			}
			if out.Finished != nil {
				printFinish(w, *out.Finished)
				return nil
			}
			printCard(w, out.Next, false)
			return nil
		},
	}

	finishCmd := &cobra.Command{
		Use:   "finish",
		Short: "Save answered cards and close the review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			out, err := app.ReviewCLI.Finish(cmd.Context())
			if err != nil {
				return err
			}
			printFinish(cmd.OutOrStdout(), out)
			return nil
		},
	}

	abortCmd := &cobra.Command{
		Use:   "abort",
		Short: "Drop the active review without writing anything else",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			if err := app.ReviewCLI.Abort(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "review aborted")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			out, err := app.ReviewCLI.GetActive(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tstarted %s\t%d/%d\thard %d good %d easy %d\n",
				out.SessionID, out.Label, humanize.Time(out.StartedAt), out.Progress.Current, out.Progress.Total,
				out.Tally.Hard, out.Tally.Good, out.Tally.Easy)
			return nil
		},
	}

	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List the most recent answers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			entries, err := app.ReviewCLI.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\tnext %dd\n", e.ReviewedAt.Format(time.DateTime), e.SourceFile, e.Response, e.Front, e.IntervalAfter)
			}
			return nil
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "number of entries")

	review.AddCommand(startCmd, showCmd, answerCmd, finishCmd, abortCmd, statusCmd, historyCmd)
	return review
}

func newReindexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the schedule index from the deck files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			if err := app.DeckCLI.Reindex(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reindex completed")
			return nil
		},
	}
}

func printCard(w io.Writer, card *reviewdto.CardOutput, reveal bool) {
	if card == nil {
		_, _ = fmt.Fprintln(w, "no card left")
		return
	}
	_, _ = fmt.Fprintf(w, "Q: %s\n", card.Front)
	if reveal {
		_, _ = fmt.Fprintf(w, "A: %s\n", card.Back)
	}
	_, _ = fmt.Fprintf(w, "   (%s)\n", card.SourceFile)
}

func printFinish(w io.Writer, out reviewdto.FinishOutput) {
	state := "finished early"
	if out.Completed {
		state = "complete"
	}
	_, _ = fmt.Fprintf(w, "review %s: %d of %d cards, hard %d good %d easy %d, %d min\n",
		state, out.Answered, out.Total, out.Tally.Hard, out.Tally.Good, out.Tally.Easy, out.DurationMin)
	_, _ = fmt.Fprintf(w, "note: %s\n", out.Path)
}
