package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/docdrill/internal/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show the local event journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		jr, err := journal.OpenPath(cfg.Journal)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer jr.Close()

		entries, err := jr.Recent(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query journal: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No journal entries found.")
			return nil
		}

		color.New(color.Bold).Printf("%-6s  %-19s  %-18s  %-12s  %-22s  %s\n",
			"Seq", "Timestamp", "Kind", "Session", "Step", "Detail")
		fmt.Println(strings.Repeat("─", 110))

		for _, e := range entries {
			session := e.SessionID
			if len(session) > 12 {
				session = session[:12]
			}
			fmt.Printf("%-6d  %-19s  %s  %-12s  %-22s  %s\n",
				e.Sequence,
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				kindColor(e.Kind).Sprintf("%-18s", e.Kind),
				session,
				e.Step,
				e.Detail,
			)
		}
		return nil
	},
}

func init() {
	journalCmd.Flags().Int("limit", 50, "Number of entries to show (0 for all)")
}

func kindColor(k journal.Kind) *color.Color {
	switch k {
	case journal.KindNoteSaveFailed, journal.KindError:
		return color.New(color.FgRed)
	case journal.KindTimerExpired:
		return color.New(color.FgYellow)
	case journal.KindReviewCompleted, journal.KindQuickSubmitted, journal.KindNoteSaved:
		return color.New(color.FgGreen)
	}
	return color.New(color.FgCyan)
}
