package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/logging"
	"github.com/abhisek/docdrill/internal/timer"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List past sessions, or show one in full",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, err := newClient(cfg, logging.Nop())
		if err != nil {
			return err
		}

		ctx := context.Background()
		if len(args) == 1 {
			rec, err := client.GetSession(ctx, args[0])
			if err != nil {
				return fmt.Errorf("get session: %w", err)
			}
			printSession(rec)
			if rec.Status == api.StatusInProgress {
				if cost, err := client.Cost(ctx, rec.SessionID); err == nil {
					fmt.Println()
					color.Cyan("Running cost: $%.4f of $%.2f", cost.Cost, cost.Limit)
				}
			}
			return nil
		}

		sessions, err := client.ListSessions(ctx)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		bold := color.New(color.Bold)
		bold.Printf("%-36s  %-19s  %-14s  %-6s  %s\n", "ID", "Timestamp", "Difficulty", "Score", "Cost")
		fmt.Println(strings.Repeat("─", 90))

		for _, s := range sessions {
			score := color.New(color.FgHiBlack).Sprint("  -   ")
			if s.OverallScore != nil {
				score = scoreColor(*s.OverallScore, 5).Sprintf("%-6.1f", *s.OverallScore)
			}
			cost := "-"
			if s.EstimatedCost != nil {
				cost = fmt.Sprintf("$%.4f", *s.EstimatedCost)
			}
			fmt.Printf("%-36s  %-19s  %-14s  %s  %s\n",
				s.SessionID, shortTimestamp(s.Timestamp), s.Difficulty, score, cost)
		}
		return nil
	},
}

func printSession(rec *api.SessionRecord) {
	sep := strings.Repeat("─", 60)
	head := color.New(color.FgCyan, color.Bold)

	fmt.Printf("ID:          %s\n", rec.SessionID)
	fmt.Printf("Time:        %s\n", shortTimestamp(rec.Timestamp))
	fmt.Printf("Status:      %s\n", rec.Status)
	if rec.Domain != "" {
		fmt.Printf("Domain:      %s\n", rec.Domain)
	}
	if rec.Difficulty != "" {
		fmt.Printf("Difficulty:  %s\n", rec.Difficulty)
	}
	if rec.ModelUsed != "" {
		fmt.Printf("Model:       %s\n", rec.ModelUsed)
	}
	if rec.TokenUsage != nil {
		fmt.Printf("Cost:        $%.4f (%d calls)\n", rec.TokenUsage.EstimatedCost, rec.TokenUsage.CallCount)
	}

	if len(rec.UserResponses) > 0 {
		fmt.Println()
		head.Println("Notes")
		fmt.Println(sep)
		fields := make([]string, 0, len(rec.UserResponses))
		for f := range rec.UserResponses {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			used := ""
			if secs, ok := rec.TimeUsed[f]; ok {
				used = " (" + timer.FormatSeconds(secs) + ")"
			}
			color.New(color.Bold).Printf("%s%s\n", f, used)
			fmt.Println(rec.UserResponses[f])
			fmt.Println()
		}
	}

	if rec.Feedback == nil {
		color.Yellow("Not reviewed yet.")
		return
	}
	fb := rec.Feedback

	fmt.Println()
	head.Println("Review")
	fmt.Println(sep)
	for _, part := range []struct {
		label string
		sf    api.ScoredFeedback
	}{
		{"Deliverable understanding", fb.DeliverableUnderstanding},
		{"Note quality", fb.NoteQuality},
		{"Note efficiency", fb.NoteEfficiency},
		{"Formatting", fb.Formatting},
	} {
		fmt.Printf("%-27s %s  %s\n", part.label, scoreColor(part.sf.Score, 5).Sprintf("%.1f/5", part.sf.Score), part.sf.Feedback)
	}
	fmt.Printf("%-27s %s\n", "Data predictions", scoreColor(fb.DataPredictions.Score, 5).Sprintf("%.1f/5", fb.DataPredictions.Score))
	fmt.Printf("%-27s %s\n", "Data analysis", scoreColor(fb.DataAnalysis.Score, 5).Sprintf("%.1f/5", fb.DataAnalysis.Score))

	fmt.Println()
	fmt.Printf("Overall: %s\n", scoreColor(fb.Overall.Score, 5).Sprintf("%.1f/5", fb.Overall.Score))
	if fb.Overall.Summary != "" {
		fmt.Println(fb.Overall.Summary)
	}
	if fb.Overall.TopImprovement != "" {
		color.Yellow("Top improvement: %s", fb.Overall.TopImprovement)
	}

	if imp := rec.Improvement; imp != nil {
		fmt.Println()
		head.Println("Compared with earlier sessions")
		fmt.Println(sep)
		if imp.OverallTrend != "" {
			fmt.Printf("Trend: %s\n", imp.OverallTrend)
		}
		for _, s := range imp.Improvements {
			color.Green("+ %s", s)
		}
		for _, s := range imp.PersistentIssues {
			color.Red("- %s", s)
		}
		if imp.Recommendation != "" {
			fmt.Println(imp.Recommendation)
		}
	}
}

func scoreColor(score, outOf float64) *color.Color {
	switch ratio := score / outOf; {
	case ratio >= 0.8:
		return color.New(color.FgGreen)
	case ratio >= 0.5:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// shortTimestamp trims an ISO timestamp to seconds without the T separator.
func shortTimestamp(ts string) string {
	ts = strings.Replace(ts, "T", " ", 1)
	if len(ts) > 19 {
		ts = ts[:19]
	}
	return ts
}
