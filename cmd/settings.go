package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/logging"
	"github.com/abhisek/docdrill/internal/timer"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the practice service settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, err := newClient(cfg, logging.Nop())
		if err != nil {
			return err
		}

		s, err := client.GetSettings(context.Background())
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}
		printSettings(s)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set key=value [key=value...]",
	Short: "Change practice service settings",
	Long:  "Change practice service settings. Keys: model_key, timer_request, timer_document,\ntimer_predictions, timer_data, cost_limit, domain, difficulty.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		upd, err := api.ParseSettingsUpdate(args)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, err := newClient(cfg, logging.Nop())
		if err != nil {
			return err
		}

		s, err := client.UpdateSettings(context.Background(), upd)
		if err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		color.Green("Settings updated.")
		printSettings(s)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

func printSettings(s *api.Settings) {
	key := color.New(color.FgCyan)

	domain := "any"
	if s.Domain != nil && *s.Domain != "" {
		domain = *s.Domain
	}

	rows := []struct{ k, v string }{
		{"model", fmt.Sprintf("%s (%s)", s.ModelKey, s.ModelName)},
		{"difficulty", s.Difficulty},
		{"domain", domain},
		{"cost_limit", fmt.Sprintf("$%.2f", s.CostLimit)},
		{"timer_request", timer.FormatSeconds(s.TimerRequest)},
		{"timer_document", timer.FormatSeconds(s.TimerDocument)},
		{"timer_predictions", timer.FormatSeconds(s.TimerPredictions)},
		{"timer_data", timer.FormatSeconds(s.TimerData)},
	}
	for _, r := range rows {
		key.Printf("%-18s", r.k)
		fmt.Println(r.v)
	}

	if len(s.AvailableModels) > 0 {
		keys := make([]string, 0, len(s.AvailableModels))
		for k := range s.AvailableModels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println()
		key.Println("available models")
		for _, k := range keys {
			marker := "  "
			if k == s.ModelKey {
				marker = color.GreenString("* ")
			}
			fmt.Printf("%s%-16s %s\n", marker, k, s.AvailableModels[k])
		}
	}
}
