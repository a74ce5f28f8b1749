package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/app"
)

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Answer one timed question",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		if mode != "" && !slices.Contains(api.QuickModes, mode) {
			return fmt.Errorf("invalid mode %q (want one of %s)", mode, strings.Join(api.QuickModes, ", "))
		}
		return runApp(cmd, app.EntryQuick, mode)
	},
}

func init() {
	quickCmd.Flags().String("mode", "", "Duration mode: "+strings.Join(api.QuickModes, ", ")+" (default: ask)")
}
