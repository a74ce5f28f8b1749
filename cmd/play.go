package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/docdrill/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a timed exercise right away",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.EntryExercise, "")
	},
}
