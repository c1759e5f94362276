package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glockmonth/2100-Hours/internal/board"
	"github.com/glockmonth/2100-Hours/internal/termview"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the leaderboard to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		view := termview.New(cfg.Title)
		board.Run(cmd.Context(), newLoader(), cfg.CSV, view)
		fmt.Fprint(cmd.OutOrStdout(), view.String())
		return nil
	},
}
