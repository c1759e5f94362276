package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glockmonth/2100-Hours/internal/board"
	"github.com/glockmonth/2100-Hours/internal/pagegen"
	"github.com/glockmonth/2100-Hours/internal/utils"
)

// accentCount is how many --color-N variables the page gets from the logo.
const accentCount = 5

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static leaderboard page",
	RunE: func(cmd *cobra.Command, args []string) error {
		if buildOut != "" {
			cfg.OutputDir = buildOut
		}
		return runBuild(cmd.Context())
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildOut, "out", "", "output directory (default from config)")
}

// pageOptions derives page-level options from config. A logo that cannot be
// read only costs the accent colours.
func pageOptions() pagegen.Options {
	opts := pagegen.Options{Title: cfg.Title}
	if cfg.LogoPath == "" {
		return opts
	}
	accents, err := utils.DominantColors(cfg.LogoPath, accentCount)
	if err != nil {
		logger.Warn("Skipping accent colours", zap.String("logo", cfg.LogoPath), zap.Error(err))
		return opts
	}
	opts.Accents = accents
	return opts
}

func runBuild(ctx context.Context) error {
	fmt.Println("Starting leaderboard generation...")

	page := pagegen.NewPage()
	model := board.Run(ctx, newLoader(), cfg.CSV, page)

	copied, err := utils.CopyStaticAssets(cfg.StaticDir, cfg.OutputDir)
	if err != nil {
		return err
	}
	logger.Debug("Static assets copied", zap.Int("files", copied))

	outputPath, err := pagegen.GeneratePage(cfg.OutputDir, page, pageOptions())
	if err != nil {
		return err
	}

	fmt.Printf("Generated %s (%d members, %d rows skipped)\n", outputPath, model.Stats.TotalMembers, len(model.Skipped))
	return nil
}
