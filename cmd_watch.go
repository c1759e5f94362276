package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glockmonth/2100-Hours/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Build the page and rebuild whenever the local export changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.Contains(cfg.CSV, "://") && !strings.HasPrefix(cfg.CSV, "file://") {
			return errors.New("watch needs a local CSV path")
		}
		path := strings.TrimPrefix(cfg.CSV, "file://")

		ctx := cmd.Context()
		if err := runBuild(ctx); err != nil {
			return err
		}
		return watch.Watch(ctx, path, cfg.WatchDebounce, logger, func() {
			if err := runBuild(ctx); err != nil {
				logger.Error("Rebuild failed", zap.Error(err))
			}
		})
	},
}
