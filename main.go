package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glockmonth/2100-Hours/internal/config"
	"github.com/glockmonth/2100-Hours/internal/loader"
	"github.com/glockmonth/2100-Hours/internal/logging"
	"github.com/glockmonth/2100-Hours/internal/s3deploy"
)

const defaultConfigPath = "statboard.yaml"

var (
	configPath string
	verbose    bool
	csvFlag    string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "statboard",
	Short: "Render the community activity leaderboard",
	Long: `statboard reads the member activity export (id,name,rank,hours,status[,prize]),
ranks members by hours and renders the leaderboard as a static page, a terminal
view or over HTTP.

Run without a command to build the static page.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return err
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if csvFlag != "" {
			cfg.CSV = csvFlag
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&csvFlag, "csv", "", "member export: path, http(s) URL or s3://bucket/key")

	rootCmd.AddCommand(buildCmd, showCmd, serveCmd, deployCmd, watchCmd, configCmd)
}

// newLoader wires the loader to the configured fetch timeout and, for
// s3:// locators, an S3 client built on first use.
func newLoader() *loader.Loader {
	fetcher := loader.NewFetcher(loader.FetcherOptions{
		Timeout: cfg.FetchTimeout,
		S3: func(ctx context.Context) (loader.ObjectGetter, error) {
			awsCfg, err := s3deploy.LoadConfig(ctx, cfg.Region)
			if err != nil {
				return nil, err
			}
			return s3.NewFromConfig(awsCfg), nil
		},
	})
	return loader.New(fetcher, logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
