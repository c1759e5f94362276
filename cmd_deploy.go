package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glockmonth/2100-Hours/internal/s3deploy"
)

var (
	deployBucket     string
	deployCloudFront bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Build the page and upload it to an S3 bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		if deployBucket != "" {
			cfg.Bucket = deployBucket
		}
		if cmd.Flags().Changed("cloudfront") {
			cfg.CloudFront = deployCloudFront
		}
		if cfg.Bucket == "" {
			return errors.New("S3 bucket name is required for deploy, use --bucket <bucket-name>")
		}

		ctx := cmd.Context()
		if err := runBuild(ctx); err != nil {
			return err
		}

		awsCfg, err := s3deploy.LoadConfig(ctx, cfg.Region)
		if err != nil {
			return err
		}
		if _, err := s3deploy.DeploySite(ctx, s3deploy.NewUploader(awsCfg), cfg.Bucket, cfg.OutputDir, logger); err != nil {
			return err
		}

		if !cfg.CloudFront {
			return nil
		}
		fmt.Println("Ensuring CloudFront distribution...")
		distID, err := s3deploy.EnsureDistribution(ctx, s3deploy.NewDistributionClient(awsCfg), cfg.Bucket, logger)
		if err != nil {
			return err
		}
		fmt.Printf("CloudFront distribution ready with ID: %s\n", distID)
		return nil
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployBucket, "bucket", "", "S3 bucket name to deploy to")
	deployCmd.Flags().BoolVar(&deployCloudFront, "cloudfront", false, "create or reuse a CloudFront distribution for the bucket")
}
