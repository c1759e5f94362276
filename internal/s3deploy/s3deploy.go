package s3deploy

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Uploader is the subset of manager.Uploader used for deploys.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// DistributionAPI is the subset of the CloudFront client used here.
type DistributionAPI interface {
	cloudfront.ListDistributionsAPIClient
	CreateDistribution(ctx context.Context, params *cloudfront.CreateDistributionInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateDistributionOutput, error)
}

// LoadConfig loads the default AWS configuration, pinned to region when set.
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}
	return cfg, nil
}

// NewUploader returns a multipart S3 uploader for cfg.
func NewUploader(cfg aws.Config) *manager.Uploader {
	return manager.NewUploader(s3.NewFromConfig(cfg))
}

// NewDistributionClient returns a CloudFront client for cfg.
func NewDistributionClient(cfg aws.Config) *cloudfront.Client {
	return cloudfront.NewFromConfig(cfg)
}

// DeploySite uploads every file under outputDir to the bucket, keyed by its
// path relative to outputDir.
func DeploySite(ctx context.Context, uploader Uploader, bucketName, outputDir string, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("Starting deployment", zap.String("bucket", bucketName), zap.String("dir", outputDir))

	uploaded := 0
	err := filepath.Walk(outputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(relPath)

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open file %s: %w", path, err)
		}
		defer file.Close()

		_, err = uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucketName),
			Key:         aws.String(key),
			Body:        file,
			ContentType: aws.String(ContentType(path)),
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s to S3: %w", key, err)
		}

		uploaded++
		logger.Debug("Uploaded", zap.String("key", key), zap.String("bucket", bucketName))
		return nil
	})
	if err != nil {
		return uploaded, fmt.Errorf("deployment failed: %w", err)
	}

	logger.Info("Deployment complete", zap.Int("files", uploaded))
	return uploaded, nil
}

// ContentType guesses a Content-Type from the file extension.
func ContentType(path string) string {
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType
}

func originDomain(bucketName string) string {
	return fmt.Sprintf("%s.s3.amazonaws.com", bucketName)
}

// EnsureDistribution returns the ID of the CloudFront distribution serving
// bucketName, creating one when none exists.
func EnsureDistribution(ctx context.Context, cf DistributionAPI, bucketName string, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	distID, err := FindDistribution(ctx, cf, bucketName)
	if err != nil {
		return "", fmt.Errorf("failed to check for existing CloudFront distribution: %w", err)
	}
	if distID != "" {
		logger.Info("CloudFront distribution already exists", zap.String("bucket", bucketName), zap.String("id", distID))
		return distID, nil
	}

	callerReference := fmt.Sprintf("statboard-%d", time.Now().Unix())

	input := &cloudfront.CreateDistributionInput{
		DistributionConfig: &types.DistributionConfig{
			CallerReference: aws.String(callerReference),
			Comment:         aws.String(fmt.Sprintf("Leaderboard for S3 bucket %s", bucketName)),
			Enabled:         aws.Bool(true),
			DefaultCacheBehavior: &types.DefaultCacheBehavior{
				TargetOriginId:       aws.String(bucketName),
				ViewerProtocolPolicy: types.ViewerProtocolPolicyRedirectToHttps,
				TrustedSigners:       &types.TrustedSigners{Enabled: aws.Bool(false), Quantity: aws.Int32(0)},
				ForwardedValues: &types.ForwardedValues{
					QueryString: aws.Bool(false),
					Cookies:     &types.CookiePreference{Forward: types.ItemSelectionNone},
				},
				MinTTL: aws.Int64(0),
			},
			Origins: &types.Origins{
				Quantity: aws.Int32(1),
				Items: []types.Origin{
					{
						Id:         aws.String(bucketName),
						DomainName: aws.String(originDomain(bucketName)),
						S3OriginConfig: &types.S3OriginConfig{
							OriginAccessIdentity: aws.String(""), // public bucket, no OAI
						},
					},
				},
			},
			PriceClass:        types.PriceClassPriceClass100,
			DefaultRootObject: aws.String("index.html"),
			Restrictions: &types.Restrictions{
				GeoRestriction: &types.GeoRestriction{
					RestrictionType: types.GeoRestrictionTypeNone,
					Quantity:        aws.Int32(0),
				},
			},
			ViewerCertificate: &types.ViewerCertificate{
				CloudFrontDefaultCertificate: aws.Bool(true),
				MinimumProtocolVersion:       types.MinimumProtocolVersionTLSv12016,
				CertificateSource:            types.CertificateSourceCloudfront,
			},
		},
	}

	resp, err := cf.CreateDistribution(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to create CloudFront distribution: %w", err)
	}

	logger.Info("Created CloudFront distribution",
		zap.String("id", aws.ToString(resp.Distribution.Id)),
		zap.String("domain", aws.ToString(resp.Distribution.DomainName)))
	return aws.ToString(resp.Distribution.Id), nil
}

// FindDistribution returns the ID of a distribution whose origin is the
// bucket, or "" if there is none.
func FindDistribution(ctx context.Context, cf cloudfront.ListDistributionsAPIClient, bucketName string) (string, error) {
	paginator := cloudfront.NewListDistributionsPaginator(cf, &cloudfront.ListDistributionsInput{})
	want := originDomain(bucketName)

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list CloudFront distributions: %w", err)
		}
		if page.DistributionList == nil {
			continue
		}
		for _, dist := range page.DistributionList.Items {
			if dist.Origins == nil {
				continue
			}
			for _, origin := range dist.Origins.Items {
				if aws.ToString(origin.DomainName) == want {
					return aws.ToString(dist.Id), nil
				}
			}
		}
	}
	return "", nil
}
