package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of the S3 client the fetcher needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type FetcherOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	// S3 is consulted lazily, only for s3:// locators.
	S3 func(ctx context.Context) (ObjectGetter, error)
}

// Fetcher retrieves raw export bytes from a path, an http(s) URL or an
// s3://bucket/key URL.
type Fetcher struct {
	client *http.Client
	s3     func(ctx context.Context) (ObjectGetter, error)
}

// NewFetcher returns a Fetcher. Without an HTTP client one is built with
// opts.Timeout, or 10s when that is unset.
func NewFetcher(opts FetcherOptions) *Fetcher {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{client: client, s3: opts.S3}
}

// Fetch returns the raw bytes behind locator.
func (f *Fetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	switch {
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return f.fetchHTTP(ctx, locator)
	case strings.HasPrefix(locator, "s3://"):
		return f.fetchS3(ctx, locator)
	case strings.HasPrefix(locator, "file://"):
		u, err := url.Parse(locator)
		if err != nil {
			return nil, fmt.Errorf("invalid file URL %s: %w", locator, err)
		}
		return readFile(u.Path)
	default:
		return readFile(locator)
	}
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open CSV file: %w", err)
	}
	return data, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, locator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", locator, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", locator, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", locator, err)
	}
	return body, nil
}

func (f *Fetcher) fetchS3(ctx context.Context, locator string) ([]byte, error) {
	bucket, key, err := splitS3Locator(locator)
	if err != nil {
		return nil, err
	}
	if f.s3 == nil {
		return nil, fmt.Errorf("no S3 client configured for %s", locator)
	}
	client, err := f.s3(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err)
	}
	return body, nil
}

func splitS3Locator(locator string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(locator, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 locator %q, want s3://bucket/key", locator)
	}
	return bucket, key, nil
}
