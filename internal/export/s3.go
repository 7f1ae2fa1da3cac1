// Package export uploads dashboard payload snapshots to S3 so operators can
// archive or share a point-in-time report.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/agentops-portal/internal/dashboard"
)

// Exporter writes payload snapshots to an S3 bucket.
type Exporter struct {
	client *s3.Client
	bucket string
}

// NewExporter creates an S3-backed exporter using the shared AWS config
// chain; profile may be empty.
func NewExporter(ctx context.Context, bucket, region, profile string) (*Exporter, error) {
	var cfg aws.Config
	var err error

	if profile != "" {
		cfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(region),
			config.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Exporter{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// Export uploads p as pretty-printed JSON and returns the object key.
// Keys sort chronologically within a period prefix.
func (e *Exporter) Export(ctx context.Context, p *dashboard.Payload) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	key := fmt.Sprintf("dashboards/%s/%s.json", p.Period, time.Now().UTC().Format("20060102T150405Z"))
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}
	return key, nil
}
