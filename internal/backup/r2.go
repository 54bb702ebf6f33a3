// Package backup archives closing-run snapshots to S3-compatible object
// storage (Cloudflare R2).
package backup

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"entrega-backend/internal/models"
)

type Exporter struct {
	client *s3.Client
	bucket string
}

// NewExporter builds an exporter from R2_* environment variables. Returns
// nil when storage is not configured; the closing job then skips export.
func NewExporter(ctx context.Context) *Exporter {
	accountID := os.Getenv("R2_ACCOUNT_ID")
	accessKey := os.Getenv("R2_ACCESS_KEY_ID")
	secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")
	bucket := os.Getenv("R2_BUCKET")
	if accountID == "" || accessKey == "" || secretKey == "" || bucket == "" {
		log.Printf("[Backup] R2 not configured, closing snapshots disabled")
		return nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		log.Printf("[Backup] Failed to load storage config: %v", err)
		return nil
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	log.Printf("[Backup] Closing snapshots will be written to bucket %s", bucket)
	return &Exporter{client: client, bucket: bucket}
}

// ExportClosing writes one CSV per closing run, keyed by month and run time
// so forced re-runs never overwrite earlier snapshots.
func (e *Exporter) ExportClosing(ctx context.Context, month string, summaries []models.InvoiceSummary) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"client_id", "client_name", "month", "status", "total"}); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	for _, s := range summaries {
		record := []string{
			strconv.Itoa(s.ClientID),
			s.Name,
			s.Month,
			s.Status,
			strconv.FormatFloat(s.Total, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write snapshot row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	key := fmt.Sprintf("closings/%s/%s.csv", month, time.Now().UTC().Format("20060102T150405Z"))
	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}

	log.Printf("[Backup] Closing snapshot uploaded: %s (%d row(s))", key, len(summaries))
	return nil
}
