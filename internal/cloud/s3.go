package cloud

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// LoadAWSConfig reads credentials from the environment/shared config.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return cfg, nil
}

// S3Archiver keeps a copy of every raw CSV upload.
type S3Archiver struct {
	svc    *s3.Client
	bucket string
	now    func() time.Time
}

func NewS3Archiver(cfg aws.Config, bucket string) *S3Archiver {
	return &S3Archiver{
		svc:    s3.NewFromConfig(cfg),
		bucket: bucket,
		now:    time.Now,
	}
}

// ArchiveUpload stores data under ArchiveKey and returns the key.
func (a *S3Archiver) ArchiveUpload(ctx context.Context, filename string, data []byte) (string, error) {
	now := a.now()
	key := ArchiveKey(now, uuid.NewString(), filename)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
		Metadata: map[string]string{
			"uploaded-at":       now.UTC().Format(time.RFC3339),
			"original-filename": filename,
		},
	}

	if _, err := a.svc.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}

// ArchiveKey builds uploads/YYYY/MM/DD/<id>-<base name of filename>.
func ArchiveKey(now time.Time, id, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		name = "upload.csv"
	}
	return fmt.Sprintf("uploads/%s/%s-%s", now.UTC().Format("2006/01/02"), id, name)
}
