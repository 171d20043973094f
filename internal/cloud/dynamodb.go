package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
)

// UploadLedger records one item per CSV upload in a DynamoDB table
// keyed by uploadId.
type UploadLedger struct {
	svc   *dynamodb.Client
	table string
	now   func() time.Time
}

func NewUploadLedger(cfg aws.Config, table string) *UploadLedger {
	return &UploadLedger{
		svc:   dynamodb.NewFromConfig(cfg),
		table: table,
		now:   time.Now,
	}
}

// UploadItem is the DynamoDB shape of an upload record.
type UploadItem struct {
	UploadID   string   `dynamodbav:"uploadId"`
	UploadedAt int64    `dynamodbav:"uploadedAt"`
	Filename   string   `dynamodbav:"filename"`
	ArchiveKey string   `dynamodbav:"archiveKey,omitempty"`
	Accepted   int      `dynamodbav:"accepted"`
	Rejected   int      `dynamodbav:"rejected"`
	Errors     []string `dynamodbav:"errors,omitempty"`
}

// NewUploadItem quotes at most maxReportedErrors row errors; DynamoDB
// items are capped at 400KB.
func NewUploadItem(id string, at time.Time, r UploadReport) UploadItem {
	errs := r.Errors
	if len(errs) > maxReportedErrors {
		errs = errs[:maxReportedErrors]
	}
	return UploadItem{
		UploadID:   id,
		UploadedAt: at.Unix(),
		Filename:   r.Filename,
		ArchiveKey: r.ArchiveKey,
		Accepted:   r.Accepted,
		Rejected:   len(r.Errors),
		Errors:     errs,
	}
}

func (l *UploadLedger) RecordUpload(ctx context.Context, report UploadReport) error {
	item, err := attributevalue.MarshalMap(NewUploadItem(uuid.NewString(), l.now(), report))
	if err != nil {
		return fmt.Errorf("failed to marshal upload record: %w", err)
	}

	_, err = l.svc.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in DynamoDB: %w", err)
	}
	return nil
}
