package cloud

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"
)

// number of row errors quoted in a notification
const maxReportedErrors = 10

// UploadReport summarises one CSV upload.
type UploadReport struct {
	Filename   string
	ArchiveKey string
	Accepted   int
	Errors     []string
}

// SNSNotifier publishes upload reports to an SNS topic.
type SNSNotifier struct {
	svc      *sns.Client
	topicArn string
}

func NewSNSNotifier(cfg aws.Config, topicArn string) *SNSNotifier {
	return &SNSNotifier{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
	}
}

func (n *SNSNotifier) NotifyUploadReport(ctx context.Context, report UploadReport) error {
	subject, message := FormatUploadReport(report)
	input := &sns.PublishInput{
		TopicArn: aws.String(n.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}

	result, err := n.svc.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}

	log.Debug().Str("message_id", aws.ToString(result.MessageId)).Msg("upload report published")
	return nil
}

// FormatUploadReport renders the SNS subject and body for a report.
func FormatUploadReport(r UploadReport) (string, string) {
	subject := fmt.Sprintf("Sensor upload %s: %d accepted, %d rejected", r.Filename, r.Accepted, len(r.Errors))

	var b strings.Builder
	b.WriteString("CSV Upload Report\n\n")
	fmt.Fprintf(&b, "File: %s\n", r.Filename)
	if r.ArchiveKey != "" {
		fmt.Fprintf(&b, "Archived as: %s\n", r.ArchiveKey)
	}
	fmt.Fprintf(&b, "Rows accepted: %d\n", r.Accepted)
	fmt.Fprintf(&b, "Rows rejected: %d\n", len(r.Errors))

	if len(r.Errors) > 0 {
		b.WriteString("\nRejected rows:\n")
		for i, e := range r.Errors {
			if i == maxReportedErrors {
				fmt.Fprintf(&b, "... and %d more\n", len(r.Errors)-maxReportedErrors)
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, e)
		}
	}
	return subject, b.String()
}
