package cloud

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveKey(t *testing.T) {
	at := time.Date(2026, 10, 19, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600))

	assert.Equal(t, "uploads/2026/10/20/abc-data.csv", ArchiveKey(at, "abc", "data.csv"))
	assert.Equal(t, "uploads/2026/10/20/abc-data.csv", ArchiveKey(at, "abc", "../../etc/data.csv"))
	assert.Equal(t, "uploads/2026/10/20/abc-data.csv", ArchiveKey(at, "abc", `C:\Users\op\data.csv`))
	assert.Equal(t, "uploads/2026/10/20/abc-upload.csv", ArchiveKey(at, "abc", ""))
}

func TestFormatUploadReport(t *testing.T) {
	subject, body := FormatUploadReport(UploadReport{
		Filename:   "data.csv",
		ArchiveKey: "uploads/2026/10/19/x-data.csv",
		Accepted:   3,
		Errors:     []string{"Row 2: value: A valid number is required."},
	})

	assert.Equal(t, "Sensor upload data.csv: 3 accepted, 1 rejected", subject)
	assert.Contains(t, body, "Archived as: uploads/2026/10/19/x-data.csv")
	assert.Contains(t, body, "1. Row 2: value: A valid number is required.")
}

func TestFormatUploadReportTruncatesErrors(t *testing.T) {
	var errs []string
	for i := 0; i < maxReportedErrors+5; i++ {
		errs = append(errs, fmt.Sprintf("Row %d: bad", i+2))
	}
	_, body := FormatUploadReport(UploadReport{Filename: "f.csv", Errors: errs})

	assert.Equal(t, maxReportedErrors, strings.Count(body, ": bad"))
	assert.Contains(t, body, "... and 5 more")
	assert.NotContains(t, body, "Archived as")
}

func TestUploadItem(t *testing.T) {
	at := time.Unix(1700000000, 0)
	var errs []string
	for i := 0; i < maxReportedErrors+2; i++ {
		errs = append(errs, fmt.Sprintf("Row %d: bad", i+2))
	}

	item := NewUploadItem("id-1", at, UploadReport{Filename: "f.csv", Accepted: 4, Errors: errs})
	assert.Equal(t, int64(1700000000), item.UploadedAt)
	assert.Equal(t, maxReportedErrors+2, item.Rejected)
	assert.Len(t, item.Errors, maxReportedErrors)

	av, err := attributevalue.MarshalMap(item)
	require.NoError(t, err)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "id-1"}, av["uploadId"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "4"}, av["accepted"])
	assert.NotContains(t, av, "archiveKey")
}
