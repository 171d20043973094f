package http

import (
	"fmt"
	"time"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/service"
)

type readingResponse struct {
	ID          int64  `json:"id"`
	EquipmentID string `json:"equipment_id"`
	Timestamp   string `json:"timestamp"`
	Value       string `json:"value"`
}

func newReadingResponse(rd domain.Reading) readingResponse {
	return readingResponse{
		ID:          rd.ID,
		EquipmentID: rd.EquipmentID,
		Timestamp:   rd.Timestamp.UTC().Format(time.RFC3339Nano),
		Value:       rd.Value.StringFixed(2),
	}
}

type uploadResponse struct {
	Success      string   `json:"success"`
	SuccessCount int      `json:"success_count"`
	Errors       []string `json:"errors,omitempty"`
}

type uploadFailedResponse struct {
	SuccessCount int      `json:"success_count"`
	Errors       []string `json:"errors"`
}

func newUploadResponse(res service.UploadResult) uploadResponse {
	return uploadResponse{
		Success:      fmt.Sprintf("Successfully processed %d rows", res.Accepted),
		SuccessCount: res.Accepted,
		Errors:       res.Errors,
	}
}

func newUploadFailedResponse(res service.UploadResult) uploadFailedResponse {
	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	return uploadFailedResponse{SuccessCount: 0, Errors: errs}
}

type aggregateResponse struct {
	EquipmentID string  `json:"equipment_id"`
	AvgValue    float64 `json:"avg_value"`
}

func newAggregateResponse(avgs []domain.EquipmentAverage) []aggregateResponse {
	out := make([]aggregateResponse, 0, len(avgs))
	for _, a := range avgs {
		out = append(out, aggregateResponse{EquipmentID: a.EquipmentID, AvgValue: a.AvgValue.InexactFloat64()})
	}
	return out
}

// credentialsRequest is shared by /register and /token.
type credentialsRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" form:"refresh"`
}

type accessResponse struct {
	Access string `json:"access"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Readings int    `json:"readings"`
	Accounts int    `json:"accounts"`
}
