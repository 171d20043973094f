package service

import (
	"context"
	"time"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
)

const DefaultPeriod = "24h"

var periods = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"48h": 48 * time.Hour,
	"1w":  7 * 24 * time.Hour,
	"1m":  30 * 24 * time.Hour,
}

type AggregateService struct {
	store ReadingStore
	now   func() time.Time
}

func NewAggregateService(store ReadingStore) *AggregateService {
	return &AggregateService{store: store, now: time.Now}
}

// PeriodWindow returns [end-d, end] for a period literal.
func PeriodWindow(period string, end time.Time) (time.Time, time.Time, error) {
	d, ok := periods[period]
	if !ok {
		return time.Time{}, time.Time{}, domain.ErrInvalidPeriod
	}
	return end.Add(-d), end, nil
}

// Averages computes the mean value per equipment id over the period
// ending now.
func (s *AggregateService) Averages(ctx context.Context, period string) ([]domain.EquipmentAverage, error) {
	start, end, err := PeriodWindow(period, s.now())
	if err != nil {
		return nil, err
	}
	return s.store.AverageByEquipment(ctx, start, end)
}
