package models

import "time"

// Statistics aggregates a user's activity. The auth service only creates
// it, empty, when the user registers.
type Statistics struct {
	ID            string
	UserID        string
	Weekly        []PeriodTotals
	Monthly       []PeriodTotals
	Yearly        []PeriodTotals
	TotalDistance TotalDistance
}

// PeriodTotals is one aggregation bucket (a week, a month or a year).
type PeriodTotals struct {
	PeriodStart time.Time `json:"period_start" bson:"period_start"`
	Distance    float64   `json:"distance" bson:"distance"`
	Duration    float64   `json:"duration" bson:"duration"`
	Count       int64     `json:"count" bson:"count"`
}

// TotalDistance is the running total since YearStart.
type TotalDistance struct {
	YearStart   time.Time
	Distance    float64
	Duration    float64
	Count       int64
	AveragePace float64
}

// NewStatistics returns the record created at registration: no buckets and
// a zeroed running total stamped with now.
func NewStatistics(userID string, now time.Time) *Statistics {
	return &Statistics{
		UserID:        userID,
		Weekly:        []PeriodTotals{},
		Monthly:       []PeriodTotals{},
		Yearly:        []PeriodTotals{},
		TotalDistance: TotalDistance{YearStart: now},
	}
}
