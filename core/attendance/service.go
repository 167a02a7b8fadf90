package attendance

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Report statuses
const (
	StatusOK               = "ok"
	StatusInsufficientData = "insufficient_data"
	StatusEmpty            = "empty"
)

type (
	Repository interface {
		// QueryRecords returns the records matching every set field of the filter.
		QueryRecords(ctx context.Context, filter QueryFilter) ([]Record, error)
		QuerySubjects(ctx context.Context) ([]Subject, error)
	}

	// TrendReport is the trend of a filtered record set.
	// Projection is only set when Status is StatusOK.
	TrendReport struct {
		Status     string            `json:"status"`
		Filter     QueryFilter       `json:"filter"`
		Dropped    int               `json:"dropped"`
		Historical []PeriodAggregate `json:"historical"`
		Percent    int               `json:"percent"`
		Risk       RiskLevel         `json:"risk,omitempty"`
		Direction  TrendDirection    `json:"direction,omitempty"`
		Projection *TrendProjection  `json:"projection,omitempty"`
	}

	Service struct {
		repo     Repository
		settings Settings
	}
)

func NewService(repo Repository, settings Settings) *Service {
	return &Service{repo: repo, settings: settings}
}

func (svc *Service) Settings() Settings { return svc.settings }

// Trend aggregates the filtered records by period, classifies their trend and projects `horizon` periods.
// No data and too little data are report statuses, not errors.
func (svc *Service) Trend(ctx context.Context, filter QueryFilter, horizon int) (TrendReport, error) {
	records, err := svc.repo.QueryRecords(ctx, filter)
	if err != nil {
		return TrendReport{}, pkgerrors.Wrap(err, "querying attendance records")
	}
	return svc.settings.BuildTrend(filter, records, horizon), nil
}

// BuildTrend computes a TrendReport over already loaded records.
func (s Settings) BuildTrend(filter QueryFilter, records []Record, horizon int) TrendReport {
	agg := s.Aggregator().Aggregate(records)
	return s.TrendOf(filter, agg, horizon)
}

// TrendOf computes a TrendReport over an aggregation.
func (s Settings) TrendOf(filter QueryFilter, agg Aggregation, horizon int) TrendReport {
	report := TrendReport{
		Status:     StatusOK,
		Filter:     filter,
		Dropped:    agg.Dropped,
		Historical: agg.Series(),
	}

	projection, err := s.Estimate(agg, horizon)
	switch {
	case errors.Is(err, ErrEmptyInput):
		report.Status = StatusEmpty
		return report
	case errors.Is(err, ErrInsufficientData):
		report.Status = StatusInsufficientData
	case err == nil:
		report.Projection = &projection
	}

	total, present := agg.Totals()
	pct := counter{total: total, present: present}.percent()
	report.Percent = ClampPercent(pct)
	report.Risk, _ = s.ClassifyRisk(pct)
	report.Direction = s.ClassifyTrend(agg.Percents())
	return report
}

func (svc *Service) StudentSummaries(ctx context.Context, filter QueryFilter) ([]StudentSummary, error) {
	records, err := svc.repo.QueryRecords(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "querying attendance records")
	}
	return svc.settings.Summarize(records), nil
}

func (svc *Service) SubjectRisks(ctx context.Context, filter QueryFilter) ([]SubjectRisk, error) {
	summaries, err := svc.StudentSummaries(ctx, filter)
	if err != nil {
		return nil, err
	}
	return SubjectRisks(summaries), nil
}

func (svc *Service) RiskOverview(ctx context.Context, filter QueryFilter) (RiskOverview, error) {
	summaries, err := svc.StudentSummaries(ctx, filter)
	if err != nil {
		return RiskOverview{}, err
	}
	return Overview(summaries), nil
}

func (svc *Service) Subjects(ctx context.Context) ([]Subject, error) {
	subjects, err := svc.repo.QuerySubjects(ctx)
	return subjects, pkgerrors.Wrap(err, "querying subjects")
}
