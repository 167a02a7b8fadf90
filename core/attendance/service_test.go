package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoStub struct {
	records []Record
	err     error
}

func (r repoStub) QueryRecords(_ context.Context, filter QueryFilter) ([]Record, error) {
	if r.err != nil {
		return nil, r.err
	}
	var res []Record
	for _, rec := range r.records {
		if filter.Match(rec) {
			res = append(res, rec)
		}
	}
	return res, nil
}

func (r repoStub) QuerySubjects(context.Context) ([]Subject, error) {
	return nil, r.err
}

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	NowFunc = func() time.Time { return now }
	t.Cleanup(func() { NowFunc = time.Now })
}

func TestService_Trend(t *testing.T) {
	withNow(t, day(2024, time.June, 1))

	// 40%, 50%, 60% over three months
	var records []Record
	for m, present := range map[time.Month]int{time.January: 4, time.February: 5, time.March: 6} {
		for i := 0; i < 10; i++ {
			records = append(records, rec("s1", "math", day(2024, m, i+1), i < present))
		}
	}
	records = append(records, rec("s2", "bio", day(2024, time.March, 2), false))
	svc := NewService(repoStub{records: records}, DefaultSettings())
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		report, err := svc.Trend(ctx, QueryFilter{SubjectID: "math"}, 0)
		require.NoError(t, err)
		assert.Equal(t, StatusOK, report.Status)
		assert.Equal(t, 50, report.Percent)
		assert.Equal(t, RiskMedium, report.Risk)
		assert.Equal(t, TrendImproving, report.Direction)
		require.NotNil(t, report.Projection)
		assert.InDelta(t, 10, report.Projection.Slope, 1e-9)
		assert.InDelta(t, 30, report.Projection.Intercept, 1e-9)

		var periods []string
		var ratios []int
		for _, p := range report.Projection.Projected {
			periods = append(periods, p.Period)
			ratios = append(ratios, p.Ratio)
		}
		assert.Equal(t, []string{"2024-04", "2024-05", "2024-06"}, periods)
		assert.Equal(t, []int{70, 80, 90}, ratios)
	})

	t.Run("explicit horizon", func(t *testing.T) {
		report, err := svc.Trend(ctx, QueryFilter{SubjectID: "math"}, 1)
		require.NoError(t, err)
		require.NotNil(t, report.Projection)
		assert.Len(t, report.Projection.Projected, 1)
	})

	t.Run("single period", func(t *testing.T) {
		report, err := svc.Trend(ctx, QueryFilter{SubjectID: "bio"}, 0)
		require.NoError(t, err)
		assert.Equal(t, StatusInsufficientData, report.Status)
		assert.Nil(t, report.Projection)
		assert.Len(t, report.Historical, 1)
		assert.Equal(t, RiskHigh, report.Risk)
		assert.Equal(t, TrendStable, report.Direction)
	})

	t.Run("no data", func(t *testing.T) {
		report, err := svc.Trend(ctx, QueryFilter{SubjectID: "art"}, 0)
		require.NoError(t, err)
		assert.Equal(t, StatusEmpty, report.Status)
		assert.Nil(t, report.Projection)
		assert.Empty(t, report.Historical)
	})

	t.Run("repository error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := NewService(repoStub{err: boom}, DefaultSettings()).Trend(ctx, QueryFilter{}, 0)
		assert.Equal(t, boom, pkgerrors.Cause(err))
	})
}

func TestSettings_Estimate(t *testing.T) {
	s := DefaultSettings()

	_, err := s.Estimate(Aggregation{}, 3)
	assert.Equal(t, ErrEmptyInput, err)

	single := Aggregator{Now: fixedNow(day(2024, time.June, 1))}.Aggregate(sampleRecords[:2])
	_, err = s.Estimate(single, 3)
	assert.Equal(t, ErrInsufficientData, err)

	// week buckets roll up to the next month when labelling projections
	weekly := Aggregator{WeeklyCurrentMonth: true, Now: fixedNow(day(2024, time.March, 20))}.Aggregate(sampleRecords)
	proj, err := s.Estimate(weekly, 2)
	require.NoError(t, err)
	require.Len(t, proj.Projected, 2)
	assert.Equal(t, "2024-04", proj.Projected[0].Period)
	assert.Equal(t, 5, proj.Projected[0].Index)
	for _, p := range proj.Projected {
		assert.True(t, p.Ratio >= 0 && p.Ratio <= 100)
	}
}
