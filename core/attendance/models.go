package attendance

import (
	"errors"
	"time"
)

var (
	// errors
	ErrEmptyInput       = errors.New("no attendance records")
	ErrInsufficientData = errors.New("not enough periods to estimate a trend")
	ErrInvalidRatio     = errors.New("invalid attendance ratio")
	ErrMalformedRecord  = errors.New("malformed attendance record")
)

type (
	// Record is one observed attendance event. Records are read-only once ingested.
	Record struct {
		ID          string    `json:"id,omitempty" db:"id"`
		StudentID   string    `json:"student_id" db:"student_id"`
		StudentName string    `json:"student_name,omitempty" db:"student_name"`
		SubjectID   string    `json:"subject_id" db:"subject_id"`
		SubjectName string    `json:"subject_name,omitempty" db:"subject_name"`
		ClassID     string    `json:"class_id,omitempty" db:"class_id"`
		Career      string    `json:"career,omitempty" db:"career"`
		Year        int       `json:"year,omitempty" db:"year"`
		Timestamp   time.Time `json:"timestamp" db:"recorded_at"` // zero when unknown
		Present     bool      `json:"present" db:"present"`
		Method      string    `json:"method,omitempty" db:"method"`
	}

	Subject struct {
		ID           string `json:"id" db:"id"`
		Name         string `json:"name" db:"name"`
		Career       string `json:"career" db:"career"`
		TeacherName  string `json:"teacher_name" db:"teacher_name"`
		TeacherEmail string `json:"teacher_email" db:"teacher_email"`
	}

	// PeriodAggregate is the attendance of one period bucket.
	// Ratio is Present/Total in [0,1]; buckets with no observations are never produced.
	PeriodAggregate struct {
		Period  string    `json:"period"`
		Key     PeriodKey `json:"-"`
		Total   int       `json:"total"`
		Present int       `json:"present"`
		Ratio   float64   `json:"ratio"`
	}

	// Aggregation is the result of grouping records by period.
	Aggregation struct {
		Periods map[string]PeriodAggregate `json:"periods"`
		Keys    []string                   `json:"keys"`    // chronological
		Dropped int                        `json:"dropped"` // records without a usable timestamp
	}

	// ProjectedPoint is a future value estimated by the trend line, on the 0-100 scale.
	ProjectedPoint struct {
		Index        int    `json:"index"`
		Period       string `json:"period"`
		Ratio        int    `json:"ratio"`
		IsProjection bool   `json:"is_projection"`
	}

	TrendProjection struct {
		Historical []PeriodAggregate `json:"historical"`
		Slope      float64           `json:"slope"`
		Intercept  float64           `json:"intercept"`
		Projected  []ProjectedPoint  `json:"projected"`
	}
)

// Percent returns the ratio on the 0-100 scale.
func (pa PeriodAggregate) Percent() float64 { return pa.Ratio * 100 }

func (agg Aggregation) IsEmpty() bool { return len(agg.Keys) == 0 }

// Series returns the period aggregates in chronological order.
func (agg Aggregation) Series() []PeriodAggregate {
	series := make([]PeriodAggregate, 0, len(agg.Keys))
	for _, k := range agg.Keys {
		series = append(series, agg.Periods[k])
	}
	return series
}

// Percents returns the chronological series of ratios on the 0-100 scale.
func (agg Aggregation) Percents() []float64 {
	percents := make([]float64, 0, len(agg.Keys))
	for _, k := range agg.Keys {
		percents = append(percents, agg.Periods[k].Percent())
	}
	return percents
}

// Totals sums the observations of every period.
func (agg Aggregation) Totals() (total, present int) {
	for _, pa := range agg.Periods {
		total += pa.Total
		present += pa.Present
	}
	return total, present
}
