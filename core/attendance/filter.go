package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
)

// QueryFilter selects the records a report is computed on. Set fields are AND-ed.
type QueryFilter struct {
	StudentIDs []string  `json:"student_id,omitempty" query:"student_id" validate:"omitempty,dive,entityid"`
	SubjectID  string    `json:"subject_id,omitempty" query:"subject_id" validate:"omitempty,entityid"`
	Career     string    `json:"career,omitempty" query:"career"`
	Year       int       `json:"year,omitempty" query:"year" validate:"gte=0,lte=12"`
	From       time.Time `json:"from,omitempty" query:"from"`
	To         time.Time `json:"to,omitempty" query:"to"`
}

func (qf *QueryFilter) Clean() {
	qf.StudentIDs = core.CleanStrings(qf.StudentIDs)
	qf.SubjectID = core.CleanString(qf.SubjectID)
	qf.Career = core.CleanString(qf.Career)
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.Clean()
	if err := validate.Struct(qf); err != nil {
		return err
	}
	if !qf.From.IsZero() && !qf.To.IsZero() && qf.To.Before(qf.From) {
		return core.NewValidationError(nil, core.FieldError{Field: "to", Error: "must not be before from"})
	}
	return nil
}

func (qf *QueryFilter) IsEmpty() bool {
	return len(qf.StudentIDs) == 0 && qf.SubjectID == "" && qf.Career == "" && qf.Year == 0 &&
		qf.From.IsZero() && qf.To.IsZero()
}

// Match reports whether `r` satisfies the filter.
// Date bounds are inclusive; records without a timestamp never match a date bound.
func (qf *QueryFilter) Match(r Record) bool {
	if len(qf.StudentIDs) > 0 && !containsString(qf.StudentIDs, r.StudentID) {
		return false
	}
	if qf.SubjectID != "" && r.SubjectID != qf.SubjectID {
		return false
	}
	if qf.Career != "" && r.Career != qf.Career {
		return false
	}
	if qf.Year != 0 && r.Year != qf.Year {
		return false
	}
	if !qf.From.IsZero() && (r.Timestamp.IsZero() || r.Timestamp.Before(qf.From)) {
		return false
	}
	if !qf.To.IsZero() && (r.Timestamp.IsZero() || r.Timestamp.After(qf.To)) {
		return false
	}
	return true
}

func containsString(ss []string, s string) bool {
	for _, item := range ss {
		if item == s {
			return true
		}
	}
	return false
}
