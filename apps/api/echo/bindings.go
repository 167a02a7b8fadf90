package echoapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

const dateLayout = "2006-01-02"

// reportQuery is the query string of the report endpoints.
type reportQuery struct {
	Filter  attendance.QueryFilter
	Horizon int
}

// Bind reads the filter from the query string: student_id may be repeated or comma-separated,
// from/to accept RFC3339 or YYYY-MM-DD (a date-only `to` covers the whole day).
func (rq *reportQuery) Bind(ctx echo.Context) error {
	params := ctx.QueryParams()

	var fldErrs []core.FieldError
	for _, v := range params["student_id"] {
		rq.Filter.StudentIDs = append(rq.Filter.StudentIDs, strings.Split(v, ",")...)
	}
	rq.Filter.SubjectID = params.Get("subject_id")
	rq.Filter.Career = params.Get("career")

	var err error
	if rq.Filter.Year, err = intParam(params, "year"); err != nil {
		fldErrs = append(fldErrs, core.FieldError{Field: "year", Error: "must be an integer"})
	}
	if rq.Horizon, err = intParam(params, "horizon"); err != nil || rq.Horizon < 0 || rq.Horizon > 24 {
		fldErrs = append(fldErrs, core.FieldError{Field: "horizon", Error: "must be an integer between 0 and 24"})
	}
	if rq.Filter.From, err = timeParam(params, "from", false); err != nil {
		fldErrs = append(fldErrs, core.FieldError{Field: "from", Error: "must be a RFC3339 timestamp or a YYYY-MM-DD date"})
	}
	if rq.Filter.To, err = timeParam(params, "to", true); err != nil {
		fldErrs = append(fldErrs, core.FieldError{Field: "to", Error: "must be a RFC3339 timestamp or a YYYY-MM-DD date"})
	}

	if len(fldErrs) > 0 {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}

func intParam(params url.Values, name string) (int, error) {
	v := strings.TrimSpace(params.Get(name))
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func timeParam(params url.Values, name string, endOfDay bool) (time.Time, error) {
	v := strings.TrimSpace(params.Get(name))
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
