package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006",
}

// RawRecord is a source-agnostic attendance row, as read from a spreadsheet or a JSON payload.
// Present may be a bool, a number (1/0) or a string (true/false, si/no, present/absent...).
type RawRecord struct {
	StudentID   string      `json:"student_id"`
	StudentName string      `json:"student_name"`
	SubjectID   string      `json:"subject_id"`
	SubjectName string      `json:"subject_name"`
	Career      string      `json:"career"`
	Year        int         `json:"year"`
	Date        string      `json:"date"`
	Present     interface{} `json:"present"`
}

// ParseRecord coerces a RawRecord into a Record.
// Any error wraps ErrMalformedRecord.
func ParseRecord(raw RawRecord) (Record, error) {
	ts, err := parseTimestamp(raw.Date)
	if err != nil {
		return Record{}, errors.Wrap(ErrMalformedRecord, err.Error())
	}
	present, err := parsePresence(raw.Present)
	if err != nil {
		return Record{}, errors.Wrap(ErrMalformedRecord, err.Error())
	}
	return Record{
		StudentID:   core.CleanString(raw.StudentID),
		StudentName: core.CleanString(raw.StudentName),
		SubjectID:   core.CleanString(raw.SubjectID),
		SubjectName: core.CleanString(raw.SubjectName),
		Career:      core.CleanString(raw.Career),
		Year:        raw.Year,
		Timestamp:   ts,
		Present:     present,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = core.CleanString(s)
	if s == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

func parsePresence(v interface{}) (bool, error) {
	switch p := v.(type) {
	case bool:
		return p, nil
	case int:
		return presenceFromNumber(float64(p))
	case float64:
		return presenceFromNumber(p)
	case string:
		switch core.CleanString(p, true /* lower */) {
		case "1", "true", "yes", "si", "sí", "present", "presente", "p":
			return true, nil
		case "0", "false", "no", "absent", "ausente", "a":
			return false, nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(p), 64); err == nil {
			return presenceFromNumber(f)
		}
	}
	return false, fmt.Errorf("presence %v is not boolean-coercible", v)
}

func presenceFromNumber(f float64) (bool, error) {
	switch f {
	case 1:
		return true, nil
	case 0:
		return false, nil
	}
	return false, fmt.Errorf("presence %v is not boolean-coercible", f)
}
