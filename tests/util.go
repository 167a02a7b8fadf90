package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/mahudhurio/core/attendance"
)

// RecordInserter is satisfied by the in-memory attendance repository.
type RecordInserter interface {
	InsertRecords(ctx context.Context, records ...attendance.Record) ([]attendance.Record, error)
}

// Records builds `total` daily records of a student in a subject starting at `start`, the first `present` ones present.
func Records(student, subject string, start time.Time, total, present int) []attendance.Record {
	records := make([]attendance.Record, 0, total)
	for i := 0; i < total; i++ {
		records = append(records, attendance.Record{
			StudentID:   student,
			StudentName: "Student " + student,
			SubjectID:   subject,
			SubjectName: subject,
			Timestamp:   start.AddDate(0, 0, i),
			Present:     i < present,
			Method:      "QR",
		})
	}
	return records
}

// InsertAttendance inserts Records(...) into `repo`.
func InsertAttendance(t *testing.T, repo RecordInserter, student, subject string, start time.Time, total, present int) []attendance.Record {
	t.Helper()
	records, err := repo.InsertRecords(context.Background(), Records(student, subject, start, total, present)...)
	if err != nil {
		t.Fatalf("InsertAttendance() failed: %v", err)
	}
	return records
}

// MonthlySeries inserts, for each percent, 10 records of `student` in `subject` in consecutive months starting at `start`.
func MonthlySeries(t *testing.T, repo RecordInserter, student, subject string, start time.Time, percents ...int) {
	t.Helper()
	for i, pct := range percents {
		InsertAttendance(t, repo, student, subject, start.AddDate(0, i, 0), 10, pct/10)
	}
}
