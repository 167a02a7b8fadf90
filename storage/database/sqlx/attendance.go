package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
)

const selectRecords = `SELECT ar.id, ar.student_id, st.name AS student_name, ar.subject_id, su.name AS subject_name,
	ar.class_id, st.career, st.year, ar.recorded_at, ar.present, ar.method
FROM attendance_record ar
JOIN student st ON st.id = ar.student_id
JOIN subject su ON su.id = ar.subject_id`

// recordRow mirrors attendance.Record with a nullable timestamp.
type recordRow struct {
	ID          string       `db:"id"`
	StudentID   string       `db:"student_id"`
	StudentName string       `db:"student_name"`
	SubjectID   string       `db:"subject_id"`
	SubjectName string       `db:"subject_name"`
	ClassID     string       `db:"class_id"`
	Career      string       `db:"career"`
	Year        int          `db:"year"`
	RecordedAt  sql.NullTime `db:"recorded_at"`
	Present     bool         `db:"present"`
	Method      string       `db:"method"`
}

func (row recordRow) record() attendance.Record {
	r := attendance.Record{
		ID:          row.ID,
		StudentID:   row.StudentID,
		StudentName: row.StudentName,
		SubjectID:   row.SubjectID,
		SubjectName: row.SubjectName,
		ClassID:     row.ClassID,
		Career:      row.Career,
		Year:        row.Year,
		Present:     row.Present,
		Method:      row.Method,
	}
	if row.RecordedAt.Valid {
		r.Timestamp = row.RecordedAt.Time.UTC()
	}
	return r
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

// NewAttendanceRepository wraps a postgres connection.
func NewAttendanceRepository(db *sql.DB) attendance.Repository {
	return &attendanceRepository{db: sqlx.NewDb(db, "postgres")}
}

// buildRecordsQuery returns the postgres query selecting the records matching `filter`.
func buildRecordsQuery(filter attendance.QueryFilter) (string, []interface{}, error) {
	var (
		conds []string
		args  []interface{}
	)
	if len(filter.StudentIDs) > 0 {
		conds = append(conds, "ar.student_id IN (?)")
		args = append(args, filter.StudentIDs)
	}
	if filter.SubjectID != "" {
		conds = append(conds, "ar.subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if filter.Career != "" {
		conds = append(conds, "st.career = ?")
		args = append(args, filter.Career)
	}
	if filter.Year != 0 {
		conds = append(conds, "st.year = ?")
		args = append(args, filter.Year)
	}
	if !filter.From.IsZero() {
		conds = append(conds, "ar.recorded_at >= ?")
		args = append(args, filter.From.UTC())
	}
	if !filter.To.IsZero() {
		conds = append(conds, "ar.recorded_at <= ?")
		args = append(args, filter.To.UTC())
	}

	q := selectRecords
	if len(conds) > 0 {
		q += "\nWHERE " + strings.Join(conds, " AND ")
	}
	q += "\nORDER BY ar.recorded_at NULLS FIRST, ar.id"

	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return "", nil, errors.Wrap(err, "expanding query")
	}
	return sqlx.Rebind(sqlx.DOLLAR, q), args, nil
}

func (repo *attendanceRepository) QueryRecords(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	q, args, err := buildRecordsQuery(filter)
	if err != nil {
		return nil, err
	}

	var rows []recordRow
	if err = repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting attendance records")
	}
	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

func (repo *attendanceRepository) QuerySubjects(ctx context.Context) ([]attendance.Subject, error) {
	subjects := make([]attendance.Subject, 0)
	err := repo.db.SelectContext(ctx, &subjects,
		"SELECT id, name, career, teacher_name, teacher_email FROM subject ORDER BY id")
	return subjects, errors.Wrap(err, "selecting subjects")
}
