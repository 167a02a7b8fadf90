package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/attendance"
)

// AttendanceRepository keeps records in memory. Used in tests and when no database is configured.
type AttendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*AttendanceRepository)(nil)

func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// InsertRecords stores copies of `records`, giving an ID to those without one.
func (repo *AttendanceRepository) InsertRecords(_ context.Context, records ...attendance.Record) ([]attendance.Record, error) {
	repo.db.record.Lock()
	defer repo.db.record.Unlock()

	inserted := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		if !r.Timestamp.IsZero() {
			r.Timestamp = r.Timestamp.UTC()
		}
		repo.db.record.table = append(repo.db.record.table, r)
		inserted = append(inserted, r)
	}
	return inserted, nil
}

// UpsertSubjects stores `subjects`, replacing the ones with the same ID.
func (repo *AttendanceRepository) UpsertSubjects(_ context.Context, subjects ...attendance.Subject) error {
	repo.db.subject.Lock()
	defer repo.db.subject.Unlock()

	for _, sub := range subjects {
		repo.db.subject.table[sub.ID] = sub
	}
	return nil
}

func (repo *AttendanceRepository) QueryRecords(_ context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	repo.db.record.RLock()
	defer repo.db.record.RUnlock()

	records := make([]attendance.Record, 0)
	for _, r := range repo.db.record.table {
		if filter.Match(r) {
			records = append(records, r)
		}
	}
	return records, nil
}

func (repo *AttendanceRepository) QuerySubjects(context.Context) ([]attendance.Subject, error) {
	repo.db.subject.RLock()
	defer repo.db.subject.RUnlock()

	subjects := make([]attendance.Subject, 0, len(repo.db.subject.table))
	for _, sub := range repo.db.subject.table {
		subjects = append(subjects, sub)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	return subjects, nil
}

// Clear removes every record and subject.
func (repo *AttendanceRepository) Clear() {
	repo.db.record.Lock()
	repo.db.record.table = nil
	repo.db.record.Unlock()

	repo.db.subject.Lock()
	repo.db.subject.table = make(map[string]attendance.Subject)
	repo.db.subject.Unlock()
}
