package inmemdb

import (
	"sync"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type (
	DB struct {
		record  *recordTable
		subject *subjectTable
	}

	recordTable struct {
		sync.RWMutex
		table []attendance.Record
	}

	subjectTable struct {
		sync.RWMutex
		table map[string]attendance.Subject
	}
)

func Open() (*DB, error) {
	db := &DB{
		record:  &recordTable{},
		subject: &subjectTable{table: make(map[string]attendance.Subject)},
	}
	return db, nil
}
