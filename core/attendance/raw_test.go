package attendance

import (
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name        string
		raw         RawRecord
		wantTime    time.Time
		wantPresent bool
		wantErr     bool
	}{
		{
			name:        "RFC3339 and bool",
			raw:         RawRecord{StudentID: " s1 ", Date: "2024-03-10T08:00:00Z", Present: true},
			wantTime:    time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC),
			wantPresent: true,
		},
		{
			name:     "date only and zero",
			raw:      RawRecord{StudentID: "s1", Date: "2024-03-10", Present: 0},
			wantTime: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "day first date and spanish yes",
			raw:         RawRecord{StudentID: "s1", Date: "10/03/2024", Present: "Sí"},
			wantTime:    time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			wantPresent: true,
		},
		{
			name:        "numeric string",
			raw:         RawRecord{StudentID: "s1", Date: "2024-03-10 08:15:00", Present: "1.0"},
			wantTime:    time.Date(2024, time.March, 10, 8, 15, 0, 0, time.UTC),
			wantPresent: true,
		},
		{name: "missing date", raw: RawRecord{StudentID: "s1", Present: true}, wantErr: true},
		{name: "bad date", raw: RawRecord{StudentID: "s1", Date: "yesterday", Present: true}, wantErr: true},
		{name: "bad presence string", raw: RawRecord{StudentID: "s1", Date: "2024-03-10", Present: "late"}, wantErr: true},
		{name: "bad presence number", raw: RawRecord{StudentID: "s1", Date: "2024-03-10", Present: 2}, wantErr: true},
		{name: "missing presence", raw: RawRecord{StudentID: "s1", Date: "2024-03-10"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if errors.Cause(err) != ErrMalformedRecord {
					t.Errorf("ParseRecord() error cause = %v, want %v", errors.Cause(err), ErrMalformedRecord)
				}
				return
			}
			if !got.Timestamp.Equal(tt.wantTime) {
				t.Errorf("ParseRecord() Timestamp = %v, want %v", got.Timestamp, tt.wantTime)
			}
			if got.Present != tt.wantPresent {
				t.Errorf("ParseRecord() Present = %v, want %v", got.Present, tt.wantPresent)
			}
			if got.StudentID != "s1" {
				t.Errorf("ParseRecord() StudentID = %q, want %q", got.StudentID, "s1")
			}
		})
	}
}
