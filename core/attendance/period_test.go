package attendance

import (
	"sort"
	"testing"
	"time"
)

func TestWeekKey(t *testing.T) {
	tests := []struct {
		day  int
		want int
	}{
		{1, 1}, {7, 1}, {8, 2}, {14, 2}, {15, 3}, {28, 4}, {29, 5}, {31, 5},
	}
	for _, tt := range tests {
		got := WeekKey(time.Date(2024, time.March, tt.day, 12, 0, 0, 0, time.UTC))
		if got.Week != tt.want {
			t.Errorf("WeekKey(day %d).Week = %d, want %d", tt.day, got.Week, tt.want)
		}
	}
}

func TestParsePeriodKey(t *testing.T) {
	tests := []struct {
		in      string
		want    PeriodKey
		wantErr bool
	}{
		{in: "2024-03", want: PeriodKey{Year: 2024, Month: time.March}},
		{in: "2024-03-W2", want: PeriodKey{Year: 2024, Month: time.March, Week: 2}},
		{in: "2024-13", wantErr: true},
		{in: "2024-00", wantErr: true},
		{in: "2024-3", wantErr: true},
		{in: "2024-03-W6", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriodKey(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePeriodKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got != tt.want {
				t.Errorf("ParsePeriodKey() = %v, want %v", got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %v, want %v", got.String(), tt.in)
			}
		})
	}
}

func TestPeriodKey_Less(t *testing.T) {
	keys := []PeriodKey{
		{Year: 2024, Month: time.March, Week: 2},
		{Year: 2024, Month: time.January},
		{Year: 2023, Month: time.December},
		{Year: 2024, Month: time.March, Week: 1},
		{Year: 2024, Month: time.February},
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	want := []string{"2023-12", "2024-01", "2024-02", "2024-03-W1", "2024-03-W2"}
	for i, k := range keys {
		if k.String() != want[i] {
			t.Errorf("keys[%d] = %v, want %v", i, k, want[i])
		}
	}
}

func TestNextPeriods(t *testing.T) {
	got := NextPeriods(PeriodKey{Year: 2024, Month: time.November, Week: 3}, 3)
	want := []string{"2024-12", "2025-01", "2025-02"}
	if len(got) != len(want) {
		t.Fatalf("NextPeriods() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("NextPeriods()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if NextPeriods(PeriodKey{Year: 2024, Month: time.May}, 0) != nil {
		t.Error("NextPeriods(0) should be nil")
	}
}
