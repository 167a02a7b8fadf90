package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attendanceOf(student, subject string, total, present int) []Record {
	records := make([]Record, 0, total)
	for i := 0; i < total; i++ {
		r := rec(student, subject, day(2024, time.March, 1+i%28), i < present)
		r.StudentName = "Student " + student
		r.SubjectName = "Subject " + subject
		records = append(records, r)
	}
	return records
}

func summaryRecords() []Record {
	var records []Record
	records = append(records, attendanceOf("s1", "A", 2, 1)...) // 50 medium
	records = append(records, attendanceOf("s1", "B", 2, 2)...) // 100 low
	records = append(records, attendanceOf("s2", "A", 2, 0)...) // 0 high
	records = append(records, attendanceOf("s3", "A", 3, 2)...) // 67 medium
	return records
}

func TestSettings_Summarize(t *testing.T) {
	got := DefaultSettings().Summarize(summaryRecords())
	require.Len(t, got, 3)

	assert.Equal(t, "s1", got[0].StudentID)
	assert.Equal(t, "Student s1", got[0].StudentName)
	assert.Equal(t, 4, got[0].Total)
	assert.Equal(t, 3, got[0].Present)
	assert.Equal(t, 75, got[0].Percent)
	assert.Equal(t, RiskLow, got[0].Risk)
	assert.Equal(t, []SubjectAttendance{
		{SubjectID: "A", SubjectName: "Subject A", Total: 2, Present: 1, Percent: 50, Risk: RiskMedium},
		{SubjectID: "B", SubjectName: "Subject B", Total: 2, Present: 2, Percent: 100, Risk: RiskLow},
	}, got[0].Subjects)

	assert.Equal(t, RiskHigh, got[1].Risk)
	assert.Equal(t, 67, got[2].Percent)
	assert.Equal(t, RiskMedium, got[2].Risk)
}

func TestSettings_Summarize_rounding(t *testing.T) {
	// 16/23 = 69.57%: the student is classified on the exact ratio, the subject on the rounded percent
	got := DefaultSettings().Summarize(attendanceOf("s1", "A", 23, 16))
	require.Len(t, got, 1)
	assert.Equal(t, 70, got[0].Percent)
	assert.Equal(t, RiskMedium, got[0].Risk)
	assert.Equal(t, 70, got[0].Subjects[0].Percent)
	assert.Equal(t, RiskLow, got[0].Subjects[0].Risk)
}

func TestSubjectRisks(t *testing.T) {
	records := summaryRecords()
	records = append(records, attendanceOf("s4", "C", 2, 0)...) // 0 high
	records = append(records, attendanceOf("s5", "D", 4, 1)...) // 25 high

	got := SubjectRisks(DefaultSettings().Summarize(records))
	assert.Equal(t, []SubjectRisk{
		{SubjectID: "A", SubjectName: "Subject A", Average: 39, High: 1, Medium: 2, TotalAtRisk: 3},
		{SubjectID: "C", SubjectName: "Subject C", Average: 0, High: 1, TotalAtRisk: 1},
		{SubjectID: "D", SubjectName: "Subject D", Average: 25, High: 1, TotalAtRisk: 1},
	}, got)
}

func TestOverview(t *testing.T) {
	ov := Overview(DefaultSettings().Summarize(summaryRecords()))
	assert.Equal(t, 3, ov.Students)
	assert.Equal(t, 47.3, ov.Average)
	assert.Equal(t, map[RiskLevel]int{RiskLow: 1, RiskMedium: 1, RiskHigh: 1}, ov.Distribution)
	require.Len(t, ov.AtRisk, 2)
	assert.Equal(t, "s2", ov.AtRisk[0].StudentID)
	assert.Equal(t, "s3", ov.AtRisk[1].StudentID)

	empty := Overview(nil)
	assert.Equal(t, 0, empty.Students)
	assert.Equal(t, 0.0, empty.Average)
	assert.Equal(t, map[RiskLevel]int{RiskLow: 0, RiskMedium: 0, RiskHigh: 0}, empty.Distribution)
}

func TestService_summaries(t *testing.T) {
	svc := NewService(repoStub{records: summaryRecords()}, DefaultSettings())
	ctx := context.Background()

	summaries, err := svc.StudentSummaries(ctx, QueryFilter{StudentIDs: []string{"s2"}})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, RiskHigh, summaries[0].Risk)

	risks, err := svc.SubjectRisks(ctx, QueryFilter{SubjectID: "B"})
	require.NoError(t, err)
	assert.Empty(t, risks)

	ov, err := svc.RiskOverview(ctx, QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, ov.Students)
}
