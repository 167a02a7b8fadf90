package alert

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/fs"
	"github.com/trezcool/mahudhurio/services/email"
	"github.com/trezcool/mahudhurio/storage/database/inmem"
	"github.com/trezcool/mahudhurio/tests"
)

var conf = &core.Config{
	AppName:          "Mahudhurio",
	FrontendBaseURL:  "https://mahudhurio.test",
	DefaultFromEmail: mail.Address{Name: "Mahudhurio", Address: "noreply@mahudhurio.test"},
}

func setup(t *testing.T) (*Service, *emailsvc.ConsoleService) {
	require.NoError(t, core.ParseEmailTemplates(appfs.FS, true))

	db, err := inmemdb.Open()
	require.NoError(t, err)
	repo := inmemdb.NewAttendanceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertSubjects(ctx,
		attendance.Subject{ID: "math", Name: "Mathematics", TeacherName: "Ada", TeacherEmail: "ada@school.test"},
		attendance.Subject{ID: "bio", Name: "Biology", TeacherName: "Darwin", TeacherEmail: "darwin@school.test"},
		attendance.Subject{ID: "art", Name: "Art"},
	))

	march := time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC)
	testutil.InsertAttendance(t, repo, "s1", "math", march, 10, 4)  // 40 high
	testutil.InsertAttendance(t, repo, "s2", "math", march, 10, 6)  // 60 medium
	testutil.InsertAttendance(t, repo, "s3", "math", march, 10, 10) // 100 low
	testutil.InsertAttendance(t, repo, "s1", "bio", march, 10, 9)   // 90 low
	testutil.InsertAttendance(t, repo, "s2", "art", march, 10, 0)   // 0 high, no teacher email

	mailer := emailsvc.NewConsoleServiceMock(conf)
	attSvc := attendance.NewService(repo, attendance.DefaultSettings())
	return NewService(attSvc, mailer, conf), mailer
}

func TestService_Build(t *testing.T) {
	svc, _ := setup(t)

	alerts, err := svc.Build(context.Background(), attendance.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "math", alerts[0].SubjectID)
	assert.Equal(t, "ada@school.test", alerts[0].TeacherEmail)
	assert.Equal(t, []StudentAlert{
		{StudentID: "s1", StudentName: "Student s1", Ratio: 40, Risk: attendance.RiskHigh},
		{StudentID: "s2", StudentName: "Student s2", Ratio: 60, Risk: attendance.RiskMedium},
	}, alerts[0].Students)

	alerts, err = svc.Build(context.Background(), attendance.QueryFilter{SubjectID: "bio"})
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestService_Notify(t *testing.T) {
	svc, mailer := setup(t)

	alerts, err := svc.Notify(context.Background(), attendance.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, []mail.Address{{Name: "Ada", Address: "ada@school.test"}}, msg.To)
	assert.Equal(t, "Attendance alert: Mathematics", msg.Subject)
	assert.Contains(t, msg.TextContent, "Hello Ada")
	assert.Contains(t, msg.TextContent, "Student s1 (s1): 40% - high risk")
	assert.Contains(t, msg.HTMLContent, "Mathematics")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "math_at_risk.csv", msg.Attachments[0].Filename)
	assert.Equal(t, "text/csv", msg.Attachments[0].ContentType)
}

func TestStudentsCSV(t *testing.T) {
	content, err := studentsCSV([]StudentAlert{{StudentID: "s1", StudentName: "Doe, Jane", Ratio: 40, Risk: attendance.RiskHigh}})
	require.NoError(t, err)
	assert.Equal(t, "student_id,student_name,attendance,risk\ns1,\"Doe, Jane\",40,high\n", string(content))
}
