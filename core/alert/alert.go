package alert

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/mail"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

const templateName = "risk_alert"

type (
	StudentAlert struct {
		StudentID   string               `json:"student_id"`
		StudentName string               `json:"student_name"`
		Ratio       int                  `json:"ratio"`
		Risk        attendance.RiskLevel `json:"risk"`
	}

	// SubjectAlert lists the at-risk students of a subject, lowest attendance first.
	SubjectAlert struct {
		SubjectID    string         `json:"subject_id"`
		SubjectName  string         `json:"subject_name"`
		TeacherName  string         `json:"teacher_name"`
		TeacherEmail string         `json:"teacher_email"`
		Students     []StudentAlert `json:"students"`
	}

	Service struct {
		attendance      *attendance.Service
		mailer          core.EmailService
		frontendBaseURL string
	}
)

func NewService(attSvc *attendance.Service, mailer core.EmailService, conf *core.Config) *Service {
	return &Service{
		attendance:      attSvc,
		mailer:          mailer,
		frontendBaseURL: conf.FrontendBaseURL,
	}
}

// Build computes the alert of every subject having at-risk students and a known teacher email.
func (svc *Service) Build(ctx context.Context, filter attendance.QueryFilter) ([]SubjectAlert, error) {
	subjects, err := svc.attendance.Subjects(ctx)
	if err != nil {
		return nil, err
	}
	summaries, err := svc.attendance.StudentSummaries(ctx, filter)
	if err != nil {
		return nil, err
	}

	bySubject := make(map[string]*SubjectAlert, len(subjects))
	for _, sub := range subjects {
		if sub.TeacherEmail == "" {
			continue
		}
		bySubject[sub.ID] = &SubjectAlert{
			SubjectID:    sub.ID,
			SubjectName:  sub.Name,
			TeacherName:  sub.TeacherName,
			TeacherEmail: sub.TeacherEmail,
		}
	}

	for _, stud := range summaries {
		for _, sub := range stud.Subjects {
			a, ok := bySubject[sub.SubjectID]
			if !ok || !sub.Risk.IsAtRisk() {
				continue
			}
			a.Students = append(a.Students, StudentAlert{
				StudentID:   stud.StudentID,
				StudentName: stud.StudentName,
				Ratio:       sub.Percent,
				Risk:        sub.Risk,
			})
		}
	}

	alerts := make([]SubjectAlert, 0, len(bySubject))
	for _, a := range bySubject {
		if len(a.Students) == 0 {
			continue
		}
		sort.Slice(a.Students, func(i, j int) bool {
			if a.Students[i].Ratio != a.Students[j].Ratio {
				return a.Students[i].Ratio < a.Students[j].Ratio
			}
			return a.Students[i].StudentID < a.Students[j].StudentID
		})
		alerts = append(alerts, *a)
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].SubjectID < alerts[j].SubjectID })
	return alerts, nil
}

// Notify emails every concerned teacher the list of their at-risk students, with a CSV attachment.
// It returns the alerts sent.
func (svc *Service) Notify(ctx context.Context, filter attendance.QueryFilter) ([]SubjectAlert, error) {
	alerts, err := svc.Build(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "building alerts")
	}

	messages := make([]*core.EmailMessage, 0, len(alerts))
	for _, a := range alerts {
		msg, err := svc.message(a)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if len(messages) > 0 {
		svc.mailer.SendMessages(messages...)
	}
	return alerts, nil
}

func (svc *Service) message(a SubjectAlert) (*core.EmailMessage, error) {
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: a.TeacherName, Address: a.TeacherEmail}},
		Subject:      fmt.Sprintf("Attendance alert: %s", a.SubjectName),
		TemplateName: templateName,
		TemplateData: a,
	}
	msg.SetFrontendBaseURL(svc.frontendBaseURL)

	content, err := studentsCSV(a.Students)
	if err != nil {
		return nil, err
	}
	if err = msg.Attach(bytes.NewReader(content), a.SubjectID+"_at_risk.csv", "text/csv"); err != nil {
		return nil, errors.Wrap(err, "attaching csv")
	}
	return msg, nil
}

func studentsCSV(students []StudentAlert) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"student_id", "student_name", "attendance", "risk"})
	for _, s := range students {
		_ = w.Write([]string{s.StudentID, s.StudentName, strconv.Itoa(s.Ratio), string(s.Risk)})
	}
	w.Flush()
	return buf.Bytes(), errors.Wrap(w.Error(), "writing csv")
}
