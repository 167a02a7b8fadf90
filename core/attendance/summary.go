package attendance

import (
	"math"
	"sort"
)

type (
	SubjectAttendance struct {
		SubjectID   string    `json:"subject_id"`
		SubjectName string    `json:"subject_name"`
		Total       int       `json:"total"`
		Present     int       `json:"present"`
		Percent     int       `json:"percent"`
		Risk        RiskLevel `json:"risk"`
	}

	// StudentSummary is the attendance of one student over every selected record.
	StudentSummary struct {
		StudentID   string              `json:"student_id"`
		StudentName string              `json:"student_name"`
		Career      string              `json:"career"`
		Year        int                 `json:"year"`
		Total       int                 `json:"total"`
		Present     int                 `json:"present"`
		Percent     int                 `json:"percent"`
		Risk        RiskLevel           `json:"risk"`
		Subjects    []SubjectAttendance `json:"subjects"`
	}

	// SubjectRisk counts the at-risk students of a subject.
	// Average is the mean attendance of those at-risk students only.
	SubjectRisk struct {
		SubjectID   string `json:"subject_id"`
		SubjectName string `json:"subject_name"`
		Average     int    `json:"average"`
		High        int    `json:"high"`
		Medium      int    `json:"medium"`
		TotalAtRisk int    `json:"total_at_risk"`
	}

	RiskOverview struct {
		Students     int               `json:"students"`
		Average      float64           `json:"average"` // mean of students' rounded percents, 1 decimal
		Distribution map[RiskLevel]int `json:"distribution"`
		AtRisk       []StudentSummary  `json:"at_risk"`
	}
)

type counter struct {
	total, present int
}

func (c counter) percent() float64 {
	if c.total == 0 {
		return 0
	}
	return float64(c.present) / float64(c.total) * 100
}

// Summarize computes one StudentSummary per student, sorted by student ID.
// The overall risk is classified on the unrounded ratio, subject risks on the rounded subject percent.
func (s Settings) Summarize(records []Record) []StudentSummary {
	type studentAcc struct {
		summary  StudentSummary
		overall  counter
		subjects map[string]*SubjectAttendance
		order    []string
	}

	students := make(map[string]*studentAcc)
	for _, r := range records {
		acc, ok := students[r.StudentID]
		if !ok {
			acc = &studentAcc{
				summary: StudentSummary{
					StudentID:   r.StudentID,
					StudentName: r.StudentName,
					Career:      r.Career,
					Year:        r.Year,
				},
				subjects: make(map[string]*SubjectAttendance),
			}
			students[r.StudentID] = acc
		}
		acc.overall.total++
		sub, ok := acc.subjects[r.SubjectID]
		if !ok {
			sub = &SubjectAttendance{SubjectID: r.SubjectID, SubjectName: r.SubjectName}
			acc.subjects[r.SubjectID] = sub
			acc.order = append(acc.order, r.SubjectID)
		}
		sub.Total++
		if r.Present {
			acc.overall.present++
			sub.Present++
		}
	}

	summaries := make([]StudentSummary, 0, len(students))
	for _, acc := range students {
		sum := acc.summary
		sum.Total = acc.overall.total
		sum.Present = acc.overall.present
		pct := acc.overall.percent()
		sum.Percent = int(math.Round(pct))
		sum.Risk, _ = s.ClassifyRisk(pct) // counts are never negative

		sort.Strings(acc.order)
		sum.Subjects = make([]SubjectAttendance, 0, len(acc.order))
		for _, id := range acc.order {
			sub := *acc.subjects[id]
			sub.Percent = int(math.Round(counter{sub.Total, sub.Present}.percent()))
			sub.Risk, _ = s.ClassifyRisk(float64(sub.Percent))
			sum.Subjects = append(sum.Subjects, sub)
		}
		summaries = append(summaries, sum)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].StudentID < summaries[j].StudentID })
	return summaries
}

// SubjectRisks lists the subjects having at least one at-risk student,
// most at-risk students first, then lowest average first.
func SubjectRisks(summaries []StudentSummary) []SubjectRisk {
	type subjectAcc struct {
		risk  SubjectRisk
		sum   int
		count int
	}

	subjects := make(map[string]*subjectAcc)
	for _, stud := range summaries {
		for _, sub := range stud.Subjects {
			if !sub.Risk.IsAtRisk() {
				continue
			}
			acc, ok := subjects[sub.SubjectID]
			if !ok {
				acc = &subjectAcc{risk: SubjectRisk{SubjectID: sub.SubjectID, SubjectName: sub.SubjectName}}
				subjects[sub.SubjectID] = acc
			}
			acc.sum += sub.Percent
			acc.count++
			if sub.Risk == RiskHigh {
				acc.risk.High++
			} else {
				acc.risk.Medium++
			}
		}
	}

	risks := make([]SubjectRisk, 0, len(subjects))
	for _, acc := range subjects {
		r := acc.risk
		r.Average = int(math.Round(float64(acc.sum) / float64(acc.count)))
		r.TotalAtRisk = r.High + r.Medium
		risks = append(risks, r)
	}
	sort.Slice(risks, func(i, j int) bool {
		if risks[i].TotalAtRisk != risks[j].TotalAtRisk {
			return risks[i].TotalAtRisk > risks[j].TotalAtRisk
		}
		if risks[i].Average != risks[j].Average {
			return risks[i].Average < risks[j].Average
		}
		return risks[i].SubjectID < risks[j].SubjectID
	})
	return risks
}

// RiskDistribution counts students per risk level. Every level is present.
func RiskDistribution(summaries []StudentSummary) map[RiskLevel]int {
	dist := make(map[RiskLevel]int, len(RiskLevels))
	for _, rl := range RiskLevels {
		dist[rl] = 0
	}
	for _, stud := range summaries {
		dist[stud.Risk]++
	}
	return dist
}

// Overview counts students per risk level and lists the at-risk ones.
func Overview(summaries []StudentSummary) RiskOverview {
	ov := RiskOverview{
		Students:     len(summaries),
		Distribution: RiskDistribution(summaries),
		AtRisk:       make([]StudentSummary, 0),
	}

	var sum int
	for _, stud := range summaries {
		sum += stud.Percent
		if stud.Risk.IsAtRisk() {
			ov.AtRisk = append(ov.AtRisk, stud)
		}
	}
	if len(summaries) > 0 {
		ov.Average = math.Round(float64(sum)/float64(len(summaries))*10) / 10
	}
	return ov
}
