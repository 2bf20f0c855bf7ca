package lifecycle

import (
	"time"

	"github.com/linesmerrill/claim-reports-api/models"
)

var t0 = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

func days(n int) time.Duration {
	return time.Duration(n) * Day
}

func draft(id, caseNumber string) models.Report {
	r, err := CreateReport(NewReportParams{
		ID:         id,
		CaseNumber: caseNumber,
		Content: models.ReportContent{
			Title:            "Loss assessment",
			InsuredName:      "Ada Fischer",
			Sections:         map[string]string{"facts": "Water damage in the basement."},
			SelectedSections: []string{"facts"},
			Metadata:         map[string]string{"court": "Regional Court"},
		},
	}, nil, nil, t0)
	if err != nil {
		panic(err)
	}
	return r
}

func readyToSend(id, caseNumber string) models.Report {
	r := draft(id, caseNumber)
	r.Status = models.StatusReadyToSend
	return r
}

// sentAt returns a report as if it had been finalized once at at
func sentAt(id, caseNumber string, seq int, at time.Time) models.Report {
	r := draft(id, caseNumber)
	r.Status = models.StatusSent
	r.SequenceNumber = seq
	r.FirstSentAt = &at
	r.History = []models.Snapshot{BuildSnapshot(&r, at, id+".pdf", false)}
	return r
}

func closedFolder(key string, at time.Time) *models.CaseFolder {
	return &models.CaseFolder{CaseKey: key, ClosedAt: &at, ClosedByUserID: "partner-1", SentReports: []models.SentReport{}}
}
