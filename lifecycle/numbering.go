package lifecycle

import (
	"github.com/linesmerrill/claim-reports-api/casekey"
	"github.com/linesmerrill/claim-reports-api/models"
)

// NextSequenceNumber returns the number the next report sent in the case will carry.
// It takes the higher watermark of the live sent reports and the folder's own log, so
// abandoned drafts never reserve a number and a hard-deleted report never frees one.
func NextSequenceNumber(caseKey string, reports []models.Report, folder *models.CaseFolder) int {
	key := casekey.Normalize(caseKey)
	if key == "" {
		return 1
	}

	highest := 0
	for i := range reports {
		r := &reports[i]
		if r.Status != models.StatusSent || casekey.Normalize(r.CaseKey) != key {
			continue
		}
		if r.SequenceNumber > highest {
			highest = r.SequenceNumber
		}
	}
	if folder != nil && folder.CaseKey == key {
		for _, e := range folder.SentReports {
			if e.SequenceNumber > highest {
				highest = e.SequenceNumber
			}
		}
	}
	return highest + 1
}
