package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/claim-reports-api/models"
)

func TestNextSequenceNumber(t *testing.T) {
	abandoned := draft("d1", "7/42")
	abandoned.SequenceNumber = 9

	tests := []struct {
		name    string
		caseKey string
		reports []models.Report
		folder  *models.CaseFolder
		want    int
	}{
		{name: "no history", caseKey: "7/42", want: 1},
		{name: "caseless", caseKey: "   ", reports: []models.Report{sentAt("r1", "", 4, t0)}, want: 1},
		{
			name:    "max of sent reports",
			caseKey: "7/42",
			reports: []models.Report{sentAt("r1", "7/42", 1, t0), sentAt("r2", "7 - 42", 2, t0)},
			want:    3,
		},
		{
			name:    "drafts never reserve a number",
			caseKey: "7/42",
			reports: []models.Report{sentAt("r1", "7/42", 1, t0), abandoned},
			want:    2,
		},
		{
			name:    "other cases ignored",
			caseKey: "7/42",
			reports: []models.Report{sentAt("r1", "8/42", 5, t0)},
			want:    1,
		},
		{
			name:    "folder watermark wins when higher",
			caseKey: "7/42",
			reports: []models.Report{sentAt("r1", "7/42", 1, t0)},
			folder: &models.CaseFolder{CaseKey: "7/42", SentReports: []models.SentReport{
				{ID: "gone#1", SequenceNumber: 1}, {ID: "gone#2", SequenceNumber: 3},
			}},
			want: 4,
		},
		{
			name:    "live list wins when higher",
			caseKey: "7/42",
			reports: []models.Report{sentAt("r1", "7/42", 6, t0)},
			folder:  &models.CaseFolder{CaseKey: "7/42", SentReports: []models.SentReport{{ID: "a#1", SequenceNumber: 2}}},
			want:    7,
		},
		{
			name:    "folder of another case ignored",
			caseKey: "7/42",
			folder:  &models.CaseFolder{CaseKey: "9/1", SentReports: []models.SentReport{{ID: "a#1", SequenceNumber: 8}}},
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSequenceNumber(tt.caseKey, tt.reports, tt.folder))
		})
	}
}

func TestNextSequenceNumberIsMonotonicAcrossSends(t *testing.T) {
	var (
		reports []models.Report
		folder  *models.CaseFolder
	)
	for i := 1; i <= 5; i++ {
		// an abandoned draft between every send must not disturb the sequence
		reports = append(reports, draft("abandoned-"+string(rune('a'+i)), "7/42"))

		r := readyToSend("r"+string(rune('0'+i)), "7/42")
		require.Equal(t, i, NextSequenceNumber("7/42", reports, folder))

		res, err := DefaultPolicy.Transition(r, folder, TransitionRequest{
			To:      models.StatusSent,
			Now:     t0.Add(days(i)),
			Reports: reports,
		})
		require.NoError(t, err)
		assert.Equal(t, i, res.Report.SequenceNumber)

		reports = append(reports, res.Report)
		folder = res.Folder
	}
	assert.Equal(t, 6, NextSequenceNumber("7/42", reports, folder))
}
