// Package notifications tells recipients that a report went out. It runs after the
// send has been persisted; a failed notification never undoes the send.
package notifications

import (
	"context"

	"go.uber.org/zap"

	"github.com/linesmerrill/claim-reports-api/models"
)

// ReportSentNotice is what a notifier receives once a report is sent
type ReportSentNotice struct {
	Report   models.Report
	Snapshot models.Snapshot
	// Supersedes is the snapshot id this send replaces in a recurring chain
	Supersedes string
	// ReTemplate is the case's free-text subject line, if one was set
	ReTemplate string
}

// Notifier delivers report-sent notices
type Notifier interface {
	ReportSent(ctx context.Context, notice ReportSentNotice) error
}

// NopNotifier drops every notice
type NopNotifier struct{}

// ReportSent logs the notice at debug level
func (NopNotifier) ReportSent(_ context.Context, notice ReportSentNotice) error {
	zap.S().Debugw("report sent notification skipped",
		"reportId", notice.Report.ID,
		"snapshotId", notice.Snapshot.ID)
	return nil
}
