package notifications

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	templates "github.com/linesmerrill/claim-reports-api/templates/html"
)

// mailSender is the part of the sendgrid client we use
type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridNotifier emails the report recipient through SendGrid
type SendGridNotifier struct {
	client mailSender
	from   *mail.Email
}

// NewSendGridNotifier builds a notifier that sends from the given address
func NewSendGridNotifier(apiKey, fromName, fromEmail string) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

// ReportSent emails the recipient on the report content. Reports without a
// recipient are skipped.
func (n *SendGridNotifier) ReportSent(ctx context.Context, notice ReportSentNotice) error {
	toEmail := notice.Snapshot.Content.RecipientEmail
	if toEmail == "" {
		zap.S().Debugw("report has no recipient, not emailing", "reportId", notice.Report.ID)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	email := templates.ReportSentEmail{
		CaseNumber:     notice.Snapshot.CaseNumber,
		SequenceNumber: notice.Snapshot.SequenceNumber,
		Title:          notice.Snapshot.Content.Title,
		InsuredName:    notice.Snapshot.Content.InsuredName,
		FileName:       notice.Snapshot.FileName,
		IsResend:       notice.Snapshot.IsResend,
		Supersedes:     notice.Supersedes,
		ReTemplate:     notice.ReTemplate,
	}

	to := mail.NewEmail(notice.Snapshot.Content.InsurerName, toEmail)
	message := mail.NewSingleEmail(n.from, email.Subject(), to, email.PlainText(), email.HTML())
	response, err := n.client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send email", "error", err, "to", toEmail)
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", toEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("email sent successfully", "to", toEmail, "subject", email.Subject())
	return nil
}
