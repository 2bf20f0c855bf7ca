package templates

import (
	"fmt"
	"html"
	"strings"
)

// ReportSentEmail holds what the notification email shows about a sent report
type ReportSentEmail struct {
	CaseNumber     string
	SequenceNumber int
	Title          string
	InsuredName    string
	FileName       string
	IsResend       bool
	Supersedes     string
	// ReTemplate replaces the generated subject when set
	ReTemplate string
}

// Subject returns the email subject line
func (e ReportSentEmail) Subject() string {
	if re := strings.TrimSpace(e.ReTemplate); re != "" {
		if e.IsResend {
			return re + " (resent)"
		}
		return re
	}
	label := "Report"
	if e.IsResend {
		label = "Report (resent)"
	}
	if e.CaseNumber == "" {
		return fmt.Sprintf("%s: %s", label, e.Title)
	}
	return fmt.Sprintf("%s %d for case %s", label, e.SequenceNumber, e.CaseNumber)
}

// PlainText renders the text/plain body
func (e ReportSentEmail) PlainText() string {
	var b strings.Builder
	if e.Title != "" {
		fmt.Fprintf(&b, "%s\n\n", e.Title)
	}
	if e.CaseNumber != "" {
		fmt.Fprintf(&b, "Case: %s\nReport number: %d\n", e.CaseNumber, e.SequenceNumber)
	}
	if e.InsuredName != "" {
		fmt.Fprintf(&b, "Insured: %s\n", e.InsuredName)
	}
	if e.FileName != "" {
		fmt.Fprintf(&b, "Document: %s\n", e.FileName)
	}
	if e.IsResend {
		b.WriteString("\nThis is a resend of a report you have already received.\n")
	}
	if e.Supersedes != "" {
		fmt.Fprintf(&b, "\nThis report replaces %s.\n", e.Supersedes)
	}
	return b.String()
}

// HTML renders the branded text/html body.
// The plain text body is HTML-escaped and has newlines converted to <br> tags.
func (e ReportSentEmail) HTML() string {
	return RenderGenericEmail(e.Subject(), e.PlainText())
}

// RenderGenericEmail generates branded HTML for a generic email.
func RenderGenericEmail(subject, bodyContent string) string {
	// HTML-escape the body to prevent injection, then convert newlines to <br>
	escaped := html.EscapeString(bodyContent)
	htmlBody := strings.ReplaceAll(escaped, "\n", "<br>")

	safeSubject := html.EscapeString(subject)

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <title>%s</title>
  <style type="text/css">
    body { font-family: Georgia, 'Times New Roman', serif; margin: 0; padding: 0; background-color: #f4f1ea; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background-color: #1f2a44; padding: 28px 30px; }
    .header h1 { color: #fff; margin: 0; font-size: 20px; font-weight: 600; }
    .content { padding: 32px 30px; color: #1f2937; line-height: 1.6; font-size: 15px; }
    .footer { padding: 20px 30px; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      %s
    </div>
    <div class="footer">
      <p>Sent automatically when a report was finalized. Do not reply to this address.</p>
    </div>
  </div>
</body>
</html>`, safeSubject, safeSubject, htmlBody)
}
