// Package testhelpers holds fixtures shared by the service and handler tests
package testhelpers

import (
	"context"
	"sync"
	"time"

	"github.com/linesmerrill/claim-reports-api/models"
	"github.com/linesmerrill/claim-reports-api/notifications"
)

// T0 is the reference instant tests measure from
var T0 = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

// Days converts whole days to a duration
func Days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

// Clock is a settable clock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock stopped at T0
func NewClock() *Clock { return &Clock{now: T0} }

// Now returns the current reading
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to T0 plus d
func (c *Clock) Set(d time.Duration) {
	c.mu.Lock()
	c.now = T0.Add(d)
	c.mu.Unlock()
}

// RecordingNotifier keeps every notice it receives and fails with Err when set
type RecordingNotifier struct {
	mu      sync.Mutex
	Notices []notifications.ReportSentNotice
	Err     error
}

// ReportSent records notice
func (n *RecordingNotifier) ReportSent(_ context.Context, notice notifications.ReportSentNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notices = append(n.Notices, notice)
	return n.Err
}

// SampleContent is a filled in report body
func SampleContent() models.ReportContent {
	return models.ReportContent{
		Title:          "Expert opinion",
		InsuredName:    "Ada Fischer",
		InsurerName:    "Allied Mutual",
		RecipientEmail: "claims@allied.example",
		Sections:       map[string]string{"facts": "Water damage in the basement."},
	}
}
