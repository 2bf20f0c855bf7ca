package lifecycle

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/claim-reports-api/models"
)

func TestComputeLockStatePrecedence(t *testing.T) {
	for _, closed := range []bool{false, true} {
		for _, manual := range []bool{false, true} {
			for _, status := range []models.ReportStatus{models.StatusDraft, models.StatusReadyToSend, models.StatusSent} {
				for _, horizonPassed := range []bool{false, true} {
					name := fmt.Sprintf("closed=%v/manual=%v/%s/passed=%v", closed, manual, status, horizonPassed)
					t.Run(name, func(t *testing.T) {
						r := sentAt("r1", "7/42", 1, t0)
						r.Status = status
						if manual {
							r.ManualLock = &models.AuditRecord{At: t0.Add(time.Hour), ByID: "lawyer-1"}
						}
						var folder *models.CaseFolder
						if closed {
							folder = closedFolder("7/42", t0.Add(2*time.Hour))
						}
						now := t0.Add(days(10))
						if horizonPassed {
							now = t0.Add(days(36))
						}

						got := ComputeLockState(&r, folder, now)

						switch {
						case closed:
							assert.True(t, got.IsLocked)
							assert.Equal(t, models.LockCaseClosed, got.LockType)
						case manual:
							assert.True(t, got.IsLocked)
							assert.Equal(t, models.LockManual, got.LockType)
						case status != models.StatusSent:
							assert.False(t, got.IsLocked)
							assert.Equal(t, models.LockNone, got.LockType)
						case horizonPassed:
							assert.True(t, got.IsLocked)
							assert.Equal(t, models.LockAuto, got.LockType)
						default:
							assert.False(t, got.IsLocked)
							assert.Equal(t, models.LockNone, got.LockType)
						}
					})
				}
			}
		}
	}
}

func TestComputeLockStateSecondReportScenario(t *testing.T) {
	first := sentAt("r1", "7/42", 1, t0)
	second := sentAt("r2", "7/42", 2, t0.Add(days(40)))
	now := t0.Add(days(40))

	s1 := ComputeLockState(&first, nil, now)
	assert.True(t, s1.IsLocked)
	assert.Equal(t, models.LockAuto, s1.LockType)
	require.NotNil(t, s1.LockAt)
	assert.Equal(t, t0.Add(days(35)), *s1.LockAt)

	s2 := ComputeLockState(&second, nil, now)
	assert.False(t, s2.IsLocked)
	assert.Equal(t, models.LockNone, s2.LockType)

	s2 = ComputeLockState(&second, nil, t0.Add(days(40+35)).Add(time.Second))
	assert.True(t, s2.IsLocked)
}

func TestComputeLockStateExtensionScenario(t *testing.T) {
	r := sentAt("r1", "7/42", 1, t0)
	r, err := DefaultPolicy.ExtendLock(r, nil, models.LockExtension{At: t0.Add(days(30)), ByID: "admin-1", Days: 35, Reason: "expert opinion pending"}, nil)
	require.NoError(t, err)

	assert.False(t, ComputeLockState(&r, nil, t0.Add(days(60))).IsLocked)

	got := ComputeLockState(&r, nil, t0.Add(days(71)))
	assert.True(t, got.IsLocked)
	assert.Equal(t, models.LockAuto, got.LockType)
	assert.Equal(t, t0.Add(days(70)), *got.LockAt)
}

func TestLockHorizonIgnoresFutureExtensions(t *testing.T) {
	r := sentAt("r1", "7/42", 1, t0)
	r.LockExtensions = []models.LockExtension{{At: t0.Add(days(50)), ByID: "admin-1", Days: 10}}

	horizon, ok := DefaultPolicy.LockHorizon(&r, t0.Add(days(40)))
	require.True(t, ok)
	assert.Equal(t, t0.Add(days(35)), horizon)

	horizon, _ = DefaultPolicy.LockHorizon(&r, t0.Add(days(50)))
	assert.Equal(t, t0.Add(days(45)), horizon)
}

func TestLockHorizonNeverMovesBackward(t *testing.T) {
	r := sentAt("r1", "7/42", 1, t0)
	now := t0.Add(days(90))
	before, _ := DefaultPolicy.LockHorizon(&r, now)

	for i, d := range []int{1, 7, 35, 2} {
		var err error
		r, err = DefaultPolicy.ExtendLock(r, nil, models.LockExtension{At: t0.Add(days(i + 1)), ByID: "admin-1", Days: d}, nil)
		require.NoError(t, err)
		after, _ := DefaultPolicy.LockHorizon(&r, now)
		assert.True(t, !after.Before(before), "extension %d moved the horizon back", i)
		before = after
	}

	// legacy rows with non-positive days are ignored rather than pulling the horizon in
	r.LockExtensions = append(r.LockExtensions, models.LockExtension{At: t0, Days: -30})
	after, _ := DefaultPolicy.LockHorizon(&r, now)
	assert.Equal(t, before, after)
}

func TestComputeLockStateLegacySentReportWithoutFirstSentAt(t *testing.T) {
	r := sentAt("r1", "7/42", 1, t0)
	r.FirstSentAt = nil
	assert.True(t, ComputeLockState(&r, nil, t0.Add(days(36))).IsLocked)

	r.History = nil
	assert.False(t, ComputeLockState(&r, nil, t0.Add(days(360))).IsLocked)
}

func TestComputeLockStateDraftNeverAutoLocks(t *testing.T) {
	r := draft("r1", "7/42")
	stale := t0.Add(-days(400))
	r.FirstSentAt = &stale
	assert.False(t, ComputeLockState(&r, nil, t0).IsLocked)
}
