package casework

import (
	"context"

	"github.com/linesmerrill/claim-reports-api/lifecycle"
)

// Sweep runs one retention pass. It holds the service lock so the lock state it
// evaluates is the one any concurrent edit would see, and it reads the clock once.
func (s *Service) Sweep(ctx context.Context) (lifecycle.SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	reports, err := s.Store.LoadReports(ctx)
	if err != nil {
		return lifecycle.SweepResult{}, err
	}
	folders, err := s.Store.LoadCaseFolders(ctx)
	if err != nil {
		return lifecycle.SweepResult{}, err
	}

	res := s.Policy.Sweep(reports, folders, now)
	if len(res.HardDeleted) > 0 {
		if err := s.Store.SaveReports(ctx, res.Kept); err != nil {
			return lifecycle.SweepResult{}, err
		}
	}

	ids := make([]string, 0, len(res.HardDeleted))
	for _, r := range res.HardDeleted {
		ids = append(ids, r.ID)
	}
	s.logger().Infow("retention sweep finished",
		"at", now,
		"kept", len(res.Kept),
		"archived", len(res.Archived),
		"hardDeleted", ids)
	return res, nil
}
