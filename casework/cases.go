package casework

import (
	"context"

	"github.com/linesmerrill/claim-reports-api/casekey"
	"github.com/linesmerrill/claim-reports-api/lifecycle"
	"github.com/linesmerrill/claim-reports-api/models"
)

// CaseView is a case folder with the live reports of the case
type CaseView struct {
	Folder             models.CaseFolder       `json:"folder"`
	NextSequenceNumber int                     `json:"nextSequenceNumber"`
	Reports            []models.ReportWithLock `json:"reports"`
	// ChainHeads maps each recurring key to the id of its live sent entry
	ChainHeads map[string]string `json:"chainHeads,omitempty"`
}

// GetCase returns the folder for a case number in any of its spellings
func (s *Service) GetCase(ctx context.Context, caseNumber string) (CaseView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	folder, err := s.loadFolder(ctx, caseNumber)
	if err != nil {
		return CaseView{}, err
	}
	reports, err := s.Store.LoadReports(ctx)
	if err != nil {
		return CaseView{}, err
	}

	view := CaseView{
		Folder:             *folder,
		NextSequenceNumber: lifecycle.NextSequenceNumber(folder.CaseKey, reports, folder),
		Reports:            []models.ReportWithLock{},
	}
	for _, r := range reports {
		if r.CaseKey == folder.CaseKey && r.DeletedAt == nil {
			view.Reports = append(view.Reports, s.view(r, folder, now))
		}
	}
	for _, e := range folder.SentReports {
		if _, seen := view.ChainHeads[e.RecurringKey]; seen || e.RecurringKey == "" {
			continue
		}
		if head, ok := lifecycle.ActiveChainHead(folder, e.RecurringKey); ok {
			if view.ChainHeads == nil {
				view.ChainHeads = map[string]string{}
			}
			view.ChainHeads[e.RecurringKey] = head.ID
		}
	}
	return view, nil
}

// NextNumber returns the number the next sent report of the case will get. A case
// without a folder starts at 1.
func (s *Service) NextNumber(ctx context.Context, caseNumber string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := casekey.Normalize(caseNumber)
	if key == "" {
		return 0, lifecycle.NewError(lifecycle.CodeInvalidInput, "case number is required", nil)
	}
	reports, err := s.Store.LoadReports(ctx)
	if err != nil {
		return 0, err
	}
	folder, err := s.Store.LoadCaseFolder(ctx, key)
	if err != nil {
		return 0, err
	}
	return lifecycle.NextSequenceNumber(key, reports, folder), nil
}

// CloseCase closes the case once every report in it is sent or trashed
func (s *Service) CloseCase(ctx context.Context, actor Actor, caseNumber string) (models.CaseFolder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, err := s.loadFolder(ctx, caseNumber)
	if err != nil {
		return models.CaseFolder{}, err
	}
	reports, err := s.Store.LoadReports(ctx)
	if err != nil {
		return models.CaseFolder{}, err
	}

	closed, err := lifecycle.CloseCase(*folder, reports, actor.UserID, s.Now())
	if err != nil {
		return models.CaseFolder{}, err
	}
	if err := s.Store.SaveCaseFolder(ctx, closed); err != nil {
		return models.CaseFolder{}, err
	}
	s.logger().Infow("case closed", "caseKey", closed.CaseKey, "by", actor.UserID)
	return closed, nil
}

// ReopenCase clears a case closure
func (s *Service) ReopenCase(ctx context.Context, actor Actor, caseNumber string) (models.CaseFolder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, err := s.loadFolder(ctx, caseNumber)
	if err != nil {
		return models.CaseFolder{}, err
	}
	reopened := lifecycle.ReopenCase(*folder, s.Now())
	if err := s.Store.SaveCaseFolder(ctx, reopened); err != nil {
		return models.CaseFolder{}, err
	}
	s.logger().Infow("case reopened", "caseKey", reopened.CaseKey, "by", actor.UserID)
	return reopened, nil
}

// SetReTemplate replaces the case's subject line template
func (s *Service) SetReTemplate(ctx context.Context, caseNumber, template string) (models.CaseFolder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, err := s.loadFolder(ctx, caseNumber)
	if err != nil {
		return models.CaseFolder{}, err
	}
	updated := lifecycle.SetReTemplate(*folder, template, s.Now())
	if err := s.Store.SaveCaseFolder(ctx, updated); err != nil {
		return models.CaseFolder{}, err
	}
	return updated, nil
}

func (s *Service) loadFolder(ctx context.Context, caseNumber string) (*models.CaseFolder, error) {
	key := casekey.Normalize(caseNumber)
	if key == "" {
		return nil, lifecycle.NewError(lifecycle.CodeInvalidInput, "case number is required", nil)
	}
	folder, err := s.Store.LoadCaseFolder(ctx, key)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, lifecycle.NotFound("case", key)
	}
	return folder, nil
}
