package databases

import (
	"context"
	"fmt"
	"sync"

	"github.com/linesmerrill/claim-reports-api/lifecycle"
	"github.com/linesmerrill/claim-reports-api/models"
)

// MemoryStore is an in-process Store. Values are deep copied on the way in and
// out so callers never share memory with the stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []models.Report
	folders map[string]models.CaseFolder
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{folders: map[string]models.CaseFolder{}}
}

func (m *MemoryStore) LoadReports(_ context.Context) ([]models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Report, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, lifecycle.CloneReport(r))
	}
	return out, nil
}

func (m *MemoryStore) SaveReports(ctx context.Context, reports []models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		stored = append(stored, lifecycle.CloneReport(r))
	}

	m.mu.Lock()
	m.reports = stored
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) LoadCaseFolder(_ context.Context, caseKey string) (*models.CaseFolder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.folders[caseKey]
	if !ok {
		return nil, nil
	}
	out := lifecycle.CloneFolder(f)
	return &out, nil
}

func (m *MemoryStore) LoadCaseFolders(_ context.Context) (map[string]*models.CaseFolder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]*models.CaseFolder, len(m.folders))
	for k, folder := range m.folders {
		f := lifecycle.CloneFolder(folder)
		out[k] = &f
	}
	return out, nil
}

func (m *MemoryStore) SaveCaseFolder(ctx context.Context, folder models.CaseFolder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if folder.CaseKey == "" {
		return fmt.Errorf("case folder without a case key")
	}

	m.mu.Lock()
	m.folders[folder.CaseKey] = lifecycle.CloneFolder(folder)
	m.mu.Unlock()
	return nil
}
