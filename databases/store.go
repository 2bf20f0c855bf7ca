package databases

// go generate: mockery --name Store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/claim-reports-api/models"
)

// Store is the persistence the case engine reads and writes against. Reports are
// saved as a whole collection; callers serialise their calls.
type Store interface {
	LoadReports(ctx context.Context) ([]models.Report, error)
	SaveReports(ctx context.Context, reports []models.Report) error
	// LoadCaseFolder returns nil when the case has no folder yet
	LoadCaseFolder(ctx context.Context, caseKey string) (*models.CaseFolder, error)
	LoadCaseFolders(ctx context.Context) (map[string]*models.CaseFolder, error)
	SaveCaseFolder(ctx context.Context, folder models.CaseFolder) error
}

// MongoStore keeps reports and case folders in two mongo collections
type MongoStore struct {
	RDB ReportDatabase
	CDB CaseFolderDatabase
}

// NewMongoStore builds a Store on top of the given database
func NewMongoStore(db DatabaseHelper) *MongoStore {
	return &MongoStore{
		RDB: NewReportDatabase(db),
		CDB: NewCaseFolderDatabase(db),
	}
}

// LoadReports returns every stored report
func (s *MongoStore) LoadReports(ctx context.Context) ([]models.Report, error) {
	reports, err := s.RDB.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	return reports, nil
}

// SaveReports replaces the stored reports with the given set
func (s *MongoStore) SaveReports(ctx context.Context, reports []models.Report) error {
	return s.RDB.ReplaceAll(ctx, reports)
}

// LoadCaseFolder returns the folder for caseKey or nil
func (s *MongoStore) LoadCaseFolder(ctx context.Context, caseKey string) (*models.CaseFolder, error) {
	if caseKey == "" {
		return nil, nil
	}
	folder, err := s.CDB.FindOne(ctx, bson.M{"_id": caseKey})
	if err != nil {
		return nil, fmt.Errorf("failed to load case folder %q: %w", caseKey, err)
	}
	return folder, nil
}

// LoadCaseFolders returns every folder keyed by case key
func (s *MongoStore) LoadCaseFolders(ctx context.Context) (map[string]*models.CaseFolder, error) {
	folders, err := s.CDB.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load case folders: %w", err)
	}
	out := make(map[string]*models.CaseFolder, len(folders))
	for i := range folders {
		out[folders[i].CaseKey] = &folders[i]
	}
	return out, nil
}

// SaveCaseFolder upserts the folder under its case key
func (s *MongoStore) SaveCaseFolder(ctx context.Context, folder models.CaseFolder) error {
	if folder.CaseKey == "" {
		return fmt.Errorf("case folder without a case key")
	}
	if err := s.CDB.Replace(ctx, folder); err != nil {
		return fmt.Errorf("failed to save case folder %q: %w", folder.CaseKey, err)
	}
	return nil
}
