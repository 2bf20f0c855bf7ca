package databases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/linesmerrill/claim-reports-api/databases"
	"github.com/linesmerrill/claim-reports-api/databases/mocks"
	"github.com/linesmerrill/claim-reports-api/models"
)

func TestMongoStore_LoadCaseFolders(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursorHelper := &mocks.CursorHelper{}

	cursorHelper.On("All", context.Background(), mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.CaseFolder)
		*arg = []models.CaseFolder{{CaseKey: "7/42"}, {CaseKey: "8/1"}}
	})
	cursorHelper.On("Close", context.Background()).Return(nil)
	collectionHelper.On("Find", context.Background(), bson.M{}).Return(cursorHelper, nil)
	dbHelper.On("Collection", "reports").Return(&mocks.CollectionHelper{})
	dbHelper.On("Collection", "case_folders").Return(collectionHelper)

	store := databases.NewMongoStore(dbHelper)
	folders, err := store.LoadCaseFolders(context.Background())
	require.NoError(t, err)
	assert.Len(t, folders, 2)
	assert.Equal(t, "8/1", folders["8/1"].CaseKey)
}

func TestMongoStore_LoadCaseFolderWithoutKey(t *testing.T) {
	store := databases.NewMongoStore(&mocks.DatabaseHelper{})
	folder, err := store.LoadCaseFolder(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, folder)
}

func TestMongoStore_SaveCaseFolder(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	collectionHelper.On("ReplaceOne", context.Background(), bson.M{"_id": "7/42"}, mock.Anything, mock.Anything).
		Return(errors.New("mocked-error"))
	dbHelper.On("Collection", "case_folders").Return(collectionHelper)

	store := databases.NewMongoStore(dbHelper)

	assert.Error(t, store.SaveCaseFolder(context.Background(), models.CaseFolder{}))
	err := store.SaveCaseFolder(context.Background(), models.CaseFolder{CaseKey: "7/42"})
	assert.ErrorContains(t, err, "mocked-error")
	assert.ErrorContains(t, err, "7/42")
}

func TestMemoryStore_RoundTripIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := databases.NewMemoryStore()

	sentAt := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	report := models.Report{
		ID:          "r1",
		CaseKey:     "7/42",
		Status:      models.StatusSent,
		FirstSentAt: &sentAt,
		Content:     models.ReportContent{Sections: map[string]string{"facts": "original"}},
	}
	require.NoError(t, store.SaveReports(ctx, []models.Report{report}))

	report.Content.Sections["facts"] = "mutated after save"
	loaded, err := store.LoadReports(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "original", loaded[0].Content.Sections["facts"])

	loaded[0].Content.Sections["facts"] = "mutated after load"
	again, err := store.LoadReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content.Sections["facts"])
}

func TestMemoryStore_CaseFolders(t *testing.T) {
	ctx := context.Background()
	store := databases.NewMemoryStore()

	missing, err := store.LoadCaseFolder(ctx, "7/42")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, store.SaveCaseFolder(ctx, models.CaseFolder{}))

	folder := models.CaseFolder{CaseKey: "7/42", SentReports: []models.SentReport{{ID: "r1#1", SequenceNumber: 1}}}
	require.NoError(t, store.SaveCaseFolder(ctx, folder))
	folder.SentReports[0].SequenceNumber = 99

	loaded, err := store.LoadCaseFolder(ctx, "7/42")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.SentReports[0].SequenceNumber)

	all, err := store.LoadCaseFolders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryStore_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := databases.NewMemoryStore()
	assert.ErrorIs(t, store.SaveReports(ctx, nil), context.Canceled)
}
