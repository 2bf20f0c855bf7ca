package databases_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/claim-reports-api/config"
	"github.com/linesmerrill/claim-reports-api/databases"
	"github.com/linesmerrill/claim-reports-api/databases/mocks"
	"github.com/linesmerrill/claim-reports-api/models"
)

func TestNewReportDatabase(t *testing.T) {
	_ = os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	_ = os.Setenv("DB_NAME", "test")
	conf := config.New()

	dbClient, err := databases.NewClient(conf)
	assert.NoError(t, err)

	db := databases.NewDatabase(conf, dbClient)

	reportDB := databases.NewReportDatabase(db)

	assert.NotEmpty(t, reportDB)
}

func TestReportDatabase_Find(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursorHelper := &mocks.CursorHelper{}

	cursorHelper.On("All", context.Background(), mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Report)
		*arg = []models.Report{{ID: "mocked-report"}}
	})
	cursorHelper.On("Close", context.Background()).Return(nil)

	collectionHelper.On("Find", context.Background(), bson.M{"error": true}).
		Return(nil, errors.New("mocked-error"))
	collectionHelper.On("Find", context.Background(), bson.M{"error": false}).
		Return(cursorHelper, nil)

	dbHelper.On("Collection", "reports").Return(collectionHelper)

	reportDba := databases.NewReportDatabase(dbHelper)

	reports, err := reportDba.Find(context.Background(), bson.M{"error": true})
	assert.Empty(t, reports)
	assert.EqualError(t, err, "mocked-error")

	reports, err = reportDba.Find(context.Background(), bson.M{"error": false})
	assert.NoError(t, err)
	assert.Equal(t, []models.Report{{ID: "mocked-report"}}, reports)
	cursorHelper.AssertCalled(t, "Close", context.Background())
}

func TestReportDatabase_ReplaceAll(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	var writes []mongo.WriteModel
	collectionHelper.On("BulkWrite", context.Background(), mock.Anything, mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		writes = args.Get(1).([]mongo.WriteModel)
	})
	collectionHelper.On("DeleteMany", context.Background(), bson.M{"_id": bson.M{"$nin": []string{"r1", "r2"}}}).
		Return(int64(3), nil)

	dbHelper.On("Collection", "reports").Return(collectionHelper)

	reportDba := databases.NewReportDatabase(dbHelper)
	err := reportDba.ReplaceAll(context.Background(), []models.Report{{ID: "r1"}, {ID: "r2"}})
	require.NoError(t, err)

	require.Len(t, writes, 2)
	first, ok := writes[0].(*mongo.ReplaceOneModel)
	require.True(t, ok)
	assert.Equal(t, bson.M{"_id": "r1"}, first.Filter)
	require.NotNil(t, first.Upsert)
	assert.True(t, *first.Upsert)
	collectionHelper.AssertExpectations(t)
}

func TestReportDatabase_ReplaceAllStopsOnBulkWriteError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("BulkWrite", context.Background(), mock.Anything, mock.Anything).
		Return(errors.New("mocked-error"))
	dbHelper.On("Collection", "reports").Return(collectionHelper)

	reportDba := databases.NewReportDatabase(dbHelper)
	err := reportDba.ReplaceAll(context.Background(), []models.Report{{ID: "r1"}})

	assert.ErrorContains(t, err, "mocked-error")
	collectionHelper.AssertNotCalled(t, "DeleteMany", mock.Anything, mock.Anything)
}
