package databases

// go generate: mockery --name CaseFolderDatabase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/claim-reports-api/models"
)

const caseFolderName = "case_folders"

// CaseFolderDatabase contains the methods to use with the case folder database
type CaseFolderDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.CaseFolder, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CaseFolder, error)
	Replace(ctx context.Context, folder models.CaseFolder) error
}

type caseFolderDatabase struct {
	db DatabaseHelper
}

// NewCaseFolderDatabase initializes a new instance of case folder database with the provided db connection
func NewCaseFolderDatabase(db DatabaseHelper) CaseFolderDatabase {
	return &caseFolderDatabase{
		db: db,
	}
}

// FindOne returns nil without an error when no folder matches
func (c *caseFolderDatabase) FindOne(ctx context.Context, filter interface{}) (*models.CaseFolder, error) {
	folder := &models.CaseFolder{}
	err := c.db.Collection(caseFolderName).FindOne(ctx, filter).Decode(&folder)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return folder, nil
}

func (c *caseFolderDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CaseFolder, error) {
	cursor, err := c.db.Collection(caseFolderName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	folders := []models.CaseFolder{}
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (c *caseFolderDatabase) Replace(ctx context.Context, folder models.CaseFolder) error {
	return c.db.Collection(caseFolderName).ReplaceOne(ctx,
		bson.M{"_id": folder.CaseKey},
		folder,
		options.Replace().SetUpsert(true))
}
