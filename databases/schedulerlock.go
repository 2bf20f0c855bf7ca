package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const schedulerLockName = "scheduler_locks"

// SchedulerLock is a lease on a named background job
type SchedulerLock struct {
	Name      string    `bson:"_id"`
	Holder    string    `bson:"holder"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// SchedulerLockDatabase hands out job leases so only one instance runs a job at a time
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, holder string) error
}

type schedulerLockDatabase struct {
	db  DatabaseHelper
	now func() time.Time
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db:  db,
		now: time.Now,
	}
}

// TryAcquireLock takes the lease when it is free, expired or already ours. Losing
// the race to another holder is not an error.
func (c *schedulerLockDatabase) TryAcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error) {
	now := c.now().UTC()
	filter := bson.M{
		"_id": name,
		"$or": bson.A{
			bson.M{"expiresAt": bson.M{"$lt": now}},
			bson.M{"holder": holder},
		},
	}
	update := bson.M{"$set": bson.M{"holder": holder, "expiresAt": now.Add(ttl)}}

	res, err := c.db.Collection(schedulerLockName).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.MatchedCount > 0 || res.UpsertedCount > 0, nil
}

func (c *schedulerLockDatabase) ReleaseLock(ctx context.Context, name, holder string) error {
	return c.db.Collection(schedulerLockName).DeleteOne(ctx, bson.M{"_id": name, "holder": holder})
}
