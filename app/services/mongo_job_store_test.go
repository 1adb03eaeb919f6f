package services

import (
	"context"
	"testing"
	"time"

	"github.com/ps-assigner/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

// newMockMongoStore tạo store trên mock deployment, hai response đầu dành cho CreateMany
func newMockMongoStore(mt *mtest.T) *MongoJobStore {
	mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
	store, err := NewMongoJobStore(mt.DB, time.Hour, zap.NewNop())
	require.NoError(mt, err)
	return store
}

func TestMongoJobStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get_job", func(mt *mtest.T) {
		store := newMockMongoStore(mt)
		ns := mt.DB.Name() + ".assignment_jobs"
		now := time.Now().Truncate(time.Millisecond)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "job_id", Value: "job_m1"},
			{Key: "status", Value: models.JobStatusDone},
			{Key: "total", Value: 3},
			{Key: "processed", Value: 3},
			{Key: "progress", Value: 1.0},
			{Key: "summary", Value: bson.D{
				{Key: "houses", Value: 3},
				{Key: "matched", Value: 2},
				{Key: "unmatched", Value: 1},
			}},
			{Key: "created_at", Value: primitive.NewDateTimeFromTime(now)},
		}))

		job, err := store.GetJob(context.Background(), "job_m1")
		require.NoError(mt, err)
		assert.Equal(mt, "job_m1", job.JobID)
		assert.Equal(mt, models.JobStatusDone, job.Status)
		assert.Equal(mt, 3, job.Processed)
		require.NotNil(mt, job.Summary)
		assert.Equal(mt, 2, job.Summary.Matched)
		assert.True(mt, now.Equal(job.CreatedAt))
	})

	mt.Run("get_job_not_found", func(mt *mtest.T) {
		store := newMockMongoStore(mt)
		ns := mt.DB.Name() + ".assignment_jobs"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := store.GetJob(context.Background(), "nope")
		assert.ErrorIs(mt, err, ErrJobNotFound)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int64(0)}}))
		stats, err := store.GetStats(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, "mongo", stats.Backend)
		assert.Equal(mt, int64(1), stats.TotalMiss)
	})

	mt.Run("save_job", func(mt *mtest.T) {
		store := newMockMongoStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: primitive.NewObjectID()}}}},
		))

		job := models.NewAssignmentJob("job_m2", 10)
		job.ID = primitive.NewObjectID()
		require.NoError(mt, store.SaveJob(context.Background(), job))
		// the caller's job keeps its id
		assert.False(mt, job.ID.IsZero())
	})

	mt.Run("save_job_error", func(mt *mtest.T) {
		store := newMockMongoStore(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Name:    "DuplicateKey",
			Message: "duplicate key",
		}))

		err := store.SaveJob(context.Background(), models.NewAssignmentJob("job_m3", 1))
		assert.Error(mt, err)
	})

	mt.Run("get_results_in_chunk_order", func(mt *mtest.T) {
		store := newMockMongoStore(mt)
		ns := mt.DB.Name() + ".assignment_results"
		row := func(sno, dh string, ps int) bson.D {
			return bson.D{
				{Key: "s_no", Value: sno},
				{Key: "dh_no", Value: dh},
				{Key: "ps", Value: ps},
				{Key: "sec", Value: nil},
				{Key: "odh_no", Value: sno},
				{Key: "ref_no", Value: ""},
				{Key: "found", Value: true},
			}
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "job_id", Value: "job_m4"},
				{Key: "chunk", Value: 0},
				{Key: "rows", Value: bson.A{row("1", "101 00", 7), row("2", "102 00", 7)}},
			},
			bson.D{
				{Key: "job_id", Value: "job_m4"},
				{Key: "chunk", Value: 1},
				{Key: "rows", Value: bson.A{row("3", "103 00", 8)}},
			},
		))

		results, err := store.GetResults(context.Background(), "job_m4")
		require.NoError(mt, err)
		require.Len(mt, results, 3)
		assert.Equal(mt, "1", results[0].SNo)
		assert.Equal(mt, "103 00", results[2].DhNo)
		assert.Equal(mt, 8, *results[2].PS)
		assert.Nil(mt, results[2].Sec)
		assert.True(mt, results[2].Matched())
	})

	mt.Run("get_results_not_found", func(mt *mtest.T) {
		store := newMockMongoStore(mt)
		ns := mt.DB.Name() + ".assignment_results"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := store.GetResults(context.Background(), "nope")
		assert.ErrorIs(mt, err, ErrJobNotFound)
	})

	mt.Run("save_results", func(mt *mtest.T) {
		store := newMockMongoStore(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
		)

		results := make([]models.AssignmentResult, resultChunkSize+1)
		require.NoError(mt, store.SaveResults(context.Background(), "job_m5", results))
	})
}
