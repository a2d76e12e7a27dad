package migration_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/shashiranjanraj/stockroom/pkg/migration"
)

type countingMigration struct {
	up, down int
}

func (m *countingMigration) Up(context.Context, *mongo.Database) error {
	m.up++
	return nil
}

func (m *countingMigration) Down(context.Context, *mongo.Database) error {
	m.down++
	return nil
}

const (
	fakeName = "20990101000000_counting"
	ns       = "stockroom.stockroom_migrations"
)

func TestRunner(t *testing.T) {
	fake := &countingMigration{}
	migration.Register(fakeName, fake)

	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("run applies pending", func(mt *mtest.T) {
		*fake = countingMigration{}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		var out bytes.Buffer
		require.NoError(mt, migration.New(mt.DB, &out).Run(context.Background()))
		assert.Equal(mt, 1, fake.up)
		assert.Contains(mt, out.String(), "Migrated:  "+fakeName)
	})

	mt.Run("run skips migrations already recorded", func(mt *mtest.T) {
		*fake = countingMigration{}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "name", Value: fakeName},
				{Key: "batch", Value: 1},
			}),
		)

		var out bytes.Buffer
		require.NoError(mt, migration.New(mt.DB, &out).Run(context.Background()))
		assert.Zero(mt, fake.up)
		assert.Contains(mt, out.String(), "Nothing to migrate.")
	})

	mt.Run("rollback with empty history", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		var out bytes.Buffer
		require.NoError(mt, migration.New(mt.DB, &out).Rollback(context.Background()))
		assert.Contains(mt, out.String(), "Nothing to roll back.")
	})

	mt.Run("rollback reverses last batch", func(mt *mtest.T) {
		*fake = countingMigration{}
		doc := bson.D{{Key: "name", Value: fakeName}, {Key: "batch", Value: 2}}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, doc),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, doc),
			mtest.CreateSuccessResponse(),
		)

		var out bytes.Buffer
		require.NoError(mt, migration.New(mt.DB, &out).Rollback(context.Background()))
		assert.Equal(mt, 1, fake.down)
		assert.Contains(mt, out.String(), "Rolled back:  "+fakeName)
	})

	mt.Run("status lists pending", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		var out bytes.Buffer
		require.NoError(mt, migration.New(mt.DB, &out).Status(context.Background()))
		assert.Regexp(mt, fakeName+`\s+Pending`, out.String())
	})
}
