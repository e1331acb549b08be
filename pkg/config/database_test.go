package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoConnectionReusesClient(t *testing.T) {
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	conn := NewMongoConnectionFromClient(client, "socialhelp")

	db, err := conn.Database(ctx)
	require.NoError(t, err)
	assert.Equal(t, "socialhelp", db.Name())
	assert.Same(t, client, db.Client())

	// a borrowed client stays open
	require.NoError(t, conn.Close(ctx))
	db, err = conn.Database(ctx)
	require.NoError(t, err)
	assert.Same(t, client, db.Client())
}

func TestMongoConnectionPropagatesConnectErrors(t *testing.T) {
	conn := NewMongoConnection(MongoConfig{URI: "not-a-uri", Database: "socialhelp"})

	_, err := conn.Database(context.Background())
	require.Error(t, err)

	// nothing was cached, so the next call dials again
	_, err = conn.Database(context.Background())
	require.Error(t, err)
	assert.NoError(t, conn.Close(context.Background()))
}
