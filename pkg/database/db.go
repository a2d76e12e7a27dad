// Package database owns the process-wide MongoDB connection.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shashiranjanraj/stockroom/config"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// ErrNotConnected is returned by helpers used before Connect.
var ErrNotConnected = errors.New("database: not connected")

// Connect dials MongoDB, verifies the primary is reachable and selects the
// configured database. Returns an error instead of calling log.Fatal so the
// caller can shut down gracefully.
func Connect(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetMaxPoolSize(25).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(2 * time.Minute).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.MongoDatabase())
	return nil
}

// Disconnect closes the connection pool. It is a no-op before Connect.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	if err := Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("database: disconnect: %w", err)
	}
	Client, DB = nil, nil
	return nil
}

// Ping reports whether the primary answers.
func Ping(ctx context.Context) error {
	if Client == nil {
		return ErrNotConnected
	}
	return Client.Ping(ctx, readpref.Primary())
}

// Collection returns a handle on name in the configured database.
func Collection(name string) (*mongo.Collection, error) {
	if DB == nil {
		return nil, ErrNotConnected
	}
	return DB.Collection(name), nil
}
