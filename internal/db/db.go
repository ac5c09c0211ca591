package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const pingAttempts = 5

// Connect dials MongoDB and verifies the connection, retrying the ping a
// bounded number of times with doubling delay. This runs once at startup and
// never on the request path.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	var lastErr error
	delay := time.Second
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		lastErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if lastErr == nil {
			log.Println("Connected to MongoDB!")
			return client, nil
		}
		log.Printf("MongoDB ping failed (attempt %d/%d): %v", attempt, pingAttempts, lastErr)
		if attempt < pingAttempts {
			time.Sleep(delay)
			delay *= 2
		}
	}

	disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(disconnectCtx); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
	}
	return nil, lastErr
}
