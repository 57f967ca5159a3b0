/* store.go
 * Contains the Store struct and NewStore function. The methods for this package are
 * split across players.go and bet_status.go, one file per collection.
 * Authors: Jamie Barkway
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	log         *zap.SugaredLogger
	Collections struct {
		Players   *mongo.Collection
		BetStatus *mongo.Collection
	}
}

// NewStore initialises the db connection and binds the collections.
// Preconditions: Receives the database name, the mongo connection uri and a logger
// Postconditions: Returns a pointer to the Store, or an error if the connection fails
func NewStore(ctx context.Context, dbName string, mongoURI string, logger *zap.SugaredLogger) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
		log:      logger,
	}
	s.Collections.Players = db.Collection("players")
	s.Collections.BetStatus = db.Collection("bet_status")
	return s, nil
}

// Disconnect closes the underlying mongo client
func (s *Store) Disconnect(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
