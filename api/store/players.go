/* players.go
 * Contains the methods for interacting with the players collection. The player set
 * is a fixed roster; mutations are computed fully in memory by the caller and the
 * whole set is written back in one bulk operation.
 * Authors: Jamie Barkway
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JamieBarkway/group-bet/api/shared"
)

// GetPlayers fetches the whole roster from the db.
// Preconditions: Receives a context
// Postconditions: Returns all players ordered by seat, or an error if it occurs
func (s *Store) GetPlayers(ctx context.Context) ([]shared.Player, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seat", Value: 1}})

	cursor, err := s.Collections.Players.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching players from db: %w", err)
	}

	var players []shared.Player
	if err = cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of players: %w", err)
	}
	return players, nil
}

// GetPlayer does a db lookup for a single player by username.
// Postconditions: Returns the player if they exist, mongo.ErrNoDocuments if they
// don't, or a wrapped error for anything else
func (s *Store) GetPlayer(ctx context.Context, username string) (shared.Player, error) {
	var player shared.Player
	err := s.Collections.Players.FindOne(ctx, bson.M{"username": username}).Decode(&player)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.Player{}, err
		}
		return shared.Player{}, fmt.Errorf("error fetching player from db: %w", err)
	}
	return player, nil
}

// ReplaceAllPlayers writes the full player set back to the db in one bulk
// operation, upserting by username. The caller is expected to have computed the
// whole mutation in memory first, so a failure here leaves the stored set as it
// was rather than partially written.
func (s *Store) ReplaceAllPlayers(ctx context.Context, players []shared.Player) error {
	if len(players) == 0 {
		return fmt.Errorf("refusing to replace roster with an empty player set")
	}

	models := make([]mongo.WriteModel, 0, len(players))
	for _, p := range players {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"username": p.Username}).
			SetReplacement(p).
			SetUpsert(true))
	}

	s.log.Debugw("replacing player set", "players", len(players))
	_, err := s.Collections.Players.BulkWrite(ctx, models)
	if err != nil {
		return fmt.Errorf("player set replace failed: %w", err)
	}
	return nil
}
