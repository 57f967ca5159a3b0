/* bet_status.go
 * Contains the methods for interacting with the bet_status collection: one record
 * per round recording who placed the real-money bet
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

// GetBetStatus looks up the bet status for a round.
// Postconditions: Returns the status if one exists, mongo.ErrNoDocuments if none was
// recorded for that round, or a wrapped error for anything else
func (s *Store) GetBetStatus(ctx context.Context, round int) (shared.BetStatus, error) {
	var status shared.BetStatus
	err := s.Collections.BetStatus.FindOne(ctx, bson.M{"round": round}).Decode(&status)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.BetStatus{}, err
		}
		return shared.BetStatus{}, fmt.Errorf("error fetching bet status from db: %w", err)
	}
	return status, nil
}

// UpsertBetStatus creates or overwrites the bet status for the record's round
func (s *Store) UpsertBetStatus(ctx context.Context, status shared.BetStatus) error {
	if status.Round < 1 || status.PlacedBy == "" {
		return fmt.Errorf("bet status needs a round and a player")
	}

	opts := options.Replace().SetUpsert(true)
	_, err := s.Collections.BetStatus.ReplaceOne(ctx, bson.M{"round": status.Round}, status, opts)
	if err != nil {
		return fmt.Errorf("bet status upsert failed: %w", err)
	}
	return nil
}
