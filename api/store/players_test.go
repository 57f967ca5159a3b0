/* players_test.go
 * Contains unit tests for players.go using the mongo mock deployment
 * Authors: Jamie Barkway
 */

package store

import (
	"context"
	"testing"

	"github.com/JamieBarkway/group-bet/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

func mockStore(mt *mtest.T) *Store {
	store := &Store{
		Client:   mt.Client,
		Database: mt.DB,
		log:      zap.NewNop().Sugar(),
	}
	store.Collections.Players = mt.Coll
	store.Collections.BetStatus = mt.Coll
	return store
}

func playerDoc(username string, seat int) bson.D {
	return bson.D{
		{Key: "username", Value: username},
		{Key: "seat", Value: seat},
		{Key: "results", Value: bson.A{
			bson.D{
				{Key: "round", Value: 1},
				{Key: "outcome", Value: "W"},
			},
		}},
	}
}

// region GetPlayers tests

func TestGetPlayers_Success(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns the roster", func(mt *mtest.T) {
		store := mockStore(mt)

		first := mtest.CreateCursorResponse(1, "test.players", mtest.FirstBatch,
			playerDoc("alice", 1), playerDoc("bob", 2))
		killCursors := mtest.CreateCursorResponse(0, "test.players", mtest.NextBatch)
		mt.AddMockResponses(first, killCursors)

		players, err := store.GetPlayers(context.Background())
		require.NoError(t, err)
		require.Len(t, players, 2)
		assert.Equal(t, "alice", players[0].Username)
		assert.Equal(t, 1, players[0].Seat)
		require.Len(t, players[0].Results, 1)
		assert.Equal(t, shared.OutcomeWin, players[0].Results[0].Outcome)
		assert.Equal(t, "bob", players[1].Username)
	})
}

func TestGetPlayers_EmptyRoster(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns empty slice without error", func(mt *mtest.T) {
		store := mockStore(mt)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.players", mtest.FirstBatch))

		players, err := store.GetPlayers(context.Background())
		require.NoError(t, err)
		assert.Empty(t, players)
	})
}

func TestGetPlayers_DatabaseError(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("wraps the driver error", func(mt *mtest.T) {
		store := mockStore(mt)

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Message: "interrupted",
			Name:    "Interrupted",
		}))

		_, err := store.GetPlayers(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "error fetching players")
	})
}

// endregion

// region GetPlayer tests

func TestGetPlayer_Success(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("finds a player by username", func(mt *mtest.T) {
		store := mockStore(mt)

		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.players", mtest.FirstBatch,
			playerDoc("alice", 1)))

		player, err := store.GetPlayer(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", player.Username)
	})
}

func TestGetPlayer_NotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("passes ErrNoDocuments through", func(mt *mtest.T) {
		store := mockStore(mt)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.players", mtest.FirstBatch))

		_, err := store.GetPlayer(context.Background(), "mallory")
		assert.Equal(t, mongo.ErrNoDocuments, err)
	})
}

// endregion

// region ReplaceAllPlayers tests

func TestReplaceAllPlayers_Success(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("bulk upserts the roster", func(mt *mtest.T) {
		store := mockStore(mt)

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "nModified", Value: 2},
		))

		err := store.ReplaceAllPlayers(context.Background(), []shared.Player{
			{Username: "alice", Seat: 1},
			{Username: "bob", Seat: 2},
		})
		assert.NoError(t, err)
	})
}

func TestReplaceAllPlayers_RefusesEmptySet(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("never wipes the roster", func(mt *mtest.T) {
		store := mockStore(mt)

		err := store.ReplaceAllPlayers(context.Background(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "empty player set")
	})
}

func TestReplaceAllPlayers_DatabaseError(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("wraps the driver error", func(mt *mtest.T) {
		store := mockStore(mt)

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    64,
			Message: "waiting for replication timed out",
			Name:    "WriteConcernFailed",
		}))

		err := store.ReplaceAllPlayers(context.Background(), []shared.Player{{Username: "alice"}})
		assert.Error(t, err)
	})
}

// endregion
