/* test_mocks.go
 * Contains mock structures and interfaces for testing the API package
 * Authors: Jamie Barkway
 */

package api

import (
	"context"

	"github.com/JamieBarkway/group-bet/api/external"
	"github.com/JamieBarkway/group-bet/api/shared"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements the store interface over in-memory state for testing
type MockStore struct {
	Players   []shared.Player
	BetStatus map[int]shared.BetStatus

	// Records every full-replacement write so tests can assert on mutations
	ReplacedPlayers [][]shared.Player

	// Error injection for testing error paths
	GetPlayersError        error
	GetPlayerError         error
	ReplaceAllPlayersError error
	GetBetStatusError      error
	UpsertBetStatusError   error
}

// NewMockStore creates a new MockStore seeded with the given players
func NewMockStore(players []shared.Player) *MockStore {
	return &MockStore{
		Players:   players,
		BetStatus: make(map[int]shared.BetStatus),
	}
}

// GetPlayers mock implementation
func (m *MockStore) GetPlayers(ctx context.Context) ([]shared.Player, error) {
	if m.GetPlayersError != nil {
		return nil, m.GetPlayersError
	}
	out := make([]shared.Player, len(m.Players))
	copy(out, m.Players)
	return out, nil
}

// GetPlayer mock implementation
func (m *MockStore) GetPlayer(ctx context.Context, username string) (shared.Player, error) {
	if m.GetPlayerError != nil {
		return shared.Player{}, m.GetPlayerError
	}
	for _, p := range m.Players {
		if p.Username == username {
			return p, nil
		}
	}
	return shared.Player{}, mongo.ErrNoDocuments
}

// ReplaceAllPlayers mock implementation
func (m *MockStore) ReplaceAllPlayers(ctx context.Context, players []shared.Player) error {
	if m.ReplaceAllPlayersError != nil {
		return m.ReplaceAllPlayersError
	}
	snapshot := make([]shared.Player, len(players))
	copy(snapshot, players)
	m.ReplacedPlayers = append(m.ReplacedPlayers, snapshot)
	m.Players = players
	return nil
}

// GetBetStatus mock implementation
func (m *MockStore) GetBetStatus(ctx context.Context, round int) (shared.BetStatus, error) {
	if m.GetBetStatusError != nil {
		return shared.BetStatus{}, m.GetBetStatusError
	}
	status, ok := m.BetStatus[round]
	if !ok {
		return shared.BetStatus{}, mongo.ErrNoDocuments
	}
	return status, nil
}

// UpsertBetStatus mock implementation
func (m *MockStore) UpsertBetStatus(ctx context.Context, status shared.BetStatus) error {
	if m.UpsertBetStatusError != nil {
		return m.UpsertBetStatusError
	}
	m.BetStatus[status.Round] = status
	return nil
}

// Disconnect mock implementation
func (m *MockStore) Disconnect(ctx context.Context) error {
	return nil
}

// MockFetcher implements ResultsFetcher over canned data
type MockFetcher struct {
	Results  []external.RawMatch
	Statuses []external.LeagueStatus
	Fixtures []external.Fixture

	FetchResultsError  error
	FetchFixturesError error

	FetchResultsCalls int
}

// FetchResults mock implementation
func (m *MockFetcher) FetchResults(ctx context.Context) ([]external.RawMatch, []external.LeagueStatus, error) {
	m.FetchResultsCalls++
	if m.FetchResultsError != nil {
		return nil, nil, m.FetchResultsError
	}
	return m.Results, m.Statuses, nil
}

// FetchFixtures mock implementation
func (m *MockFetcher) FetchFixtures(ctx context.Context) ([]external.Fixture, []external.LeagueStatus, error) {
	if m.FetchFixturesError != nil {
		return nil, nil, m.FetchFixturesError
	}
	return m.Fixtures, m.Statuses, nil
}

// MockNotifier records every message sent through it
type MockNotifier struct {
	Messages  []string
	SendError error
}

// Send mock implementation
func (m *MockNotifier) Send(text string) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.Messages = append(m.Messages, text)
	return nil
}
