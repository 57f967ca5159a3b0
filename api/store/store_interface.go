/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 * Authors: Jamie Barkway
 */

package store

import (
	"context"

	"github.com/JamieBarkway/group-bet/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	GetPlayers(ctx context.Context) ([]shared.Player, error)
	GetPlayer(ctx context.Context, username string) (shared.Player, error)
	ReplaceAllPlayers(ctx context.Context, players []shared.Player) error
	GetBetStatus(ctx context.Context, round int) (shared.BetStatus, error)
	UpsertBetStatus(ctx context.Context, status shared.BetStatus) error
	Disconnect(ctx context.Context) error
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)
