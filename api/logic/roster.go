/* roster.go
 * Contains the turn-order rotation and the taunt messages sent when someone
 * deletes their prediction
 * Authors: Jamie Barkway
 */

package logic

import (
	"fmt"
	"math/rand"
)

// TurnForRound returns the player whose turn it is to place the real-money
// bet for the given round. Pure rotation over the roster order, round 1 maps
// to the first seat.
func TurnForRound(roster []string, round int) string {
	if len(roster) == 0 || round < 1 {
		return ""
	}
	return roster[(round-1)%len(roster)]
}

var deletionTaunts = []string{
	"🤡 **%s** can't even commit to being wrong.",
	"💀 **%s** deleted their bet... coward move.",
	"🐔 **%s** chickened out. Again.",
	"🎭 **%s** switched roles from gambler to spectator.",
	"🦥 **%s** slow to bet, fast to bail.",
	"🐀 **%s** squeaked and bolted.",
	"🩸 **%s** aborted mission... tragic.",
}

// DeletionTaunt returns a uniformly random taunt for a player who removed
// their pending prediction
func DeletionTaunt(username string) string {
	return fmt.Sprintf(deletionTaunts[rand.Intn(len(deletionTaunts))], username)
}
