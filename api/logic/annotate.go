/* annotate.go
 * Contains the streak and fine annotator: a single pass over one player's result
 * history that derives the emoji shown on each entry. The pass is idempotent, so it
 * can be re-run over the full history on every settlement.
 * Authors: Jamie Barkway
 */

package logic

import (
	"strings"

	"github.com/JamieBarkway/group-bet/api/shared"
)

// Streak glyphs: one fire/anger per full run of three identical outcomes.
const (
	EmojiFire  = "\U0001F525" // 🔥 win streak
	EmojiAnger = "\U0001F621" // 😡 loss streak
)

// Special glyphs set by the special-condition detector (or by old migration
// scripts). These are preserved when the annotator recomputes an entry.
const (
	EmojiSleepy    = "\U0001F634"                        // 😴 goalless BTTS/over miss
	EmojiLoudLaugh = "\U0001F923"                        // 🤣 big-margin miss
	EmojiNauseated = "\U0001F922"                        // 🤢 only loser in the round
	EmojiFacepalm  = "\U0001F926‍♂️"      // 🤦‍♂️ legacy, hand-assigned
)

// SpecialEmojis are the glyphs the annotator keeps ahead of the streak glyphs
// instead of discarding.
var SpecialEmojis = []string{EmojiSleepy, EmojiLoudLaugh, EmojiNauseated, EmojiFacepalm}

// FineEmojis are the glyphs that attract a fine. Every occurrence counts, so a
// double anger glyph is two fines.
var FineEmojis = []string{EmojiSleepy, EmojiLoudLaugh, EmojiNauseated, EmojiFacepalm, EmojiAnger}

// streakEmojiThreshold is the run length that earns the first glyph; each
// further full run of the same length adds another.
const streakEmojiThreshold = 3

// Annotate recomputes the emoji field of every entry in results, in place.
// It receives the player's full ordered history and a map of slice index to special
// emoji produced by the special-condition detector for the round just settled.
// A pending entry clears its emoji and resets the running streak. A special emoji,
// whether newly supplied in overrides or already stored on the entry, is kept as a
// prefix ahead of the streak glyphs. Running Annotate twice with the same inputs
// produces the same output.
func Annotate(results []shared.Result, overrides map[int]string) {
	runOutcome := shared.OutcomeUndetermined
	runLen := 0

	for i := range results {
		r := &results[i]
		if r.Outcome == shared.OutcomePending {
			r.Emoji = ""
			runOutcome = shared.OutcomeUndetermined
			runLen = 0
			continue
		}

		if r.Outcome == runOutcome {
			runLen++
		} else {
			runOutcome = r.Outcome
			runLen = 1
		}

		base := EmojiAnger
		if r.Outcome == shared.OutcomeWin {
			base = EmojiFire
		}
		streak := strings.Repeat(base, runLen/streakEmojiThreshold)

		special := ""
		if override, ok := overrides[i]; ok {
			special = override
		} else if prefix := specialPrefix(r.Emoji); prefix != "" {
			special = prefix
		}

		r.Emoji = special + streak
	}
}

// specialPrefix returns the special glyph at the front of a stored emoji
// string, or "". Matching on the prefix rather than the whole string keeps a
// special alive once streak glyphs have been appended after it.
func specialPrefix(emoji string) string {
	for _, s := range SpecialEmojis {
		if strings.HasPrefix(emoji, s) {
			return s
		}
	}
	return ""
}

// CountFines returns how many fine glyph occurrences appear in an emoji
// string. Exact membership against the known constants, no pattern matching.
func CountFines(emoji string) int {
	if emoji == "" {
		return 0
	}
	count := 0
	for _, f := range FineEmojis {
		count += strings.Count(emoji, f)
	}
	return count
}
