// Package presence decides whether a set of activities counts as playing
// the tracked game.
package presence

import "github.com/genricoloni/playtime/internal/domain"

// IsPlaying reports whether activities contain a "playing" entry whose
// name is exactly game. Matching is case-sensitive.
func IsPlaying(activities []domain.Activity, game string) bool {
	for _, a := range activities {
		if a.Type == domain.ActivityPlaying && a.Name == game {
			return true
		}
	}
	return false
}
