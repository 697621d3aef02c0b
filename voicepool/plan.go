// Package voicepool keeps a category of voice channels with exactly one empty
// channel, so members always have a free room to join.
package voicepool

import (
	"sort"

	"github.com/disgoorg/snowflake/v2"
)

// Channel is a voice channel of the pool. Members counts non-bot members only.
type Channel struct {
	ID       snowflake.ID
	Name     string
	Position int
	Members  int
}

// Actions is what reconciliation must do to reach exactly one empty channel.
type Actions struct {
	Create bool
	Delete []snowflake.ID
}

func (a Actions) Empty() bool {
	return !a.Create && len(a.Delete) == 0
}

// Plan keeps the first empty channel by position and deletes the others, or
// asks for a new one when none is empty.
func Plan(channels []Channel) Actions {
	sorted := make([]Channel, len(channels))
	copy(sorted, channels)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].ID < sorted[j].ID
	})

	var a Actions
	keptEmpty := false
	for _, ch := range sorted {
		if ch.Members > 0 {
			continue
		}
		if !keptEmpty {
			keptEmpty = true
			continue
		}
		a.Delete = append(a.Delete, ch.ID)
	}
	a.Create = !keptEmpty
	return a
}
