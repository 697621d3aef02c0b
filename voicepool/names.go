package voicepool

import (
	"fmt"
	"math/rand/v2"
)

const maxRoomNumber = 99

// NamePicker chooses names for new pool channels.
type NamePicker struct {
	names []string
	intN  func(n int) int
}

func NewNamePicker(names []string) *NamePicker {
	filtered := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			filtered = append(filtered, n)
		}
	}
	return &NamePicker{names: filtered, intN: rand.IntN}
}

// Next returns a configured name not in use, in random order. When all are
// taken it falls back to a free "3/NN" room.
func (p *NamePicker) Next(inUse []string) string {
	used := make(map[string]struct{}, len(inUse))
	for _, n := range inUse {
		used[n] = struct{}{}
	}

	names := make([]string, len(p.names))
	copy(names, p.names)
	for i := len(names) - 1; i > 0; i-- {
		j := p.intN(i + 1)
		names[i], names[j] = names[j], names[i]
	}
	for _, n := range names {
		if _, ok := used[n]; !ok {
			return n
		}
	}

	start := p.intN(maxRoomNumber)
	for i := 0; i < maxRoomNumber; i++ {
		room := fmt.Sprintf("3/%d", (start+i)%maxRoomNumber+1)
		if _, ok := used[room]; !ok {
			return room
		}
	}
	return fmt.Sprintf("3/%d", start+1)
}
