package voicepool

import (
	"strconv"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		channels []Channel
		want     Actions
	}{
		{
			name: "empty category",
			want: Actions{Create: true},
		},
		{
			name:     "all occupied",
			channels: []Channel{{ID: 1, Members: 2}, {ID: 2, Members: 1}},
			want:     Actions{Create: true},
		},
		{
			name:     "exactly one empty",
			channels: []Channel{{ID: 1, Members: 2}, {ID: 2}},
			want:     Actions{},
		},
		{
			name:     "extra empties deleted, first by position kept",
			channels: []Channel{{ID: 5, Position: 3}, {ID: 6, Position: 1}, {ID: 7, Position: 2, Members: 1}, {ID: 8, Position: 4}},
			want:     Actions{Delete: []snowflake.ID{5, 8}},
		},
		{
			name:     "equal positions fall back to id",
			channels: []Channel{{ID: 9}, {ID: 3}},
			want:     Actions{Delete: []snowflake.ID{9}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.channels)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Empty(), got.Empty())
		})
	}
}

func TestNamePicker(t *testing.T) {
	p := NewNamePicker([]string{"Alpha", "", "Beta"})

	t.Run("unused configured name", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			assert.Equal(t, "Beta", p.Next([]string{"Alpha"}))
		}
	})

	t.Run("random order over configured names", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 200; i++ {
			seen[p.Next(nil)] = true
		}
		assert.Equal(t, map[string]bool{"Alpha": true, "Beta": true}, seen)
	})

	t.Run("fallback room", func(t *testing.T) {
		name := p.Next([]string{"Alpha", "Beta", "3/1"})
		assert.Regexp(t, `^3/([1-9]|[1-9][0-9])$`, name)
		assert.NotEqual(t, "3/1", name)
	})

	t.Run("fallback skips every used room", func(t *testing.T) {
		p := NewNamePicker(nil)
		used := []string{}
		for i := 1; i <= 98; i++ {
			if i != 42 {
				used = append(used, "3/"+strconv.Itoa(i))
			}
		}
		used = append(used, "3/99")
		assert.Equal(t, "3/42", p.Next(used))
	})
}
