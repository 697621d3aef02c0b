package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhois(t *testing.T) {
	members := []GuildMember{
		{ID: "111", DisplayName: "Kowal", Username: "jkowalski"},
		{ID: "222", DisplayName: "Ania", Username: "anna.nowak"},
		{ID: "333", DisplayName: "Zbyszek", Username: "zbyszek99"},
	}
	records := []MemberRecord{
		{MemberID: "111", StudentID: "123456", FirstName: "Jan", LastName: "Kowalski"},
		{MemberID: "222", StudentID: "654321", FirstName: "Anna", LastName: "Nowak"},
		{MemberID: "999", StudentID: "555555", FirstName: "Left", LastName: "Guild"},
	}

	t.Run("exact index", func(t *testing.T) {
		got := Whois(members, records, "654321")
		require.Len(t, got, 1)
		assert.Equal(t, "222", got[0].Member.ID)
		assert.Equal(t, 1.0, got[0].Similarity)
	})

	t.Run("name is case insensitive", func(t *testing.T) {
		got := Whois(members, records, "KOWALSKI")
		require.NotEmpty(t, got)
		assert.Equal(t, "111", got[0].Member.ID)
		assert.True(t, got[0].Registered)
	})

	t.Run("member id", func(t *testing.T) {
		got := Whois(members, records, "333")
		require.NotEmpty(t, got)
		assert.Equal(t, "333", got[0].Member.ID)
		assert.False(t, got[0].Registered)
	})

	t.Run("no good match", func(t *testing.T) {
		assert.Empty(t, Whois(members, records, "qwertyuiopasdfgh"))
	})

	t.Run("index of member outside the guild falls back to fuzzy search", func(t *testing.T) {
		for _, m := range Whois(members, records, "555555") {
			assert.NotEqual(t, "999", m.Member.ID)
		}
	})

	t.Run("results are sorted best first", func(t *testing.T) {
		got := Whois(members, records, "anna")
		require.NotEmpty(t, got)
		assert.Equal(t, "222", got[0].Member.ID)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Similarity, got[i].Similarity)
		}
	})
}
