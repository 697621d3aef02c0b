package roleassign

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labGroup() Group {
	return Group{
		Title:       "Laboratory groups",
		Description: "Pick your group.",
		Roles: []ServerRole{
			{RoleID: 11, Description: "Group 1", Emoji: "1️⃣"},
			{RoleID: 12, Description: "Group 2", Emoji: "<:lab2:900>"},
			{RoleID: 13, Description: "Group 3", Emoji: ":lab3:901", AlsoRemoveRoles: []snowflake.ID{50}},
			{RoleID: 0, Description: "None", Emoji: "❌"},
		},
	}
}

func allRolesExist(snowflake.ID) bool { return true }

func TestPlanMapsEmojiToRole(t *testing.T) {
	g := labGroup()

	tests := []struct {
		name        string
		emoji       string
		memberRoles []snowflake.ID
		want        Change
	}{
		{
			name:  "unicode emoji on a member without roles",
			emoji: "1️⃣",
			want:  Change{Add: 11},
		},
		{
			name:        "custom emoji swaps the group role",
			emoji:       ReactionEmoji("lab2", 900),
			memberRoles: []snowflake.ID{11, 99},
			want:        Change{Add: 12, Remove: []snowflake.ID{11}},
		},
		{
			name:        "extra roles are removed only when held",
			emoji:       "lab2:900",
			memberRoles: []snowflake.ID{13, 50},
			want:        Change{Add: 12, Remove: []snowflake.ID{13, 50}},
		},
		{
			name:        "reacting with the held role keeps it",
			emoji:       "1️⃣",
			memberRoles: []snowflake.ID{11},
			want:        Change{Add: 11},
		},
		{
			name:        "reset removes every group role",
			emoji:       "❌",
			memberRoles: []snowflake.ID{12, 13, 50, 99},
			want:        Change{Remove: []snowflake.ID{12, 13, 50}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Plan(tt.emoji, tt.memberRoles, allRolesExist)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanResetFlag(t *testing.T) {
	change, err := labGroup().Plan("❌", []snowflake.ID{11}, allRolesExist)
	require.NoError(t, err)
	assert.True(t, change.Reset())

	change, err = labGroup().Plan("1️⃣", nil, allRolesExist)
	require.NoError(t, err)
	assert.False(t, change.Reset())
}

func TestPlanUnknownEmoji(t *testing.T) {
	_, err := labGroup().Plan("🍕", []snowflake.ID{11}, allRolesExist)
	assert.ErrorIs(t, err, ErrUnknownEmoji)
}

func TestPlanMissingRole(t *testing.T) {
	exists := func(id snowflake.ID) bool { return id != 12 }
	_, err := labGroup().Plan("lab2:900", []snowflake.ID{11}, exists)
	assert.ErrorIs(t, err, ErrRoleMissing)
}

func TestNormalizeEmoji(t *testing.T) {
	assert.Equal(t, "lab:900", NormalizeEmoji("<:lab:900>"))
	assert.Equal(t, "lab:900", NormalizeEmoji("<a:lab:900>"))
	assert.Equal(t, "lab:900", NormalizeEmoji(":lab:900"))
	assert.Equal(t, "lab:900", NormalizeEmoji("lab:900"))
	assert.Equal(t, "a:123", NormalizeEmoji("a:123"))
	assert.Equal(t, "✅", NormalizeEmoji(" ✅ "))
}

func TestDisplayEmoji(t *testing.T) {
	assert.Equal(t, "<:lab:900>", DisplayEmoji(":lab:900"))
	assert.Equal(t, "✅", DisplayEmoji("✅"))
}

func TestReactionEmoji(t *testing.T) {
	assert.Equal(t, "✅", ReactionEmoji("✅", 0))
	assert.Equal(t, "lab:900", ReactionEmoji("lab", 900))
}

func TestGroupValidate(t *testing.T) {
	require.NoError(t, labGroup().Validate())

	assert.Error(t, Group{}.Validate())
	assert.Error(t, Group{Roles: []ServerRole{{RoleID: 1}}}.Validate())
	assert.Error(t, Group{Roles: []ServerRole{
		{RoleID: 1, Emoji: "<:x:5>"},
		{RoleID: 2, Emoji: "x:5"},
	}}.Validate(), "the same emoji in two spellings")
}

func TestGroupEmojisAndContent(t *testing.T) {
	g := labGroup()
	assert.Equal(t, []string{"1️⃣", "lab2:900", "lab3:901", "❌"}, g.Emojis())

	content := g.Content()
	assert.Contains(t, content, "### Laboratory groups\nPick your group.\n\n")
	assert.Contains(t, content, "<:lab2:900> - Group 2")
	assert.Contains(t, content, "<:lab3:901> - Group 3")
	assert.Contains(t, content, "❌ - None")
}

func TestMessageRef(t *testing.T) {
	ref := MessageRef{ChannelID: 123, MessageID: 456}
	assert.Equal(t, "123:456", ref.String())

	parsed, err := ParseMessageRef(ref.String())
	require.NoError(t, err)
	assert.Equal(t, ref, parsed)

	for _, bad := range []string{"", "123", "x:456", "123:y"} {
		_, err := ParseMessageRef(bad)
		assert.Error(t, err, bad)
	}
}
