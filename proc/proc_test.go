package proc

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsStaleMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  discord.Message
		want bool
	}{
		{name: "member text", msg: discord.Message{Type: discord.MessageTypeDefault}, want: true},
		{name: "member reply", msg: discord.Message{Type: discord.MessageTypeReply}, want: true},
		{name: "bot text", msg: discord.Message{Type: discord.MessageTypeDefault, Author: discord.User{Bot: true}}},
		{name: "join notice", msg: discord.Message{Type: discord.MessageTypeUserJoin}},
		{name: "pin notice", msg: discord.Message{Type: discord.MessageTypeChannelPinnedMessage}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isStaleMessage(tt.msg))
		})
	}
}

func TestSameChannel(t *testing.T) {
	a, b := snowflake.ID(1), snowflake.ID(2)
	a2 := snowflake.ID(1)

	assert.True(t, sameChannel(nil, nil))
	assert.True(t, sameChannel(&a, &a2))
	assert.False(t, sameChannel(&a, &b))
	assert.False(t, sameChannel(&a, nil))
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "-", orDash("  "))
	assert.Equal(t, "reason", orDash("reason"))
}
