package home

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/proc"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/voicepool"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "limit",
		Description: "Change the user limit of your voice channel.",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionInt{
				Name:        "limit",
				Description: "The new limit, 0 removes it",
				Required:    true,
				MinValue:    intPtr(0),
				MaxValue:    intPtr(voicepool.MaxUserLimit),
			},
		},
	}, handleVoiceLimit)

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "name",
		Description: "Change the name of your voice channel.",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "name",
				Description: "The new name",
				Required:    true,
				MinLength:   intPtr(1),
				MaxLength:   intPtr(voicepool.MaxNameLength),
			},
		},
	}, handleVoiceName)
}

// poolChannel resolves the pool channel of the invoking member, replying on failure.
func poolChannel(event *events.ApplicationCommandInteractionCreate) (*voicepool.Manager, discord.GuildChannel, bool) {
	guildID := event.GuildID()
	if guildID == nil {
		respondEphemeral(event, sys.MsgGuildOnly)
		return nil, nil, false
	}
	pool := proc.GetVoicePool()
	channelID, ok := proc.MemberPoolChannel(event.Client(), *guildID, event.User().ID)
	if pool == nil || !ok {
		respondEphemeral(event, sys.MsgVoiceNotOnPool)
		return nil, nil, false
	}
	ch, ok := event.Client().Caches.Channel(channelID)
	if !ok {
		respondEphemeral(event, sys.MsgVoiceNotOnPool)
		return nil, nil, false
	}
	return pool, ch, true
}

func handleVoiceLimit(event *events.ApplicationCommandInteractionCreate) {
	pool, ch, ok := poolChannel(event)
	if !ok {
		return
	}

	limit := event.SlashCommandInteractionData().Int("limit")
	err := pool.SetLimit(appContext(), ch.ID(), limit)
	switch {
	case err == nil:
		sys.LogVoice("%s set the limit of %s to %d", event.User().Username, ch.Name(), limit)
		respondEphemeral(event, fmt.Sprintf(sys.MsgVoiceLimitChanged, limit))
	case errors.Is(err, voicepool.ErrInvalidLimit):
		respondEphemeral(event, err.Error())
	case errors.Is(err, voicepool.ErrNotInPool):
		respondEphemeral(event, sys.MsgVoiceNotOnPool)
	default:
		sys.LogError(sys.MsgVoiceUpdateFail, err)
		respondEphemeral(event, sys.MsgRegistrationGenericFail)
	}
}

func handleVoiceName(event *events.ApplicationCommandInteractionCreate) {
	pool, ch, ok := poolChannel(event)
	if !ok {
		return
	}

	name := event.SlashCommandInteractionData().String("name")
	err := pool.Rename(appContext(), ch.ID(), name)
	switch {
	case err == nil:
		sys.LogVoice("%s renamed %s to %q", event.User().Username, ch.Name(), name)
		respondEphemeral(event, fmt.Sprintf(sys.MsgVoiceNameChanged, name))
	case errors.Is(err, voicepool.ErrRenameLimited):
		respondEphemeral(event, sys.MsgVoiceRenameLimited)
	case errors.Is(err, voicepool.ErrInvalidName):
		respondEphemeral(event, err.Error())
	case errors.Is(err, voicepool.ErrNotInPool):
		respondEphemeral(event, sys.MsgVoiceNotOnPool)
	default:
		sys.LogError(sys.MsgVoiceUpdateFail, err)
		respondEphemeral(event, sys.MsgRegistrationGenericFail)
	}
}
