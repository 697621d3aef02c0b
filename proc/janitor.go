package proc

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

const (
	janitorChunkSize   = 100
	janitorMaxScan     = 1000
	janitorDeleteDelay = 250 * time.Millisecond
)

func init() {
	sys.RegisterMessageCreateHandler(onRegistrationChannelMessage)

	sys.OnFirstClientReady(func(ctx context.Context, client *bot.Client) {
		sys.RegisterDaemon(sys.LogJanitor, func(ctx context.Context) (bool, func(), func()) {
			settings := sys.GlobalSettings
			if settings == nil || settings.Registration.ChannelID == 0 {
				return false, nil, nil
			}
			return true, func() { ClearRegistrationChannel(ctx, client, settings.Registration.ChannelID) }, nil
		})
	})
}

// onRegistrationChannelMessage keeps the registration channel free of member chatter.
func onRegistrationChannelMessage(event *events.GuildMessageCreate) {
	settings := sys.GlobalSettings
	if settings == nil || event.ChannelID != settings.Registration.ChannelID {
		return
	}
	if !isStaleMessage(event.Message) {
		return
	}
	if err := event.Client().Rest.DeleteMessage(event.ChannelID, event.Message.ID); err != nil {
		sys.LogWarn(sys.MsgJanitorDeleteFail, event.Message.ID, err)
	}
}

// ClearRegistrationChannel deletes non-bot messages left from before startup.
func ClearRegistrationChannel(ctx context.Context, client *bot.Client, channelID snowflake.ID) {
	var before snowflake.ID
	deleted, scanned := 0, 0

	for scanned < janitorMaxScan {
		messages, err := client.Rest.GetMessages(channelID, 0, before, 0, janitorChunkSize, rest.WithCtx(ctx))
		if err != nil {
			sys.LogWarn(sys.MsgJanitorFetchFail, err)
			return
		}
		if len(messages) == 0 {
			break
		}

		for _, msg := range messages {
			scanned++
			before = msg.ID
			if !isStaleMessage(msg) {
				continue
			}
			if err := client.Rest.DeleteMessage(channelID, msg.ID, rest.WithCtx(ctx)); err != nil {
				sys.LogWarn(sys.MsgJanitorDeleteFail, msg.ID, err)
				continue
			}
			deleted++

			select {
			case <-ctx.Done():
				return
			case <-time.After(janitorDeleteDelay):
			}
		}

		if len(messages) < janitorChunkSize {
			break
		}
	}

	if deleted > 0 {
		sys.LogJanitor(sys.MsgJanitorCleared, deleted)
	}
}

// isStaleMessage matches plain member messages; system notices stay.
func isStaleMessage(msg discord.Message) bool {
	if msg.Author.Bot {
		return false
	}
	return msg.Type == discord.MessageTypeDefault || msg.Type == discord.MessageTypeReply
}
