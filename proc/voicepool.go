package proc

import (
	"context"
	"sync"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/voicepool"
)

var (
	voicePool   *voicepool.Manager
	voicePoolMu sync.RWMutex
)

func init() {
	sys.RegisterVoiceStateUpdateHandler(onPoolVoiceStateUpdate)

	sys.OnFirstClientReady(func(ctx context.Context, client *bot.Client) {
		settings := sys.GlobalSettings
		if settings == nil || !settings.VoiceEnabled() {
			return
		}
		api := &discordPoolAPI{
			client:     client,
			categoryID: settings.Voice.CategoryID,
			created:    make(map[snowflake.ID]voicepool.Channel),
			deleted:    make(map[snowflake.ID]struct{}),
		}
		voicePoolMu.Lock()
		voicePool = voicepool.NewManager(api, settings.Voice.Names)
		voicePoolMu.Unlock()

		sys.RegisterDaemon(sys.LogVoice, func(ctx context.Context) (bool, func(), func()) {
			return true, func() { reconcileVoicePool(ctx) }, nil
		})
	})
}

// GetVoicePool returns nil when the pool is not configured or the client is not ready.
func GetVoicePool() *voicepool.Manager {
	voicePoolMu.RLock()
	defer voicePoolMu.RUnlock()
	return voicePool
}

func reconcileVoicePool(ctx context.Context) {
	pool := GetVoicePool()
	if pool == nil {
		return
	}
	actions, err := pool.Reconcile(ctx)
	if err != nil {
		sys.LogWarn(sys.MsgVoiceUpdateFail, err)
	}
	for _, id := range actions.Delete {
		sys.LogVoice(sys.MsgVoiceDeleted, id)
	}
}

func onPoolVoiceStateUpdate(event *events.GuildVoiceStateUpdate) {
	settings := sys.GlobalSettings
	if settings == nil || !settings.VoiceEnabled() || event.Member.User.Bot {
		return
	}

	before, after := event.OldVoiceState.ChannelID, event.VoiceState.ChannelID
	if sameChannel(before, after) {
		return
	}

	client := event.Client()
	if inCategory(client, before, settings.Voice.CategoryID) || inCategory(client, after, settings.Voice.CategoryID) {
		reconcileVoicePool(sys.AppContext)
	}
}

func sameChannel(a, b *snowflake.ID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func inCategory(client *bot.Client, channelID *snowflake.ID, categoryID snowflake.ID) bool {
	if channelID == nil {
		return false
	}
	ch, ok := client.Caches.Channel(*channelID)
	if !ok {
		return false
	}
	return ch.ParentID() != nil && *ch.ParentID() == categoryID
}

// MemberPoolChannel returns the pool channel the member is connected to.
func MemberPoolChannel(client *bot.Client, guildID, userID snowflake.ID) (snowflake.ID, bool) {
	settings := sys.GlobalSettings
	if settings == nil || !settings.VoiceEnabled() {
		return 0, false
	}
	state, ok := client.Caches.VoiceState(guildID, userID)
	if !ok || !inCategory(client, state.ChannelID, settings.Voice.CategoryID) {
		return 0, false
	}
	return *state.ChannelID, true
}

// discordPoolAPI reads the pool from the gateway cache. Channels created or
// deleted through it are tracked until the cache catches up.
type discordPoolAPI struct {
	client     *bot.Client
	categoryID snowflake.ID

	mu      sync.Mutex
	created map[snowflake.ID]voicepool.Channel
	deleted map[snowflake.ID]struct{}
}

func (d *discordPoolAPI) guildID() (snowflake.ID, bool) {
	category, ok := d.client.Caches.Channel(d.categoryID)
	if !ok {
		return 0, false
	}
	return category.GuildID(), true
}

func (d *discordPoolAPI) Channels(ctx context.Context) ([]voicepool.Channel, error) {
	guildID, ok := d.guildID()
	if !ok {
		sys.LogWarn(sys.MsgVoiceCategoryMissing, d.categoryID)
		return nil, nil
	}

	members := make(map[snowflake.ID]int)
	for state := range d.client.Caches.VoiceStates(guildID) {
		if state.ChannelID == nil {
			continue
		}
		if m, ok := d.client.Caches.Member(guildID, state.UserID); ok && m.User.Bot {
			continue
		}
		members[*state.ChannelID]++
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var out []voicepool.Channel
	seen := make(map[snowflake.ID]struct{})
	for ch := range d.client.Caches.Channels() {
		if ch.GuildID() != guildID || ch.Type() != discord.ChannelTypeGuildVoice {
			continue
		}
		if ch.ParentID() == nil || *ch.ParentID() != d.categoryID {
			continue
		}
		seen[ch.ID()] = struct{}{}
		if _, gone := d.deleted[ch.ID()]; gone {
			continue
		}
		out = append(out, voicepool.Channel{ID: ch.ID(), Name: ch.Name(), Position: ch.Position(), Members: members[ch.ID()]})
	}

	for id, ch := range d.created {
		if _, ok := seen[id]; ok {
			delete(d.created, id)
			continue
		}
		ch.Members = members[id]
		out = append(out, ch)
	}
	for id := range d.deleted {
		if _, ok := seen[id]; !ok {
			delete(d.deleted, id)
		}
	}
	return out, nil
}

func (d *discordPoolAPI) CreateChannel(ctx context.Context, name string) (voicepool.Channel, error) {
	guildID, ok := d.guildID()
	if !ok {
		return voicepool.Channel{}, voicepool.ErrNotInPool
	}

	created, err := d.client.Rest.CreateGuildChannel(guildID, discord.GuildVoiceChannelCreate{
		Name:     name,
		ParentID: d.categoryID,
	}, rest.WithCtx(ctx))
	if err != nil {
		return voicepool.Channel{}, err
	}

	ch := voicepool.Channel{ID: created.ID(), Name: created.Name(), Position: created.Position()}
	d.mu.Lock()
	d.created[ch.ID] = ch
	d.mu.Unlock()

	sys.LogVoice(sys.MsgVoiceCreated, name)
	return ch, nil
}

func (d *discordPoolAPI) DeleteChannel(ctx context.Context, id snowflake.ID) error {
	if err := d.client.Rest.DeleteChannel(id, rest.WithCtx(ctx)); err != nil {
		return err
	}
	d.mu.Lock()
	delete(d.created, id)
	d.deleted[id] = struct{}{}
	d.mu.Unlock()
	return nil
}

func (d *discordPoolAPI) SetUserLimit(ctx context.Context, id snowflake.ID, limit int) error {
	_, err := d.client.Rest.UpdateChannel(id, discord.GuildVoiceChannelUpdate{UserLimit: &limit}, rest.WithCtx(ctx))
	return err
}

func (d *discordPoolAPI) Rename(ctx context.Context, id snowflake.ID, name string) error {
	_, err := d.client.Rest.UpdateChannel(id, discord.GuildVoiceChannelUpdate{Name: &name}, rest.WithCtx(ctx))
	return err
}
