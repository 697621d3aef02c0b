package proc

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/roleassign"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

const roleMessageKeyPrefix = "role_assignment:"

var (
	roleMessages   = map[snowflake.ID]string{}
	roleMessagesMu sync.RWMutex
)

func init() {
	sys.RegisterReactionAddHandler(onRoleReaction)

	sys.OnFirstClientReady(func(ctx context.Context, client *bot.Client) {
		for _, id := range RoleGroupIdentifiers() {
			value, err := sys.GetBotConfig(ctx, roleMessageKeyPrefix+id)
			if err != nil || value == "" {
				continue
			}
			ref, err := roleassign.ParseMessageRef(value)
			if err != nil {
				sys.LogWarn(sys.MsgRolesBadRef, id, err)
				continue
			}
			trackRoleMessage(ref.MessageID, id)
			sys.LogRoles(sys.MsgRolesLoaded, id)
		}
	})
}

func trackRoleMessage(messageID snowflake.ID, identifier string) {
	roleMessagesMu.Lock()
	defer roleMessagesMu.Unlock()
	for msg, id := range roleMessages {
		if id == identifier {
			delete(roleMessages, msg)
		}
	}
	roleMessages[messageID] = identifier
}

func roleGroupForMessage(messageID snowflake.ID) (string, roleassign.Group, bool) {
	roleMessagesMu.RLock()
	id, ok := roleMessages[messageID]
	roleMessagesMu.RUnlock()
	if !ok {
		return "", roleassign.Group{}, false
	}
	g, ok := RoleGroup(id)
	return id, g, ok
}

// RoleGroupIdentifiers lists the configured role groups, sorted.
func RoleGroupIdentifiers() []string {
	settings := sys.GlobalSettings
	if settings == nil {
		return nil
	}
	ids := make([]string, 0, len(settings.RoleAssignment))
	for id := range settings.RoleAssignment {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func RoleGroup(identifier string) (roleassign.Group, bool) {
	settings := sys.GlobalSettings
	if settings == nil {
		return roleassign.Group{}, false
	}
	g, ok := settings.RoleAssignment[identifier]
	return g, ok
}

func roleMessageContainer(g roleassign.Group) discord.ContainerComponent {
	return discord.NewContainer(discord.NewTextDisplay(g.Content()))
}

// PostRoleMessage sends the role message of identifier to channelID and
// makes it the group's active message.
func PostRoleMessage(ctx context.Context, client *bot.Client, identifier string, channelID snowflake.ID) (roleassign.MessageRef, error) {
	g, ok := RoleGroup(identifier)
	if !ok {
		return roleassign.MessageRef{}, roleassign.ErrUnknownGroup
	}

	msg, err := client.Rest.CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetIsComponentsV2(true).
		AddComponents(roleMessageContainer(g)).
		SetAllowedMentions(&discord.AllowedMentions{}).
		Build(), rest.WithCtx(ctx))
	if err != nil {
		return roleassign.MessageRef{}, err
	}

	ref := roleassign.MessageRef{ChannelID: channelID, MessageID: msg.ID}
	if err := sys.SetBotConfig(ctx, roleMessageKeyPrefix+identifier, ref.String()); err != nil {
		return ref, err
	}
	trackRoleMessage(msg.ID, identifier)
	return ref, addRoleReactions(ctx, client, ref, g)
}

// UpdateRoleMessage re-renders the active role message after a settings change.
func UpdateRoleMessage(ctx context.Context, client *bot.Client, identifier string) error {
	g, ok := RoleGroup(identifier)
	if !ok {
		return roleassign.ErrUnknownGroup
	}
	value, err := sys.GetBotConfig(ctx, roleMessageKeyPrefix+identifier)
	if err != nil {
		return err
	}
	if value == "" {
		return ErrRoleMessageNotSent
	}
	ref, err := roleassign.ParseMessageRef(value)
	if err != nil {
		return err
	}

	if _, err := client.Rest.UpdateMessage(ref.ChannelID, ref.MessageID, discord.NewMessageUpdateBuilder().
		SetIsComponentsV2(true).
		SetComponents(roleMessageContainer(g)).
		Build(), rest.WithCtx(ctx)); err != nil {
		return err
	}
	return addRoleReactions(ctx, client, ref, g)
}

var ErrRoleMessageNotSent = errors.New("role message has not been sent yet")

func addRoleReactions(ctx context.Context, client *bot.Client, ref roleassign.MessageRef, g roleassign.Group) error {
	var errs []error
	for _, emoji := range g.Emojis() {
		if err := client.Rest.AddReaction(ref.ChannelID, ref.MessageID, emoji, rest.WithCtx(ctx)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type memberRoleAPI interface {
	AddMemberRole(guildID, userID, roleID snowflake.ID, opts ...rest.RequestOpt) error
	RemoveMemberRole(guildID, userID, roleID snowflake.ID, opts ...rest.RequestOpt) error
}

func applyRoleChange(ctx context.Context, api memberRoleAPI, guildID, userID snowflake.ID, change roleassign.Change) error {
	var errs []error
	for _, roleID := range change.Remove {
		if err := api.RemoveMemberRole(guildID, userID, roleID, rest.WithCtx(ctx)); err != nil {
			errs = append(errs, err)
		}
	}
	if change.Add != 0 {
		if err := api.AddMemberRole(guildID, userID, change.Add, rest.WithCtx(ctx)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func onRoleReaction(event *events.MessageReactionAdd) {
	if event.GuildID == nil {
		return
	}
	identifier, group, ok := roleGroupForMessage(event.MessageID)
	if !ok {
		return
	}

	client := event.Client()
	guildID := *event.GuildID

	var member discord.Member
	if event.Member != nil {
		member = *event.Member
	} else if m, ok := client.Caches.Member(guildID, event.UserID); ok {
		member = m
	} else {
		return
	}
	if member.User.Bot {
		return
	}

	name := ""
	if event.Emoji.Name != nil {
		name = *event.Emoji.Name
	}
	var emojiID snowflake.ID
	if event.Emoji.ID != nil {
		emojiID = *event.Emoji.ID
	}
	emoji := roleassign.ReactionEmoji(name, emojiID)

	ctx := sys.AppContext
	if ctx == nil {
		ctx = context.Background()
	}

	defer func() {
		if err := client.Rest.RemoveUserReaction(event.ChannelID, event.MessageID, emoji, event.UserID, rest.WithCtx(ctx)); err != nil {
			sys.LogDebug(sys.MsgRolesReactionFail, err)
		}
	}()

	change, err := group.Plan(emoji, member.RoleIDs, func(id snowflake.ID) bool {
		_, ok := client.Caches.Role(guildID, id)
		return ok
	})
	if errors.Is(err, roleassign.ErrUnknownEmoji) {
		return
	}
	if err != nil {
		sys.LogWarn(sys.MsgRolesChangeFail, member.User.Username, identifier, err)
		return
	}

	if err := applyRoleChange(ctx, client.Rest, guildID, event.UserID, change); err != nil {
		sys.LogWarn(sys.MsgRolesChangeFail, member.User.Username, identifier, err)
		return
	}
	if change.Reset() {
		sys.LogRoles(sys.MsgRolesReset, member.User.Username, identifier)
	} else {
		sys.LogRoles(sys.MsgRolesChanged, member.User.Username, change.Add, identifier)
	}
}
