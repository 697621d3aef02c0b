package home

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/proc"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/registration"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

const whoisMaxResults = 10

func init() {
	adminPerm := discord.PermissionAdministrator

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "whois",
		Description:              "Find a member by name, index or ID (Admin Only)",
		DefaultMemberPermissions: omit.New(&adminPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "argument",
				Description: "Name, nickname, index number or member ID",
				Required:    true,
			},
		},
	}, handleWhois)
}

func handleWhois(event *events.ApplicationCommandInteractionCreate) {
	guildID := event.GuildID()
	if guildID == nil {
		respondEphemeral(event, sys.MsgGuildOnly)
		return
	}
	store := proc.GetMemberStore()
	if store == nil {
		respondEphemeral(event, sys.MsgRegistrationNotReady)
		return
	}

	argument := strings.TrimSpace(event.SlashCommandInteractionData().String("argument"))
	client := event.Client()

	records, err := store.List(appContext())
	if err != nil {
		sys.LogError(sys.MsgMemberStoreQueryErr, err)
		respondEphemeral(event, sys.MsgRegistrationGenericFail)
		return
	}

	roles := map[string][]string{}
	var members []registration.GuildMember
	for m := range client.Caches.Members(*guildID) {
		if m.User.Bot {
			continue
		}
		id := m.User.ID.String()
		members = append(members, registration.GuildMember{
			ID:          id,
			DisplayName: m.EffectiveName(),
			Username:    m.User.Username,
		})
		for _, roleID := range m.RoleIDs {
			roles[id] = append(roles[id], "<@&"+roleID.String()+">")
		}
	}

	matches := registration.Whois(members, records, argument)
	if len(matches) == 0 {
		respondEphemeral(event, fmt.Sprintf(sys.MsgWhoisNoMatch, argument))
		return
	}

	builder := discord.NewMessageCreateBuilder().
		SetIsComponentsV2(true).
		SetEphemeral(true).
		SetAllowedMentions(&discord.AllowedMentions{})

	if len(matches) > whoisMaxResults {
		builder.AddComponents(discord.NewTextDisplay(fmt.Sprintf(sys.MsgWhoisTooMany, len(matches), argument)))
		matches = matches[:whoisMaxResults]
	}
	for _, match := range matches {
		builder.AddComponents(discord.NewContainer(discord.NewTextDisplay(whoisCard(match, roles[match.Member.ID]))))
	}

	if err := event.CreateMessage(builder.Build()); err != nil {
		sys.LogDebug("Failed to respond: %v", err)
	}
}

func whoisCard(m registration.WhoisMatch, roles []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(sys.MsgWhoisCard, m.Member.DisplayName, m.Member.ID))
	sb.WriteString(fmt.Sprintf(sys.MsgWhoisField, "Username", m.Member.Username))
	if m.Registered {
		sb.WriteString(fmt.Sprintf(sys.MsgWhoisField, "Index", m.Record.StudentID))
		if name := m.Record.FullName(); name != "" {
			sb.WriteString(fmt.Sprintf(sys.MsgWhoisField, "Name", name))
		}
		if m.Record.NonStudentReason != "" {
			sb.WriteString(fmt.Sprintf(sys.MsgWhoisField, "Non-student reason", m.Record.NonStudentReason))
		}
		if m.Record.AnotherAccountReason != "" {
			sb.WriteString(fmt.Sprintf(sys.MsgWhoisField, "Another account reason", m.Record.AnotherAccountReason))
		}
	} else {
		sb.WriteString(fmt.Sprintf(sys.MsgWhoisField, "Index", "not registered"))
	}
	if len(roles) > 0 {
		sb.WriteString(fmt.Sprintf(sys.MsgWhoisRoles, strings.Join(roles, " ")))
	}
	sb.WriteString(fmt.Sprintf(sys.MsgWhoisField, "Match", fmt.Sprintf("%.0f%%", m.Similarity*100)))
	return sb.String()
}
