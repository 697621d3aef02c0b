package home

import (
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/proc"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/roleassign"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

func init() {
	adminPerm := discord.PermissionAdministrator

	identifierOption := discord.ApplicationCommandOptionString{
		Name:        "identifier",
		Description: "The role group identifier from settings",
		Required:    true,
		MaxLength:   intPtr(64),
	}

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "role_assignment",
		Description:              "Manage reaction role messages (Admin Only)",
		DefaultMemberPermissions: omit.New(&adminPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "send",
				Description: "Send the role message to this channel",
				Options:     []discord.ApplicationCommandOption{identifierOption},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "update",
				Description: "Re-render the role message after a settings change",
				Options:     []discord.ApplicationCommandOption{identifierOption},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "identifiers",
				Description: "List the configured role groups",
			},
		},
	}, handleRoleAssignment)
}

func handleRoleAssignment(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}

	switch *data.SubCommandName {
	case "identifiers":
		ids := proc.RoleGroupIdentifiers()
		list := "\n-# none"
		if len(ids) > 0 {
			list = "\n- " + strings.Join(ids, "\n- ")
		}
		respondEphemeral(event, fmt.Sprintf(sys.MsgRolesIdentifiers, list))
	case "send", "update":
		handleRoleMessage(event, *data.SubCommandName, data.String("identifier"))
	}
}

func handleRoleMessage(event *events.ApplicationCommandInteractionCreate, action, identifier string) {
	if _, ok := proc.RoleGroup(identifier); !ok {
		respondEphemeral(event, fmt.Sprintf(sys.MsgRolesUnknown, identifier))
		return
	}

	// Reactions are added one request at a time, which can outlast the
	// initial response window.
	if err := event.DeferCreateMessage(true); err != nil {
		sys.LogDebug("Failed to defer: %v", err)
		return
	}

	ctx := appContext()
	var content string
	var err error
	if action == "send" {
		_, err = proc.PostRoleMessage(ctx, event.Client(), identifier, event.Channel().ID())
		content = fmt.Sprintf(sys.MsgRolesSent, identifier)
	} else {
		err = proc.UpdateRoleMessage(ctx, event.Client(), identifier)
		content = fmt.Sprintf(sys.MsgRolesUpdated, identifier)
	}

	switch {
	case errors.Is(err, roleassign.ErrUnknownGroup):
		content = fmt.Sprintf(sys.MsgRolesUnknown, identifier)
	case errors.Is(err, proc.ErrRoleMessageNotSent):
		content = fmt.Sprintf(sys.MsgRolesNotSent, identifier)
	case err != nil:
		sys.LogError(sys.MsgRolesFail, identifier, err)
		content = fmt.Sprintf(sys.MsgRolesFail, identifier, err)
	default:
		sys.LogRoles("%s ran %s on the '%s' role message", event.User().Username, action, identifier)
	}

	_, _ = event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(),
		discord.NewMessageUpdateBuilder().
			AddComponents(discord.NewContainer(discord.NewTextDisplay(content))).
			Build())
}
