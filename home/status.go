package home

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/proc"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

func init() {
	adminPerm := discord.PermissionAdministrator

	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(proc.ActivityTypes))
	for _, t := range proc.ActivityTypes {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{Name: t, Value: t})
	}

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "status",
		Description:              "Change the bot status (Admin Only)",
		DefaultMemberPermissions: omit.New(&adminPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "text",
				Description: "The text to display in the status",
				Required:    true,
				MaxLength:   intPtr(128),
			},
			discord.ApplicationCommandOptionString{
				Name:        "activity_type",
				Description: "The type of the activity",
				Required:    true,
				Choices:     choices,
			},
		},
	}, handleStatus)
}

func handleStatus(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	status := proc.BotStatus{
		Activity: data.String("activity_type"),
		Text:     data.String("text"),
	}

	if err := proc.SetStatus(appContext(), event.Client(), status); err != nil {
		sys.LogError(sys.MsgStatusUpdateFail, err)
		respondEphemeral(event, sys.MsgStatusChangeFail)
		return
	}

	sys.LogStatus("%s changed the status to %s %q", event.User().Username, status.Activity, status.Text)
	respondEphemeral(event, fmt.Sprintf(sys.MsgStatusChanged, status.Activity, status.Text))
}
