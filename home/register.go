package home

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/proc"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/registration"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

const (
	registerModalPrefix   = "register:"
	registerCodeInput     = "code"
	registerNonStudentIn  = "non_student_reason"
	registerOtherAccounts = "another_account_reason"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "register",
		Description: "Register on this server.",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "index",
				Description: "Your index number. Digits only, e.g. 123456.",
				Required:    true,
				MinLength:   intPtr(6),
				MaxLength:   intPtr(6),
			},
		},
	}, handleRegister)

	sys.RegisterModalHandler(registerModalPrefix, handleRegisterCode)
}

func handleRegister(event *events.ApplicationCommandInteractionCreate) {
	member := event.Member()
	guildID := event.GuildID()
	if member == nil || guildID == nil {
		respondEphemeral(event, sys.MsgGuildOnly)
		return
	}

	reg := proc.GetRegistrar()
	if reg == nil {
		respondEphemeral(event, sys.MsgRegistrationNotReady)
		return
	}

	index := event.SlashCommandInteractionData().String("index")
	applicant := registration.Applicant{
		ID:          member.User.ID,
		GuildID:     *guildID,
		DisplayName: member.EffectiveName(),
		Username:    member.User.Username,
		AvatarURL:   member.EffectiveAvatarURL(),
	}
	if guild, ok := event.Client().Caches.Guild(*guildID); ok {
		applicant.GuildName = guild.Name
		if icon := guild.IconURL(); icon != nil {
			applicant.GuildIconURL = *icon
		}
	}
	if settings := sys.GlobalSettings; settings != nil && settings.Registration.DiscordLogoURL != "" {
		applicant.GuildIconURL = settings.Registration.DiscordLogoURL
	}

	ctx := appContext()
	outcome, err := reg.Begin(ctx, applicant, index, func(ctx context.Context, p registration.Prompt) error {
		return event.Modal(codeModal(p))
	})

	switch {
	case errors.Is(err, registration.ErrInvalidIndex):
		respondEphemeral(event, sys.MsgRegistrationInvalidIndex)
	case errors.Is(err, registration.ErrDeliveryFailed):
		sys.LogError(sys.MsgRegistrationFailed, member.User.Username, err)
		sendRegisterFollowup(event, sys.MsgRegistrationMailFailed)
	case err != nil:
		sys.LogError(sys.MsgRegistrationFailed, member.User.Username, err)
		sendRegisterFollowup(event, sys.MsgRegistrationGenericFail)
	case outcome.Blocked:
		sys.LogRegistration(sys.MsgRegistrationBlocked, member.User.Username, index)
		respondEphemeral(event, outcome.Reason)
	default:
		sys.LogRegistration(sys.MsgRegistrationPrompted, member.User.Username, index, outcome.MailSent)
	}
}

// sendRegisterFollowup reports a failure after the modal may already have
// consumed the initial response.
func sendRegisterFollowup(event *events.ApplicationCommandInteractionCreate, content string) {
	if err := event.CreateMessage(ephemeralMessage(content)); err == nil {
		return
	}
	_, _ = event.Client().Rest.CreateFollowupMessage(event.ApplicationID(), event.Token(), ephemeralMessage(content))
}

func codeModal(p registration.Prompt) discord.ModalCreate {
	components := []discord.LayoutComponent{
		labeled(sys.MsgRegistrationCodeLabel, shortInput(registerCodeInput,
			truncate(fmt.Sprintf(sys.MsgRegistrationCodeHint, p.Address), 100), "", true, registration.CodeLength)),
	}
	if !p.IsStudent {
		components = append(components, labeled(sys.MsgRegistrationNonStudent,
			paragraphInput(registerNonStudentIn, truncate(sys.MsgRegistrationNonStudentHint, 100), "", true)))
	}
	if p.OtherAccounts > 0 {
		components = append(components, labeled(sys.MsgRegistrationOtherAccount,
			paragraphInput(registerOtherAccounts, truncate(fmt.Sprintf(sys.MsgRegistrationOtherHint, p.OtherAccounts), 100), "", true)))
	}

	return discord.ModalCreate{
		CustomID:   registerModalPrefix + p.AttemptID,
		Title:      sys.MsgRegistrationModalTitle,
		Components: components,
	}
}
