package home

import (
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"
	"github.com/disgoorg/snowflake/v2"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/proc"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/registration"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

const (
	memberEditPrefix        = "member_edit:"
	memberEditIndex         = "student_id"
	memberEditFirstName     = "first_name"
	memberEditLastName      = "last_name"
	memberEditNonStudent    = "non_student_reason"
	memberEditOtherAccounts = "another_account_reason"
)

func init() {
	adminPerm := discord.PermissionAdministrator

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "edit_member_info",
		Description:              "Edit the stored data of a member (Admin Only)",
		DefaultMemberPermissions: omit.New(&adminPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "member",
				Description: "The member to edit",
				Required:    true,
			},
		},
	}, handleEditMemberInfo)

	sys.RegisterModalHandler(memberEditPrefix, handleEditMemberInfoSubmit)
}

func handleEditMemberInfo(event *events.ApplicationCommandInteractionCreate) {
	store := proc.GetMemberStore()
	if store == nil {
		respondEphemeral(event, sys.MsgRegistrationNotReady)
		return
	}

	memberID := event.SlashCommandInteractionData().Snowflake("member")
	rec, err := store.Get(appContext(), memberID.String())
	if err != nil && !errors.Is(err, registration.ErrMemberNotFound) {
		sys.LogError(sys.MsgMemberEditLoadFail, memberID, err)
		respondEphemeral(event, sys.MsgMemberEditFail)
		return
	}

	title := sys.MsgMemberEditTitle
	if user, ok := event.SlashCommandInteractionData().OptUser("member"); ok {
		title = truncate(title+": "+user.Username, 45)
	}

	modal := discord.ModalCreate{
		CustomID: memberEditPrefix + memberID.String(),
		Title:    title,
		Components: []discord.LayoutComponent{
			labeled("Index", shortInput(memberEditIndex, "123456", rec.StudentID, false, 6)),
			labeled("First name", shortInput(memberEditFirstName, "", rec.FirstName, false, 100)),
			labeled("Last name", shortInput(memberEditLastName, "", rec.LastName, false, 100)),
			labeled("Non-student reason", paragraphInput(memberEditNonStudent, "", rec.NonStudentReason, false)),
			labeled("Another account reason", paragraphInput(memberEditOtherAccounts, "", rec.AnotherAccountReason, false)),
		},
	}
	if err := event.Modal(modal); err != nil {
		sys.LogDebug("Failed to open modal: %v", err)
	}
}

func handleEditMemberInfoSubmit(event *events.ModalSubmitInteractionCreate) {
	store := proc.GetMemberStore()
	if store == nil {
		respondEphemeral(event, sys.MsgRegistrationNotReady)
		return
	}

	memberID, err := snowflake.Parse(strings.TrimPrefix(event.Data.CustomID, memberEditPrefix))
	if err != nil {
		respondEphemeral(event, sys.MsgMemberEditBadID)
		return
	}

	index := strings.TrimSpace(event.Data.Text(memberEditIndex))
	if index != "" && registration.ValidateIndex(index) != nil {
		respondEphemeral(event, sys.MsgRegistrationInvalidIndex)
		return
	}

	ctx := appContext()
	rec, err := store.Get(ctx, memberID.String())
	if err != nil && !errors.Is(err, registration.ErrMemberNotFound) {
		sys.LogError(sys.MsgMemberEditLoadFail, memberID, err)
		respondEphemeral(event, sys.MsgMemberEditFail)
		return
	}

	rec.MemberID = memberID.String()
	rec.StudentID = index
	rec.FirstName = strings.TrimSpace(event.Data.Text(memberEditFirstName))
	rec.LastName = strings.TrimSpace(event.Data.Text(memberEditLastName))
	rec.NonStudentReason = strings.TrimSpace(event.Data.Text(memberEditNonStudent))
	rec.AnotherAccountReason = strings.TrimSpace(event.Data.Text(memberEditOtherAccounts))

	if err := store.Save(ctx, rec); err != nil {
		sys.LogError(sys.MsgRegistrationStoreFail, memberID, err)
		respondEphemeral(event, sys.MsgMemberEditFail)
		return
	}

	sys.LogRegistration("Member %s edited by %s", memberID, event.User().Username)
	respondEphemeral(event, fmt.Sprintf("%s\n> <@%s>", sys.MsgMemberEditSaved, memberID))
}
