package home

import (
	"errors"
	"strings"

	"github.com/disgoorg/disgo/events"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/proc"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/registration"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

func handleRegisterCode(event *events.ModalSubmitInteractionCreate) {
	reg := proc.GetRegistrar()
	if reg == nil {
		respondEphemeral(event, sys.MsgRegistrationNotReady)
		return
	}

	attemptID := strings.TrimPrefix(event.Data.CustomID, registerModalPrefix)
	username := event.User().Username
	ctx := appContext()

	result, err := reg.Complete(ctx, attemptID, registration.Submission{
		Code:                 event.Data.Text(registerCodeInput),
		NonStudentReason:     strings.TrimSpace(event.Data.Text(registerNonStudentIn)),
		AnotherAccountReason: strings.TrimSpace(event.Data.Text(registerOtherAccounts)),
	})

	switch {
	case errors.Is(err, registration.ErrWrongCode):
		sys.LogRegistration(sys.MsgRegistrationWrongCode, username)
		respondEphemeral(event, sys.MsgRegistrationCodeWrong)
		return
	case errors.Is(err, registration.ErrAttemptNotFound):
		respondEphemeral(event, sys.MsgRegistrationAttemptGone)
		return
	case err != nil && result.Record.MemberID == "":
		sys.LogError(sys.MsgRegistrationStoreFail, username, err)
		respondEphemeral(event, sys.MsgRegistrationGenericFail)
		return
	case err != nil:
		// Stored but the role grant failed; operators still get the notice.
		sys.LogError(sys.MsgRegistrationRoleFail, username, err)
	}

	sys.LogRegistration(sys.MsgRegistrationCompleted, username, result.Record.StudentID)
	respondEphemeral(event, sys.MsgRegistrationSuccess)
	proc.AnnounceRegistration(ctx, event.Client(), result)
}
