package proc

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/registration"
	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

var (
	registrar      *registration.Registrar
	memberStore    registration.MemberStore
	registrationMu sync.RWMutex
)

func init() {
	sys.OnFirstClientReady(func(ctx context.Context, client *bot.Client) {
		setupRegistration(client)
	})
}

func setupRegistration(client *bot.Client) {
	cfg := sys.GlobalConfig
	settings := sys.GlobalSettings
	if cfg == nil || settings == nil || sys.DB == nil {
		sys.LogError(sys.MsgRegistrationSetupFail, "configuration not loaded")
		return
	}

	dir := cfg.RegistrationDir()
	codesPath := filepath.Join(dir, "codes.json")

	members := registration.NewSQLiteMemberStore(sys.DB)
	reg := registration.NewRegistrar(
		registration.RegistrarConfig{MailDomain: cfg.Mail.DestinationDomain},
		registration.NewCodeController(registration.NewJSONCodeStore(codesPath, sys.ComponentLogger("registration"))),
		registration.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Address, cfg.Mail.Password, filepath.Join(dir, "email.html")),
		&roleGranter{client: client, roleID: settings.Registration.VerifiedRoleID},
		&channelNotifier{client: client, channelID: settings.Registration.BotChannelID},
		members,
		registration.NewFileRoster(filepath.Join(dir, "student_indexes.txt")),
	)

	registrationMu.Lock()
	registrar = reg
	memberStore = members
	registrationMu.Unlock()

	sys.RegisterDaemon(sys.LogRegistration, func(ctx context.Context) (bool, func(), func()) {
		return true, func() {
				sys.LogRegistration(sys.MsgRegistrationReady, codesPath)
			}, func() {
				_ = reg.Close()
			}
	})
}

// GetRegistrar returns nil until the client is ready.
func GetRegistrar() *registration.Registrar {
	registrationMu.RLock()
	defer registrationMu.RUnlock()
	return registrar
}

func GetMemberStore() registration.MemberStore {
	registrationMu.RLock()
	defer registrationMu.RUnlock()
	return memberStore
}

type roleGranter struct {
	client *bot.Client
	roleID snowflake.ID
}

func (g *roleGranter) GrantVerifiedRole(ctx context.Context, guildID, memberID snowflake.ID) error {
	return g.client.Rest.AddMemberRole(guildID, memberID, g.roleID, rest.WithCtx(ctx))
}

type channelNotifier struct {
	client    *bot.Client
	channelID snowflake.ID
}

func (n *channelNotifier) NotifyOperators(ctx context.Context, message string) error {
	_, err := n.client.Rest.CreateMessage(n.channelID, discord.NewMessageCreateBuilder().
		SetContent(message).
		SetAllowedMentions(&discord.AllowedMentions{}).
		Build(), rest.WithCtx(ctx))
	return err
}

// AnnounceRegistration posts the registration summary to the bot channel.
func AnnounceRegistration(ctx context.Context, client *bot.Client, reg registration.Registration) {
	settings := sys.GlobalSettings
	if settings == nil {
		return
	}

	a := reg.Attempt.Applicant
	var sb strings.Builder
	sb.WriteString(sys.MsgRegistrationNoticeTitle)
	sb.WriteString(fmt.Sprintf(sys.MsgRegistrationNoticeBody, a.ID, a.DisplayName, reg.Record.StudentID, a.ID))
	if !reg.Attempt.IsStudent {
		sb.WriteString(fmt.Sprintf(sys.MsgRegistrationNoticeField, sys.MsgRegistrationNonStudent, orDash(reg.Record.NonStudentReason)))
	}
	if len(reg.Attempt.OtherAccounts) > 0 {
		mentions := make([]string, len(reg.Attempt.OtherAccounts))
		for i, o := range reg.Attempt.OtherAccounts {
			mentions[i] = "<@" + o.MemberID + ">"
		}
		sb.WriteString(fmt.Sprintf(sys.MsgRegistrationNoticeField, "Other accounts", strings.Join(mentions, ", ")))
		sb.WriteString(fmt.Sprintf(sys.MsgRegistrationNoticeField, sys.MsgRegistrationOtherAccount, orDash(reg.Record.AnotherAccountReason)))
	}

	notifier := &channelNotifier{client: client, channelID: settings.Registration.BotChannelID}
	if err := notifier.NotifyOperators(ctx, sb.String()); err != nil {
		sys.LogWarn(sys.MsgRegistrationNoticeFail, err)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
