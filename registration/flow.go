package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

// Applicant is the member starting a registration.
type Applicant struct {
	ID           snowflake.ID
	GuildID      snowflake.ID
	DisplayName  string
	Username     string
	GuildName    string
	AvatarURL    string
	GuildIconURL string
}

// Prompt describes the code-entry form shown to the applicant.
type Prompt struct {
	AttemptID     string
	Address       string
	IsStudent     bool
	OtherAccounts int
}

// Outcome is the result of Begin. A blocked outcome is not an error.
type Outcome struct {
	Blocked   bool
	Reason    string
	AttemptID string
	Address   string
	MailSent  bool
}

// Submission is what the applicant typed into the prompt.
type Submission struct {
	Code                 string
	NonStudentReason     string
	AnotherAccountReason string
}

// Attempt is a prompt waiting for its code.
type Attempt struct {
	ID            string
	Applicant     Applicant
	Index         string
	Code          string
	IsStudent     bool
	OtherAccounts []MemberRecord
}

// Registration is a completed attempt.
type Registration struct {
	Attempt Attempt
	Record  MemberRecord
}

type RoleGranter interface {
	GrantVerifiedRole(ctx context.Context, guildID, memberID snowflake.ID) error
}

type OperatorNotifier interface {
	NotifyOperators(ctx context.Context, message string) error
}

type RegistrarConfig struct {
	MailDomain string
}

type Registrar struct {
	cfg       RegistrarConfig
	codes     *CodeController
	mailer    Mailer
	roles     RoleGranter
	operators OperatorNotifier
	members   MemberStore
	roster    StudentRoster
	attempts  *ttlcache.Cache
	now       func() time.Time
}

func NewRegistrar(cfg RegistrarConfig, codes *CodeController, mailer Mailer, roles RoleGranter,
	operators OperatorNotifier, members MemberStore, roster StudentRoster) *Registrar {
	attempts := ttlcache.NewCache()
	attempts.SkipTTLExtensionOnHit(true)

	return &Registrar{
		cfg:       cfg,
		codes:     codes,
		mailer:    mailer,
		roles:     roles,
		operators: operators,
		members:   members,
		roster:    roster,
		attempts:  attempts,
		now:       time.Now,
	}
}

func (r *Registrar) Close() error {
	return r.attempts.Close()
}

// ValidateIndex accepts exactly 6 ASCII digits.
func ValidateIndex(index string) error {
	if len(index) != 6 {
		return ErrInvalidIndex
	}
	for i := 0; i < len(index); i++ {
		if index[i] < '0' || index[i] > '9' {
			return ErrInvalidIndex
		}
	}
	return nil
}

// Begin runs the throttle checks for index, sends the code when due and opens
// the prompt. The email and the prompt are issued concurrently.
func (r *Registrar) Begin(ctx context.Context, a Applicant, index string, prompt func(context.Context, Prompt) error) (Outcome, error) {
	if err := ValidateIndex(index); err != nil {
		return Outcome{}, err
	}

	isStudent, err := r.roster.IsStudent(index)
	if err != nil {
		return Outcome{}, fmt.Errorf("student roster: %w", err)
	}
	others, err := r.otherAccounts(ctx, a.ID.String(), index)
	if err != nil {
		return Outcome{}, fmt.Errorf("registered members: %w", err)
	}

	address := DestinationAddress(index, r.cfg.MailDomain)
	var out Outcome

	err = r.codes.Do(ctx, a.ID.String(), func(m *CodeModel) error {
		now := r.now()
		if reason, blocked := m.CheckIfBlocked(index, now); blocked {
			out = Outcome{Blocked: true, Reason: reason}
			return nil
		}

		attempt := Attempt{
			ID:            uuid.NewString(),
			Applicant:     a,
			Index:         index,
			Code:          m.Code,
			IsStudent:     isStudent,
			OtherAccounts: others,
		}
		if err := r.attempts.SetWithTTL(attempt.ID, attempt, m.ValidUntil().Sub(now)); err != nil {
			return err
		}

		shouldSend := m.ShouldSendEmail(index, now)
		var mailErr error

		var g errgroup.Group
		if shouldSend {
			g.Go(func() error {
				mailErr = r.mailer.SendVerificationEmail(ctx, Letter{
					To:          address,
					Code:        m.Code,
					Expire:      m.Expire(),
					DisplayName: a.DisplayName,
					GuildName:   a.GuildName,
					AvatarURL:   a.AvatarURL,
					LogoURL:     a.GuildIconURL,
				})
				return nil
			})
		}
		g.Go(func() error {
			return prompt(ctx, Prompt{
				AttemptID:     attempt.ID,
				Address:       address,
				IsStudent:     isStudent,
				OtherAccounts: len(others),
			})
		})
		promptErr := g.Wait()

		if mailErr != nil {
			_ = r.attempts.Remove(attempt.ID)
			r.notifyDeliveryFailure(ctx, a, index, address, mailErr)
			return fmt.Errorf("%w: %w", ErrDeliveryFailed, mailErr)
		}
		if shouldSend {
			m.AddMailSentTime(index, r.now())
			sys.LogMail(sys.MsgMailSent, m.Code, address)
		}
		if promptErr != nil {
			_ = r.attempts.Remove(attempt.ID)
			return fmt.Errorf("open prompt: %w", promptErr)
		}

		out = Outcome{AttemptID: attempt.ID, Address: address, MailSent: shouldSend}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

func (r *Registrar) notifyDeliveryFailure(ctx context.Context, a Applicant, index, address string, cause error) {
	if r.operators == nil {
		return
	}
	msg := fmt.Sprintf(sys.MsgRegistrationDeliveryNotice, a.ID.String(), index, address, cause)
	if err := r.operators.NotifyOperators(context.WithoutCancel(ctx), msg); err != nil {
		sys.LogWarn(sys.MsgRegistrationOperatorsFail, err)
	}
}

// Attempt returns a pending attempt.
func (r *Registrar) Attempt(attemptID string) (Attempt, error) {
	v, err := r.attempts.Get(attemptID)
	if err != nil {
		return Attempt{}, ErrAttemptNotFound
	}
	return v.(Attempt), nil
}

// Complete checks the submitted code. A wrong code leaves everything as it
// was so the applicant can retry the same attempt.
func (r *Registrar) Complete(ctx context.Context, attemptID string, sub Submission) (Registration, error) {
	attempt, err := r.Attempt(attemptID)
	if err != nil {
		return Registration{}, err
	}
	if sub.Code != attempt.Code {
		return Registration{}, ErrWrongCode
	}

	memberID := attempt.Applicant.ID.String()
	rec, err := r.members.Get(ctx, memberID)
	if err != nil && !errors.Is(err, ErrMemberNotFound) {
		return Registration{}, err
	}
	rec.MemberID = memberID
	rec.StudentID = attempt.Index
	// Reasons are only asked for when they apply; keep stored ones otherwise.
	if !attempt.IsStudent {
		rec.NonStudentReason = sub.NonStudentReason
	}
	if len(attempt.OtherAccounts) > 0 {
		rec.AnotherAccountReason = sub.AnotherAccountReason
	}

	if err := r.members.Save(ctx, rec); err != nil {
		return Registration{}, fmt.Errorf("save member: %w", err)
	}
	_ = r.attempts.Remove(attemptID)

	reg := Registration{Attempt: attempt, Record: rec}
	if err := r.roles.GrantVerifiedRole(ctx, attempt.Applicant.GuildID, attempt.Applicant.ID); err != nil {
		return reg, fmt.Errorf("grant role: %w", err)
	}
	return reg, nil
}

// otherAccounts lists other members registered with the same index.
func (r *Registrar) otherAccounts(ctx context.Context, memberID, index string) ([]MemberRecord, error) {
	recs, err := r.members.FindByStudentID(ctx, index)
	if err != nil {
		return nil, err
	}
	out := recs[:0]
	for _, rec := range recs {
		if rec.MemberID != memberID {
			out = append(out, rec)
		}
	}
	return out, nil
}
