package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
	"github.com/oksasatya/locshare-api/pkg/helpers"
	"github.com/oksasatya/locshare-api/pkg/i18n"
)

// AccountService owns the account lifecycle: signup, token authorization,
// device binding and timed recovery mode.
type AccountService struct {
	Users      repository.UserRepository
	Sharing    repository.SharingRepository
	ResetCodes repository.ResetCodeRepository
	Mail       EmailSender
	Logger     *logrus.Logger

	Salt           string
	RecoveryWindow time.Duration
	ResetLinkBase  string

	Now func() time.Time
}

func NewAccountService(users repository.UserRepository, sharing repository.SharingRepository, resets repository.ResetCodeRepository, mail EmailSender, logger *logrus.Logger, salt string, recoveryWindow time.Duration, resetLinkBase string) *AccountService {
	return &AccountService{
		Users:          users,
		Sharing:        sharing,
		ResetCodes:     resets,
		Mail:           mail,
		Logger:         logger,
		Salt:           salt,
		RecoveryWindow: recoveryWindow,
		ResetLinkBase:  resetLinkBase,
		Now:            time.Now,
	}
}

// UserID computes the store key for an email address.
func (s *AccountService) UserID(email string) string {
	return helpers.SaltedID(s.Salt, email)
}

// Authorize validates the authorization token for a user and returns the
// record. Changed client version/platform hints are stored opportunistically;
// that write is best-effort and never blocks the response.
func (s *AccountService) Authorize(ctx context.Context, userID, token string, hints entity.ClientInfo) (*entity.UserRecord, error) {
	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.Activated || u.AuthToken == "" || token == "" || token != u.AuthToken {
		return nil, ErrUnauthorized
	}

	changed := (hints.Version != "" && hints.Version != u.Internal.Version) ||
		(hints.Platform != "" && hints.Platform != u.Internal.Platform)
	if changed {
		if hints.Version != "" {
			u.Internal.Version = hints.Version
		}
		if hints.Platform != "" {
			u.Internal.Platform = hints.Platform
		}
		if err := s.Users.Put(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("failed to store client info")
		}
	}
	return u, nil
}

type SignUpInput struct {
	Email    string
	DeviceID string
	Language string
}

type SignUpResult struct {
	UserID    string   `json:"id"`
	AuthToken string   `json:"authorizationtoken"`
	ICanSee   []string `json:"icansee"`
	CanSeeMe  []string `json:"canseeme"`
}

// SignUp handles all entry paths into an account: first signup, stub
// activation, device-matching re-login, and recovery-mode re-binding. A
// device mismatch outside the recovery window rejects the credentials and
// starts the reset flow out-of-band.
func (s *AccountService) SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error) {
	email, lang, err := s.validateSignUp(in)
	if err != nil {
		return nil, err
	}
	userID := s.UserID(email)
	deviceHash := helpers.SaltedID(s.Salt, in.DeviceID)

	u, err := s.Users.Get(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return s.signUpNew(ctx, userID, email, deviceHash, lang)
	case err != nil:
		return nil, err
	case !u.Activated:
		return s.activateStub(ctx, u, deviceHash, lang)
	case u.InRecoveryMode(s.Now(), s.RecoveryWindow):
		return s.rebindDevice(ctx, u, deviceHash, lang)
	case u.DeviceID == deviceHash:
		// Device match is treated as a successful re-login.
		return s.reply(ctx, u)
	default:
		return nil, s.startRecovery(ctx, u)
	}
}

func (s *AccountService) validateSignUp(in SignUpInput) (email, lang string, err error) {
	addr, aerr := mail.ParseAddress(in.Email)
	if aerr != nil || addr.Address != in.Email {
		return "", "", fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if strings.TrimSpace(in.DeviceID) == "" {
		return "", "", fmt.Errorf("%w: device id is required", ErrInvalidInput)
	}
	lang = i18n.DefaultLang
	if in.Language != "" {
		if len(in.Language) < 2 || len(in.Language) > 10 {
			return "", "", fmt.Errorf("%w: invalid language code", ErrInvalidInput)
		}
		lang = in.Language
	}
	return strings.ToLower(in.Email), lang, nil
}

func (s *AccountService) signUpNew(ctx context.Context, userID, email, deviceHash, lang string) (*SignUpResult, error) {
	token, err := helpers.NewAuthToken()
	if err != nil {
		return nil, err
	}
	u := &entity.UserRecord{
		ID:         userID,
		Email:      email,
		DeviceID:   deviceHash,
		AuthToken:  token,
		Language:   lang,
		Activated:  true,
		Visibility: true,
	}
	if err := s.Users.Put(ctx, u); err != nil {
		return nil, err
	}
	s.Mail.SendSignup(ctx, email, lang)
	return s.reply(ctx, u)
}

// activateStub upgrades an invite-created stub in place. The stored email
// is kept; only device, token, language and the activation flag change.
func (s *AccountService) activateStub(ctx context.Context, u *entity.UserRecord, deviceHash, lang string) (*SignUpResult, error) {
	token, err := helpers.NewAuthToken()
	if err != nil {
		return nil, err
	}
	u.DeviceID = deviceHash
	u.AuthToken = token
	u.Language = lang
	u.Activated = true
	if err := s.Users.Put(ctx, u); err != nil {
		return nil, err
	}
	s.Mail.SendSignup(ctx, u.Email, lang)
	return s.reply(ctx, u)
}

// rebindDevice accepts a new device as authoritative while the account is
// inside its recovery window.
func (s *AccountService) rebindDevice(ctx context.Context, u *entity.UserRecord, deviceHash, lang string) (*SignUpResult, error) {
	token, err := helpers.NewAuthToken()
	if err != nil {
		return nil, err
	}
	u.AuthToken = token
	u.AccountRecoveryMode = 0
	u.Language = lang
	u.DeviceID = deviceHash
	if err := s.Users.Put(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("recovery mode signup, device re-bound")
	return s.reply(ctx, u)
}

// startRecovery is the device-mismatch path: the credentials are rejected
// and a reset link is emailed out-of-band.
func (s *AccountService) startRecovery(ctx context.Context, u *entity.UserRecord) error {
	resetID, err := s.ResetCodes.Create(ctx, u.ID)
	if err != nil {
		return err
	}
	s.Mail.SendReset(ctx, u.Email, s.ResetLinkBase+resetID, u.Language)
	s.Logger.WithField("user_id", u.ID).Info("device mismatch, recovery initiated")
	return fmt.Errorf("%w: signup authorization failed", ErrUnauthorized)
}

// reply builds the signup response, creating the sharing record lazily on
// first use.
func (s *AccountService) reply(ctx context.Context, u *entity.UserRecord) (*SignUpResult, error) {
	share, err := s.Sharing.Get(ctx, u.ID)
	if errors.Is(err, repository.ErrNotFound) {
		share = entity.NewSharingRecord(u.ID)
		if err := s.Sharing.Put(ctx, share); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return &SignUpResult{
		UserID:    u.ID,
		AuthToken: u.AuthToken,
		ICanSee:   share.ICanSee,
		CanSeeMe:  share.CanSeeMe,
	}, nil
}

// ConsumeResetCode resolves an emailed reset link and moves the owning
// account into recovery mode. Codes are single use; a failed delete is
// logged but does not block the transition.
func (s *AccountService) ConsumeResetCode(ctx context.Context, resetID string) (string, error) {
	code, err := s.ResetCodes.Resolve(ctx, resetID)
	if err != nil {
		return "", err
	}
	if derr := s.ResetCodes.Delete(ctx, resetID); derr != nil {
		s.Logger.WithError(derr).WithField("user_id", code.UserID).Warn("failed to delete reset code")
	}

	u, err := s.Users.Get(ctx, code.UserID)
	if err != nil {
		return "", err
	}
	u.AccountRecoveryMode = s.Now().UnixMilli()
	if err := s.Users.Put(ctx, u); err != nil {
		return "", err
	}
	return i18n.Get(i18n.VerifyLangCode(u.Language), "reset.serverMessage"), nil
}
