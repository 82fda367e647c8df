package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/medbill/medbill/internal/shared"
	"github.com/medbill/medbill/internal/users"
)

// UserStore is the slice of the user repository auth depends on.
type UserStore interface {
	Get(ctx context.Context, id int64) (users.User, error)
	FindByEmail(ctx context.Context, email string) (users.User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

// CodeStore keeps pending one time passwords.
type CodeStore interface {
	Issue(ctx context.Context, email string) (string, error)
	Consume(ctx context.Context, email, code string) (bool, error)
}

// Notifier delivers one time passwords to users.
type Notifier interface {
	SendOTP(ctx context.Context, email, code string) error
}

// Service wraps authentication business rules.
type Service struct {
	users    UserStore
	codes    CodeStore
	tokens   *TokenIssuer
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a new Service.
func NewService(users UserStore, codes CodeStore, tokens *TokenIssuer, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, codes: codes, tokens: tokens, notifier: notifier, logger: logger}
}

var (
	errBadCredentials  = shared.NewError(shared.ErrInvalidCredentials, "You have entered an invalid email or password!")
	errAccountInactive = shared.NewError(shared.ErrForbidden, "Your account is inactive. Please contact admin.")
	errInvalidOTP      = shared.NewError(shared.ErrValidation, "Invalid token!")
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials and mails an OTP. No token is issued until the OTP is verified.
func (s *Service) Login(ctx context.Context, req LoginRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := shared.ValidateStruct(req); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errBadCredentials
		}
		return err
	}
	if !users.CheckPassword(user.PasswordHash, req.Password) {
		return errBadCredentials
	}
	if !user.IsActive {
		return errAccountInactive
	}
	return s.sendCode(ctx, user.Email)
}

// VerifyOTP consumes the pending code and issues a bearer token.
func (s *Service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (Session, error) {
	req.Email = normalizeEmail(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := shared.ValidateStruct(req); err != nil {
		return Session{}, err
	}
	if err := s.consume(ctx, req.Email, req.OTP); err != nil {
		return Session{}, err
	}
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return Session{}, err
	}
	if !user.IsActive {
		return Session{}, errAccountInactive
	}
	token, err := s.tokens.Issue(user.Actor())
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: Identity{ID: user.ID, Role: user.Role}}, nil
}

// ForgotPassword mails a reset code to a registered email.
func (s *Service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := shared.ValidateStruct(req); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	return s.sendCode(ctx, user.Email)
}

// ResetPassword replaces the password of the account the code was mailed to.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := shared.ValidateStruct(req); err != nil {
		return err
	}
	if err := s.consume(ctx, req.Email, req.OTP); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, user.ID, req.NewPassword)
}

// ChangePassword verifies the current password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, actor shared.Actor, req ChangePasswordRequest) error {
	if err := shared.ValidateStruct(req); err != nil {
		return err
	}
	user, err := s.users.Get(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !users.CheckPassword(user.PasswordHash, req.OldPassword) {
		return errBadCredentials
	}
	return s.setPassword(ctx, user.ID, req.NewPassword)
}

// Me returns the identity carried by the token.
func (s *Service) Me(actor shared.Actor) Identity {
	return Identity{ID: actor.ID, Role: actor.Role}
}

func (s *Service) sendCode(ctx context.Context, email string) error {
	code, err := s.codes.Issue(ctx, email)
	if err != nil {
		return err
	}
	if s.notifier == nil {
		return nil
	}
	// Delivery is best effort: the code stays valid and can be requested again.
	if err := s.notifier.SendOTP(ctx, email, code); err != nil {
		s.logger.Warn("enqueue otp mail", slog.String("email", email), slog.Any("error", err))
	}
	return nil
}

func (s *Service) consume(ctx context.Context, email, code string) error {
	ok, err := s.codes.Consume(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return errInvalidOTP
	}
	return nil
}

func (s *Service) setPassword(ctx context.Context, id int64, password string) error {
	hash, err := users.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, id, hash)
}
