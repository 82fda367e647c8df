package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/medbill/medbill/internal/shared"
	"github.com/medbill/medbill/internal/users"
)

type memoryUsers struct {
	byID map[int64]users.User
}

func newMemoryUsers(t *testing.T, list ...users.User) *memoryUsers {
	t.Helper()
	m := &memoryUsers{byID: map[int64]users.User{}}
	for _, u := range list {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memoryUsers) Get(_ context.Context, id int64) (users.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return users.User{}, shared.NewError(shared.ErrNotFound, "User not found!")
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (users.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, shared.NewError(shared.ErrNotFound, "User not found!")
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	u := m.byID[id]
	u.PasswordHash = hash
	m.byID[id] = u
	return nil
}

type memoryCodes map[string]string

func (c memoryCodes) Issue(_ context.Context, email string) (string, error) {
	c[email] = "123456"
	return "123456", nil
}

func (c memoryCodes) Consume(_ context.Context, email, code string) (bool, error) {
	if c[email] != code {
		return false, nil
	}
	delete(c, email)
	return true, nil
}

type notifierSpy struct {
	sent map[string]string
	err  error
}

func (n *notifierSpy) SendOTP(_ context.Context, email, code string) error {
	if n.sent == nil {
		n.sent = map[string]string{}
	}
	n.sent[email] = code
	return n.err
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := users.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func newTestService(t *testing.T) (*Service, *memoryUsers, memoryCodes, *notifierSpy) {
	t.Helper()
	repo := newMemoryUsers(t,
		users.User{ID: 1, Email: "admin@medbill.io", PasswordHash: mustHash(t, "secret1"), Role: shared.RoleAdmin, IsActive: true},
		users.User{ID: 2, Email: "off@medbill.io", PasswordHash: mustHash(t, "secret2"), Role: shared.RoleUser},
	)
	codes := memoryCodes{}
	notifier := &notifierSpy{}
	svc := NewService(repo, codes, NewTokenIssuer("secret", time.Hour), notifier, nil)
	return svc, repo, codes, notifier
}

func TestLoginSendsOTP(t *testing.T) {
	svc, _, codes, notifier := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, LoginRequest{Email: " Admin@MedBill.io ", Password: "secret1"}))
	require.Equal(t, "123456", codes["admin@medbill.io"])
	require.Equal(t, "123456", notifier.sent["admin@medbill.io"])

	err := svc.Login(ctx, LoginRequest{Email: "admin@medbill.io", Password: "wrong-pass"})
	require.ErrorIs(t, err, shared.ErrUnauthorized)
	msg, _ := shared.PublicMessage(err)
	require.Equal(t, "You have entered an invalid email or password!", msg)

	err = svc.Login(ctx, LoginRequest{Email: "ghost@medbill.io", Password: "secret1"})
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	err = svc.Login(ctx, LoginRequest{Email: "off@medbill.io", Password: "secret2"})
	require.ErrorIs(t, err, shared.ErrForbidden)

	err = svc.Login(ctx, LoginRequest{Email: "not-an-email", Password: "secret1"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestLoginToleratesMailFailure(t *testing.T) {
	svc, _, _, notifier := newTestService(t)
	notifier.err = errors.New("queue down")
	require.NoError(t, svc.Login(context.Background(), LoginRequest{Email: "admin@medbill.io", Password: "secret1"}))
}

func TestVerifyOTPIssuesToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Login(ctx, LoginRequest{Email: "admin@medbill.io", Password: "secret1"}))

	_, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "admin@medbill.io", OTP: "654321"})
	require.ErrorIs(t, err, shared.ErrValidation)

	session, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "admin@medbill.io", OTP: "123456"})
	require.NoError(t, err)
	require.Equal(t, Identity{ID: 1, Role: shared.RoleAdmin}, session.User)

	actor, err := svc.tokens.Parse(session.Token)
	require.NoError(t, err)
	require.Equal(t, int64(1), actor.ID)

	_, err = svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "admin@medbill.io", OTP: "123456"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, repo, _, notifier := newTestService(t)
	ctx := context.Background()

	err := svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "ghost@medbill.io"})
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "admin@medbill.io"}))
	code := notifier.sent["admin@medbill.io"]

	err = svc.ResetPassword(ctx, ResetPasswordRequest{Email: "admin@medbill.io", OTP: "000000", NewPassword: "brand-new"})
	require.ErrorIs(t, err, shared.ErrValidation)

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordRequest{Email: "admin@medbill.io", OTP: code, NewPassword: "brand-new"}))
	require.True(t, users.CheckPassword(repo.byID[1].PasswordHash, "brand-new"))
}

func TestChangePassword(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()
	actor := shared.Actor{ID: 1, Role: shared.RoleAdmin}

	err := svc.ChangePassword(ctx, actor, ChangePasswordRequest{OldPassword: "wrong-1", NewPassword: "next-pass"})
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, actor, ChangePasswordRequest{OldPassword: "secret1", NewPassword: "next-pass"}))
	require.True(t, users.CheckPassword(repo.byID[1].PasswordHash, "next-pass"))

	err = svc.ChangePassword(ctx, actor, ChangePasswordRequest{OldPassword: "next-pass", NewPassword: "123"})
	require.ErrorIs(t, err, shared.ErrValidation)
}
