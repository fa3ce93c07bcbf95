package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nkosarev/bookstore-server/internal/model"
)

type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Verify(hash, plain string) bool {
	args := m.Called(hash, plain)
	return args.Bool(0)
}

type TokenCodec struct {
	mock.Mock
}

func (m *TokenCodec) CreateToken(purpose model.Purpose, userID int64, expiresAt time.Time, newEmail string) (string, error) {
	args := m.Called(purpose, userID, expiresAt, newEmail)
	return args.String(0), args.Error(1)
}

func (m *TokenCodec) TryValidateToken(token string, expected model.Purpose) (model.AuthAction, bool) {
	args := m.Called(token, expected)
	return args.Get(0).(model.AuthAction), args.Bool(1)
}

type LinkBuilder struct {
	mock.Mock
}

func (m *LinkBuilder) ConfirmEmailLink(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *LinkBuilder) ResetPasswordLink(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *LinkBuilder) ChangeEmailLink(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *LinkBuilder) DeleteAccountLink(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *LinkBuilder) SensitiveChangeLink(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type EmailNotifier struct {
	mock.Mock
}

func (m *EmailNotifier) SendConfirmation(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

func (m *EmailNotifier) SendPasswordReset(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

func (m *EmailNotifier) SendEmailChange(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

func (m *EmailNotifier) SendAccountDeletion(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

func (m *EmailNotifier) SendSensitiveChange(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

type CoverStorage struct {
	mock.Mock
}

func (m *CoverStorage) Upload(ctx context.Context, bookID string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, bookID, reader, size, contentType)
	return args.Error(0)
}

func (m *CoverStorage) Download(ctx context.Context, bookID string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func (m *CoverStorage) Delete(ctx context.Context, bookID string) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}

func (m *CoverStorage) Exists(ctx context.Context, bookID string) (bool, error) {
	args := m.Called(ctx, bookID)
	return args.Bool(0), args.Error(1)
}
