package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/nkosarev/bookstore-server/internal/logger"
	"github.com/nkosarev/bookstore-server/internal/model"
)

// emailPattern accepts the usual local@domain.tld shape without
// attempting full RFC 5322 validation.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Auth orchestrates registration and email confirmation.
type Auth struct {
	users    model.UserStore
	roles    model.RoleStore
	hasher   model.PasswordHasher
	codec    model.TokenCodec
	links    model.LinkBuilder
	notifier model.EmailNotifier
	tokenTTL time.Duration
	logger   *logger.Logger

	now func() time.Time
}

func NewAuth(
	users model.UserStore,
	roles model.RoleStore,
	hasher model.PasswordHasher,
	codec model.TokenCodec,
	links model.LinkBuilder,
	notifier model.EmailNotifier,
	tokenTTL time.Duration,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:    users,
		roles:    roles,
		hasher:   hasher,
		codec:    codec,
		links:    links,
		notifier: notifier,
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterUser registers an account with the "user" role and returns
// the new user id.
func (a *Auth) RegisterUser(ctx context.Context, username, email, password string) (int64, error) {
	return a.register(ctx, username, email, password, model.RoleUser)
}

// RegisterAdmin registers an account with the "admin" role and returns
// the new user id.
func (a *Auth) RegisterAdmin(ctx context.Context, username, email, password string) (int64, error) {
	return a.register(ctx, username, email, password, model.RoleAdmin)
}

func (a *Auth) register(ctx context.Context, username, email, password, roleName string) (int64, error) {
	a.logger.Debug("Auth service: starting user registration",
		"username", username,
		"role", roleName)

	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return 0, model.NewInvalidArgument("username, email and password must not be empty")
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return 0, model.NewInvalidArgument("invalid email format")
	}
	if err := validatePassword(password); err != nil {
		return 0, err
	}

	normalizedUsername := model.NormalizeIdentity(username)
	normalizedEmail := model.NormalizeIdentity(email)

	// Username is checked before email so the reported conflict is
	// deterministic when both are taken.
	_, err := a.users.GetByNormalizedUsername(ctx, normalizedUsername)
	if err == nil {
		a.logger.Info("Auth service: username already exists",
			"username", username)
		return 0, model.NewConflict("username already exists")
	}
	if !errors.Is(err, model.ErrNotFound) {
		return 0, fmt.Errorf("failed to get user by username: %w", err)
	}

	_, err = a.users.GetByNormalizedEmail(ctx, normalizedEmail)
	if err == nil {
		a.logger.Info("Auth service: email already exists",
			"username", username)
		return 0, model.NewConflict("email already exists")
	}
	if !errors.Is(err, model.ErrNotFound) {
		return 0, fmt.Errorf("failed to get user by email: %w", err)
	}

	passwordHash, err := a.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	role, err := a.roles.GetByName(ctx, roleName)
	if errors.Is(err, model.ErrNotFound) {
		return 0, model.NewConfiguration("role " + roleName + " is not seeded")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get role by name: %w", err)
	}

	now := a.now().UTC()
	user := model.User{
		Username:           strings.TrimSpace(username),
		NormalizedUsername: normalizedUsername,
		Email:              normalizedEmail,
		NormalizedEmail:    normalizedEmail,
		PasswordHash:       passwordHash,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	user.AttachRole(role.ID)

	saved, err := a.users.Create(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"username", username,
			"error", err.Error())
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := a.codec.CreateToken(model.PurposeEmailConfirmation, saved.ID, now.Add(a.tokenTTL), "")
	if err != nil {
		return saved.ID, fmt.Errorf("failed to create confirmation token: %w", err)
	}

	link, err := a.links.ConfirmEmailLink(token)
	if err != nil {
		return saved.ID, fmt.Errorf("failed to build confirmation link: %w", err)
	}

	// The user is persisted at this point. A notification failure is
	// reported to the caller but does not undo the registration.
	if err := a.notifier.SendConfirmation(ctx, saved.Email, link); err != nil {
		a.logger.Error("Auth service: failed to send confirmation email",
			"user_id", saved.ID,
			"error", err.Error())
		return saved.ID, fmt.Errorf("failed to send confirmation email: %w", err)
	}

	a.logger.Info("Auth service: user registered successfully",
		"user_id", saved.ID,
		"role", roleName)

	return saved.ID, nil
}

// ConfirmEmail validates an email-confirmation token and marks the
// referenced user confirmed. Confirming twice is a no-op.
func (a *Auth) ConfirmEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return model.NewInvalidArgument("token must not be empty")
	}

	action, ok := a.codec.TryValidateToken(token, model.PurposeEmailConfirmation)
	if !ok {
		return model.NewInvalidToken("invalid or expired token")
	}

	user, err := a.users.GetByID(ctx, action.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	if user.IsEmailConfirmed {
		return nil
	}

	user.IsEmailConfirmed = true
	user.UpdatedAt = a.now().UTC()

	if _, err := a.users.Update(ctx, user); err != nil {
		a.logger.Error("Auth service: failed to update user",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to update user: %w", err)
	}

	a.logger.Info("Auth service: email confirmed",
		"user_id", user.ID)

	return nil
}

// SoftDeleteUser marks a user deleted and invalidates their refresh
// tokens, freeing the identity for re-registration.
func (a *Auth) SoftDeleteUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.NewInvalidArgument("invalid user id")
	}

	if err := a.users.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to soft delete user: %w", err)
	}

	a.logger.Info("Auth service: user soft deleted",
		"user_id", id)

	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return model.NewInvalidArgument("password must be at least 8 characters long")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return model.NewInvalidArgument("password must contain at least one letter and one digit")
	}

	return nil
}
