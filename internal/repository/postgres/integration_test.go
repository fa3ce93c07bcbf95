//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nkosarev/bookstore-server/internal/model"
	repo "github.com/nkosarev/bookstore-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "bookstore_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/bookstore_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newUser(username, email string) model.User {
	now := time.Now().UTC()
	return model.User{
		Username:           username,
		NormalizedUsername: model.NormalizeIdentity(username),
		Email:              model.NormalizeIdentity(email),
		NormalizedEmail:    model.NormalizeIdentity(email),
		PasswordHash:       "hash",
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestIdentityRepositories(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	users := repo.NewUserRepository(conn)
	roles := repo.NewRoleRepository(conn)
	tokens := repo.NewRefreshTokenRepository(conn)

	t.Run("roles are seeded", func(t *testing.T) {
		for _, name := range []string{model.RoleUser, model.RoleAdmin} {
			role, err := roles.GetByName(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, name, role.Name)
		}

		_, err := roles.GetByName(ctx, "missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("create user with role assignment", func(t *testing.T) {
		role, err := roles.GetByName(ctx, model.RoleUser)
		require.NoError(t, err)

		u := newUser("alice", "alice@example.com")
		u.AttachRole(role.ID)

		saved, err := users.Create(ctx, u)
		require.NoError(t, err)
		assert.Positive(t, saved.ID)
		require.Len(t, saved.Roles, 1)
		assert.Equal(t, role.ID, saved.Roles[0].RoleID)

		byName, err := users.GetByNormalizedUsername(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, saved.ID, byName.ID)

		byEmail, err := users.GetByNormalizedEmail(ctx, "ALICE@EXAMPLE.COM")
		require.NoError(t, err)
		assert.Equal(t, saved.ID, byEmail.ID)
	})

	t.Run("normalized uniqueness is enforced by the store", func(t *testing.T) {
		first := newUser("bob", "bob@example.com")
		_, err := users.Create(ctx, first)
		require.NoError(t, err)

		dup := newUser("BOB ", "other@example.com")
		_, err = users.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.KindConflict))
	})

	t.Run("update flips confirmation flag", func(t *testing.T) {
		saved, err := users.Create(ctx, newUser("carol", "carol@example.com"))
		require.NoError(t, err)

		saved.IsEmailConfirmed = true
		saved.UpdatedAt = time.Now().UTC()
		updated, err := users.Update(ctx, saved)
		require.NoError(t, err)
		assert.True(t, updated.IsEmailConfirmed)
	})

	t.Run("soft delete hides user and removes refresh tokens", func(t *testing.T) {
		saved, err := users.Create(ctx, newUser("dave", "dave@example.com"))
		require.NoError(t, err)

		_, err = tokens.Create(ctx, model.RefreshToken{
			UserID:    saved.ID,
			TokenHash: "dave-token-hash",
			ExpiresAt: time.Now().UTC().Add(time.Hour),
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)

		require.NoError(t, users.SoftDelete(ctx, saved.ID))

		_, err = users.GetByID(ctx, saved.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		_, err = tokens.GetByHash(ctx, "dave-token-hash")
		assert.ErrorIs(t, err, model.ErrNotFound)

		// The identity is free again for registration.
		_, err = users.Create(ctx, newUser("dave", "dave@example.com"))
		assert.NoError(t, err)

		// Deleting twice reports absence.
		assert.ErrorIs(t, users.SoftDelete(ctx, saved.ID), model.ErrNotFound)
	})

	t.Run("refresh token revocation", func(t *testing.T) {
		saved, err := users.Create(ctx, newUser("erin", "erin@example.com"))
		require.NoError(t, err)

		tok, err := tokens.Create(ctx, model.RefreshToken{
			UserID:    saved.ID,
			TokenHash: "erin-token-hash",
			ExpiresAt: time.Now().UTC().Add(time.Hour),
			CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.NotEqual(t, tok.ID.String(), "00000000-0000-0000-0000-000000000000")

		require.NoError(t, tokens.RevokeByHash(ctx, "erin-token-hash"))

		revoked, err := tokens.GetByHash(ctx, "erin-token-hash")
		require.NoError(t, err)
		assert.NotNil(t, revoked.RevokedAt)

		assert.ErrorIs(t, tokens.RevokeByHash(ctx, "erin-token-hash"), model.ErrNotFound)
	})
}
