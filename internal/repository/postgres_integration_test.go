//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio/signupd/internal/model"
	"github.com/folio/signupd/internal/repository"
	"github.com/folio/signupd/internal/testutil"
)

func newPostgresTestStore(t *testing.T) *repository.Postgres {
	t.Helper()

	url := testutil.RequireEnv(t, "DATABASE_URL")
	ctx := context.Background()

	require.NoError(t, repository.Migrate(ctx, url))

	store, err := repository.NewPostgres(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Pool().Exec(ctx, "TRUNCATE signups RESTART IDENTITY; DELETE FROM admin_credentials")
	require.NoError(t, err)

	return store
}

func TestIntegrationPostgres_SignupLifecycle(t *testing.T) {
	store := newPostgresTestStore(t)
	ctx := context.Background()

	first := &model.Signup{FirstName: "Grace", LastName: "Hopper", Email: testutil.UniqueEmail("grace")}
	require.NoError(t, store.CreateSignup(ctx, first))
	assert.NotZero(t, first.ID)

	second := &model.Signup{FirstName: "Alan", LastName: "Turing", Email: testutil.UniqueEmail("alan")}
	require.NoError(t, store.CreateSignup(ctx, second))

	err := store.CreateSignup(ctx, &model.Signup{FirstName: "X", LastName: "Y", Email: first.Email})
	assert.ErrorIs(t, err, repository.ErrEmailExists)

	signups, err := store.ListSignups(ctx)
	require.NoError(t, err)
	require.Len(t, signups, 2)
	assert.Equal(t, second.ID, signups[0].ID)
	assert.Equal(t, first.ID, signups[1].ID)
}

func TestIntegrationPostgres_AdminCredential(t *testing.T) {
	store := newPostgresTestStore(t)
	ctx := context.Background()

	_, err := store.GetAdminCredential(ctx)
	assert.ErrorIs(t, err, repository.ErrAdminNotFound)

	require.NoError(t, store.CreateAdminCredential(ctx, "first"))
	assert.ErrorIs(t, store.CreateAdminCredential(ctx, "second"), repository.ErrAdminExists)

	cred, err := store.GetAdminCredential(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", cred.PasswordHash)
}
