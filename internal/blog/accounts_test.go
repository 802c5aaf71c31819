package blog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.CreateUser(ctx, ProfileInput{Username: strPtr("alice"), Email: strPtr("alice@example.com")})
	require.NoError(t, err)

	token, err := f.svc.IssueToken(ctx, "alice")
	require.NoError(t, err)

	viewer, err := f.svc.ViewerForToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, AsUser(user.ID), viewer)

	_, err = f.svc.ViewerForToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.ViewerForToken(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.IssueToken(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var verr *ValidationError
	_, err := f.svc.CreateUser(ctx, ProfileInput{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)

	_, err = f.svc.CreateUser(ctx, ProfileInput{Username: strPtr("has space")})
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.CreateUser(ctx, ProfileInput{Username: strPtr("bob"), Email: strPtr("not-an-email")})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	_, err = f.svc.CreateUser(ctx, ProfileInput{Username: strPtr("bob")})
	require.NoError(t, err)
	_, err = f.svc.CreateUser(ctx, ProfileInput{Username: strPtr("bob")})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user("alice")
	f.user("bob")

	updated, err := f.svc.UpdateProfile(ctx, AsUser(alice.ID), ProfileInput{
		FirstName: strPtr("Alice"),
		Email:     strPtr("alice@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "alice@example.com", updated.Email)

	_, err = f.svc.UpdateProfile(ctx, AsUser(alice.ID), ProfileInput{Username: strPtr("bob")})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.UpdateProfile(ctx, Anonymous, ProfileInput{FirstName: strPtr("x")})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	renamed, err := f.svc.UpdateProfile(ctx, AsUser(alice.ID), ProfileInput{Username: strPtr("alice2")})
	require.NoError(t, err)
	assert.Equal(t, "alice2", renamed.Username)

	listing, err := f.svc.ListProfile(ctx, Anonymous, "alice2", 1)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, listing.Author.ID)
}
