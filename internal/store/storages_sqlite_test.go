package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLite_UserLifecycle(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := context.Background()

	bob, err := s.UserRepository.CreateUser(ctx, "bob", "hash-1")
	require.NoError(t, err)
	assert.Positive(t, bob.UserID)

	_, err = s.UserRepository.CreateUser(ctx, "bob", "hash-2")
	assert.ErrorIs(t, err, ErrLoginAlreadyExists)

	// usernames are case-sensitive
	_, err = s.UserRepository.CreateUser(ctx, "Bob", "hash-3")
	require.NoError(t, err)

	found, err := s.UserRepository.FindUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.UserID, found.UserID)
	assert.Equal(t, "hash-1", found.MasterPasswordHash)
	assert.False(t, found.CreatedAt.IsZero())

	require.NoError(t, s.UserRepository.UpdateMasterHash(ctx, bob.UserID, "hash-new"))
	byID, err := s.UserRepository.FindUserByID(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, "hash-new", byID.MasterPasswordHash)

	_, err = s.UserRepository.FindUserByUsername(ctx, "alice")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
	assert.ErrorIs(t, s.UserRepository.UpdateMasterHash(ctx, 9999, "h"), ErrNoUserWasFound)
}

func TestSQLite_CredentialsOrderAndDuplicates(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := context.Background()

	bob, err := s.UserRepository.CreateUser(ctx, "bob", "hash")
	require.NoError(t, err)

	for _, label := range []string{"mail", "bank", "mail"} {
		_, err := s.CredentialRepository.AddCredential(ctx, bob.UserID, label, "blob-"+label)
		require.NoError(t, err)
	}

	all, err := s.CredentialRepository.ListCredentials(ctx, bob.UserID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"mail", "bank", "mail"}, []string{all[0].SiteLabel, all[1].SiteLabel, all[2].SiteLabel})
	assert.Less(t, all[0].CredentialID, all[1].CredentialID)
	assert.Less(t, all[1].CredentialID, all[2].CredentialID)

	mail, err := s.CredentialRepository.ListCredentialsByLabel(ctx, bob.UserID, "mail")
	require.NoError(t, err)
	assert.Len(t, mail, 2)

	n, err := s.CredentialRepository.DeleteCredential(ctx, bob.UserID, "mail")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.CredentialRepository.DeleteCredential(ctx, bob.UserID, "mail")
	require.NoError(t, err)
	assert.Zero(t, n)

	rest, err := s.CredentialRepository.ListCredentials(ctx, bob.UserID)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "bank", rest[0].SiteLabel)
}

func TestSQLite_CredentialsAreIsolatedPerUser(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := context.Background()

	bob, err := s.UserRepository.CreateUser(ctx, "bob", "hash")
	require.NoError(t, err)
	alice, err := s.UserRepository.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)

	_, err = s.CredentialRepository.AddCredential(ctx, bob.UserID, "mail", "bob-blob")
	require.NoError(t, err)

	list, err := s.CredentialRepository.ListCredentials(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := s.CredentialRepository.DeleteCredential(ctx, alice.UserID, "mail")
	require.NoError(t, err)
	assert.Zero(t, n, "alice must not delete bob's credentials")
}

func TestSQLite_AddCredentialForUnknownUser(t *testing.T) {
	s := newSQLiteStorages(t)

	_, err := s.CredentialRepository.AddCredential(context.Background(), 4242, "mail", "blob")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestSQLite_DeleteUserCascades(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := context.Background()

	bob, err := s.UserRepository.CreateUser(ctx, "bob", "hash")
	require.NoError(t, err)
	for _, label := range []string{"mail", "bank"} {
		_, err := s.CredentialRepository.AddCredential(ctx, bob.UserID, label, "blob")
		require.NoError(t, err)
	}

	removed, err := s.UserRepository.DeleteUser(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = s.UserRepository.FindUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNoUserWasFound)

	var orphans int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM credentials WHERE owner_id = ?", bob.UserID).Scan(&orphans))
	assert.Zero(t, orphans)

	_, err = s.UserRepository.DeleteUser(ctx, bob.UserID)
	assert.ErrorIs(t, err, ErrNoUserWasFound)

	// the username is free again
	_, err = s.UserRepository.CreateUser(ctx, "bob", "hash")
	assert.NoError(t, err)
}
