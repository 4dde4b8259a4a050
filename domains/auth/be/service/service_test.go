package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubtrack-dev/clubtrack/platform/go/auth"
	"github.com/clubtrack-dev/clubtrack/platform/go/persistence"
)

type mockRepository struct {
	findFn func(ctx context.Context, identifier string) (persistence.Person, error)
}

func (m *mockRepository) FindByIdentifier(ctx context.Context, identifier string) (persistence.Person, error) {
	if m.findFn == nil {
		panic("findFn not configured")
	}
	return m.findFn(ctx, identifier)
}

type mockIssuer struct {
	issueFn func(creds auth.UserCredentials) (string, error)
}

func (m *mockIssuer) Issue(creds auth.UserCredentials) (string, error) {
	if m.issueFn == nil {
		panic("issueFn not configured")
	}
	return m.issueFn(creds)
}

func hashOf(t *testing.T, password string) *string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	value := string(hash)
	return &value
}

func strPtr(s string) *string { return &s }

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{}
	repo.findFn = func(ctx context.Context, identifier string) (persistence.Person, error) {
		require.Equal(t, "adiaz", identifier)
		return persistence.Person{
			PersonID:     7,
			FullName:     "Ana Diaz",
			Status:       1,
			Username:     strPtr("adiaz"),
			Email:        strPtr("ana@example.com"),
			PasswordHash: hashOf(t, "s3cret"),
		}, nil
	}

	issuer := &mockIssuer{}
	issuer.issueFn = func(creds auth.UserCredentials) (string, error) {
		require.Equal(t, int64(7), creds.PersonID)
		require.Equal(t, "ana@example.com", creds.Email)
		require.Equal(t, "adiaz", creds.Username)
		return "signed-token", nil
	}

	svc := New(repo, issuer)

	session, err := svc.Login(context.Background(), LoginInput{Identifier: " adiaz ", Password: "s3cret"})
	require.NoError(t, err)
	require.Equal(t, "signed-token", session.Token)
	require.Equal(t, int64(7), session.Person.PersonID)
}

func TestLoginMissingCredentials(t *testing.T) {
	t.Parallel()

	svc := New(&mockRepository{}, &mockIssuer{})

	_, err := svc.Login(context.Background(), LoginInput{})
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "identifier")
	require.Contains(t, validationErr.Fields, "password")
}

func TestLoginUnknownIdentity(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{}
	repo.findFn = func(ctx context.Context, identifier string) (persistence.Person, error) {
		return persistence.Person{}, persistence.ErrPersonNotFound
	}

	svc := New(repo, &mockIssuer{})

	_, err := svc.Login(context.Background(), LoginInput{Identifier: "ghost", Password: "whatever"})
	require.ErrorIs(t, err, ErrUnknownIdentity)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{}
	repo.findFn = func(ctx context.Context, identifier string) (persistence.Person, error) {
		return persistence.Person{
			PersonID:     7,
			Status:       1,
			PasswordHash: hashOf(t, "s3cret"),
		}, nil
	}

	svc := New(repo, &mockIssuer{})

	_, err := svc.Login(context.Background(), LoginInput{Identifier: "adiaz", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDeactivatedPerson(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{}
	repo.findFn = func(ctx context.Context, identifier string) (persistence.Person, error) {
		return persistence.Person{
			PersonID:     7,
			Status:       persistence.PersonStatusDeactivated,
			PasswordHash: hashOf(t, "s3cret"),
		}, nil
	}

	svc := New(repo, &mockIssuer{})

	_, err := svc.Login(context.Background(), LoginInput{Identifier: "adiaz", Password: "s3cret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginPersonWithoutHash(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{}
	repo.findFn = func(ctx context.Context, identifier string) (persistence.Person, error) {
		return persistence.Person{PersonID: 7, Status: 1}, nil
	}

	svc := New(repo, &mockIssuer{})

	_, err := svc.Login(context.Background(), LoginInput{Identifier: "adiaz", Password: "s3cret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
