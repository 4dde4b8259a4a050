package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(UserCredentials{PersonID: 7, Email: "ana@example.com", Username: "adiaz"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	creds, err := issuer.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, int64(7), creds.PersonID)
	require.Equal(t, "ana@example.com", creds.Email)
	require.Equal(t, "adiaz", creds.Username)
}

func TestIssueRequiresPersonID(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = issuer.Issue(UserCredentials{})
	require.Error(t, err)
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenIssuer("", time.Hour)
	require.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	other, err := NewTokenIssuer("other-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(UserCredentials{PersonID: 7})
	require.NoError(t, err)

	_, err = other.Verify(context.Background(), token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("test-secret", time.Minute)
	require.NoError(t, err)

	issued := time.Date(2024, time.November, 24, 10, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(UserCredentials{PersonID: 7})
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(2 * time.Minute) }

	_, err = issuer.Verify(context.Background(), token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = issuer.Verify(context.Background(), "not.a.token")
	require.Error(t, err)
}

func TestRequireBearerMissingToken(t *testing.T) {
	t.Parallel()

	verify := func(ctx context.Context, token string) (*UserCredentials, error) {
		t.Fatal("verify must not run without a token")
		return nil, nil
	}

	handler := RequireBearer(verify)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_request")
}

func TestRequireBearerInvalidToken(t *testing.T) {
	t.Parallel()

	verify := func(ctx context.Context, token string) (*UserCredentials, error) {
		return nil, errors.New("bad signature")
	}

	handler := RequireBearer(verify)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set("Authorization", "Bearer tampered")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
}

func TestRequireBearerValidToken(t *testing.T) {
	t.Parallel()

	verify := func(ctx context.Context, token string) (*UserCredentials, error) {
		require.Equal(t, "good-token", token)
		return &UserCredentials{PersonID: 7}, nil
	}

	var seen *UserCredentials
	handler := RequireBearer(verify)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds, ok := UserFromContext(r.Context())
		require.True(t, ok)
		seen = creds
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, int64(7), seen.PersonID)
}

func TestRequireBearerSkipsPreflight(t *testing.T) {
	t.Parallel()

	verify := func(ctx context.Context, token string) (*UserCredentials, error) {
		t.Fatal("verify must not run for preflight")
		return nil, nil
	}

	handler := RequireBearer(verify)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/events", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		token  string
		found  bool
	}{
		{name: "standard", header: "Bearer abc", token: "abc", found: true},
		{name: "lowercase scheme", header: "bearer abc", token: "abc", found: true},
		{name: "padded token", header: "Bearer   abc  ", token: "abc", found: true},
		{name: "missing header", header: "", token: "", found: false},
		{name: "wrong scheme", header: "Basic abc", token: "", found: false},
		{name: "scheme only", header: "Bearer ", token: "", found: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			token, found := ExtractBearerToken(req)
			require.Equal(t, tc.found, found)
			require.Equal(t, tc.token, token)
		})
	}
}
