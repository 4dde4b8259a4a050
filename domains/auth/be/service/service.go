package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/clubtrack-dev/clubtrack/domains/auth/be/repo"
	"github.com/clubtrack-dev/clubtrack/platform/go/auth"
	"github.com/clubtrack-dev/clubtrack/platform/go/persistence"
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

// ValidationError is returned when the input payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Sentinel errors of the login flow.
var (
	ErrUnknownIdentity    = errors.New("unknown identity")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// LoginInput carries the submitted credentials. Identifier matches against
// username, email or phone.
type LoginInput struct {
	Identifier string
	Password   string
}

// Session is a successful login: the signed token plus the person it grants.
type Session struct {
	Token  string             `json:"token"`
	Person persistence.Person `json:"person"`
}

// TokenIssuer signs session tokens for authenticated persons.
type TokenIssuer interface {
	Issue(creds auth.UserCredentials) (string, error)
}

// Service authenticates persons and issues session tokens.
type Service interface {
	Login(ctx context.Context, input LoginInput) (Session, error)
}

type service struct {
	repo   repo.Repository
	issuer TokenIssuer
}

// New constructs an auth Service backed by the provided repository and issuer.
func New(r repo.Repository, issuer TokenIssuer) Service {
	if r == nil {
		panic("auth repository is required")
	}
	if issuer == nil {
		panic("token issuer is required")
	}
	return &service{repo: r, issuer: issuer}
}

// Login verifies the submitted credentials against the stored bcrypt hash and
// returns a signed session token. Deactivated persons and persons without a
// stored hash cannot log in.
func (s *service) Login(ctx context.Context, input LoginInput) (Session, error) {
	fieldErrors := FieldErrors{}

	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		fieldErrors.add("identifier", "identifier is required")
	}
	if input.Password == "" {
		fieldErrors.add("password", "password is required")
	}
	if len(fieldErrors) > 0 {
		return Session{}, &ValidationError{Fields: fieldErrors}
	}

	person, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, persistence.ErrPersonNotFound) {
			return Session{}, ErrUnknownIdentity
		}
		return Session{}, err
	}

	if person.Status == persistence.PersonStatusDeactivated {
		return Session{}, ErrInvalidCredentials
	}
	if person.PasswordHash == nil || *person.PasswordHash == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*person.PasswordHash), []byte(input.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	creds := auth.UserCredentials{PersonID: person.PersonID}
	if person.Email != nil {
		creds.Email = *person.Email
	}
	if person.Username != nil {
		creds.Username = *person.Username
	}

	token, err := s.issuer.Issue(creds)
	if err != nil {
		return Session{}, err
	}

	return Session{Token: token, Person: person}, nil
}

func (f FieldErrors) add(field, message string) {
	if f == nil {
		return
	}
	f[field] = append(f[field], message)
}
