package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PersonStatusDeactivated is the terminal lifecycle status. Deactivated people
// never enter new attendance snapshots.
const PersonStatusDeactivated int16 = 6

// Person represents a row in the persons table.
type Person struct {
	PersonID     int64      `db:"person_id" json:"personId"`
	FullName     string     `db:"full_name" json:"name"`
	Nickname     *string    `db:"nickname" json:"nickname,omitempty"`
	BirthDate    *time.Time `db:"birth_date" json:"birthDate,omitempty"`
	Status       int16      `db:"status" json:"status"`
	Username     *string    `db:"username" json:"username,omitempty"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	PasswordHash *string    `db:"password_hash" json:"-"`
	AvatarColor  *string    `db:"avatar_color" json:"color,omitempty"`
	ProfilePhoto *string    `db:"profile_photo" json:"profilePhoto,omitempty"`
	UserType     *string    `db:"user_type" json:"userType,omitempty"`
}

// CreatePersonParams captures the fields of a new login-capable person.
type CreatePersonParams struct {
	FullName     string
	Username     *string
	Email        *string
	PasswordHash string
}

// PersonStore exposes helpers for the persons table.
type PersonStore struct {
	pool *pgxpool.Pool
}

// NewPersonStore returns a store instance bound to the shared pool.
func NewPersonStore(pool *pgxpool.Pool) (*PersonStore, error) {
	if pool == nil {
		return nil, errors.New("pool is required")
	}
	return &PersonStore{pool: pool}, nil
}

// FindByIdentifier resolves a person by username, email, or phone.
func (s *PersonStore) FindByIdentifier(ctx context.Context, identifier string) (Person, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Person{}, ErrPersonNotFound
	}

	row := s.pool.QueryRow(ctx, `
        SELECT person_id, full_name, nickname, birth_date, status, username, email, phone,
               password_hash, avatar_color, profile_photo, user_type
        FROM persons
        WHERE username = $1 OR email = $1 OR phone = $1
        LIMIT 1
    `, identifier)

	person, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Person{}, ErrPersonNotFound
		}
		return Person{}, err
	}

	return person, nil
}

// CreatePerson inserts a person with login credentials. A username or email
// already in use surfaces as ErrPersonExists.
func (s *PersonStore) CreatePerson(ctx context.Context, params CreatePersonParams) (int64, error) {
	var personID int64
	if err := s.pool.QueryRow(ctx, `
        INSERT INTO persons (full_name, username, email, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING person_id
    `, params.FullName, params.Username, params.Email, params.PasswordHash).Scan(&personID); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrPersonExists
		}
		return 0, fmt.Errorf("insert person: %w", err)
	}

	return personID, nil
}

// SetPasswordHash overwrites the stored credential hash.
func (s *PersonStore) SetPasswordHash(ctx context.Context, personID int64, hash string) error {
	tag, err := s.pool.Exec(ctx, `
        UPDATE persons SET password_hash = $2 WHERE person_id = $1
    `, personID, hash)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPersonNotFound
	}

	return nil
}

func scanPerson(row pgx.Row) (Person, error) {
	var p Person

	if err := row.Scan(
		&p.PersonID,
		&p.FullName,
		&p.Nickname,
		&p.BirthDate,
		&p.Status,
		&p.Username,
		&p.Email,
		&p.Phone,
		&p.PasswordHash,
		&p.AvatarColor,
		&p.ProfilePhoto,
		&p.UserType,
	); err != nil {
		return Person{}, err
	}

	return p, nil
}
