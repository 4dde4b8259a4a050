package person

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubtrack-dev/clubtrack/platform/go/persistence"
)

// Command groups person provisioning helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Person provisioning utilities",
		Long:  "Person provisioning utilities (create login-capable persons, reset passwords).",
	}

	cmd.AddCommand(createCommand())
	cmd.AddCommand(setPasswordCommand())
	return cmd
}

func createCommand() *cobra.Command {
	var (
		databaseURL string
		fullName    string
		username    string
		email       string
		password    string
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a person with login credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(password) == "" {
				return errors.New("password must not be empty")
			}

			ctx := context.Background()

			store, closePool, err := newPersonStore(ctx, databaseURL)
			if err != nil {
				return err
			}
			defer closePool()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			params := persistence.CreatePersonParams{
				FullName:     fullName,
				Username:     &username,
				PasswordHash: string(hash),
			}
			if email != "" {
				params.Email = &email
			}

			personID, err := store.CreatePerson(ctx, params)
			if err != nil {
				if errors.Is(err, persistence.ErrPersonExists) {
					return fmt.Errorf("username or email already in use")
				}
				return fmt.Errorf("create person: %w", err)
			}

			cmd.Printf("created person %d (%s)\n", personID, username)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "postgres connection string")
	c.Flags().StringVar(&fullName, "full-name", "", "person full name")
	c.Flags().StringVar(&username, "username", "", "login username")
	c.Flags().StringVar(&email, "email", "", "login email")
	c.Flags().StringVar(&password, "password", "", "initial password")
	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("full-name")
	_ = c.MarkFlagRequired("username")
	_ = c.MarkFlagRequired("password")

	return c
}

func setPasswordCommand() *cobra.Command {
	var (
		databaseURL string
		personID    int64
		password    string
	)

	c := &cobra.Command{
		Use:   "set-password",
		Short: "Overwrite a person's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(password) == "" {
				return errors.New("password must not be empty")
			}

			ctx := context.Background()

			store, closePool, err := newPersonStore(ctx, databaseURL)
			if err != nil {
				return err
			}
			defer closePool()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			if err := store.SetPasswordHash(ctx, personID, string(hash)); err != nil {
				if errors.Is(err, persistence.ErrPersonNotFound) {
					return fmt.Errorf("person %d not found", personID)
				}
				return fmt.Errorf("set password: %w", err)
			}

			cmd.Printf("password updated for person %d\n", personID)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "postgres connection string")
	c.Flags().Int64Var(&personID, "person-id", 0, "person id")
	c.Flags().StringVar(&password, "password", "", "new password")
	_ = c.MarkFlagRequired("database-url")
	_ = c.MarkFlagRequired("person-id")
	_ = c.MarkFlagRequired("password")

	return c
}

func newPersonStore(ctx context.Context, databaseURL string) (*persistence.PersonStore, func(), error) {
	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
	if err != nil {
		return nil, nil, fmt.Errorf("init pool: %w", err)
	}

	store, err := persistence.NewPersonStore(pool)
	if err != nil {
		persistence.ClosePool(pool)
		return nil, nil, fmt.Errorf("init person store: %w", err)
	}

	return store, func() { persistence.ClosePool(pool) }, nil
}
