package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sqlassets "github.com/clubtrack-dev/clubtrack/database"
)

// Bootstrap applies the embedded core schema DDL in a single transaction.
// SQL is embedded at build time so binaries stay self-contained. The helper is
// idempotent and intended for first-run deployments, the admin CLI, and tests.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("bootstrap schema: pool is required")
	}

	statements := splitStatements(sqlassets.CoreSchemaSQL)
	if len(statements) == 0 {
		return fmt.Errorf("bootstrap schema: embedded DDL is empty")
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply ddl: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// splitStatements breaks a DDL asset into individual statements. The embedded
// schema holds no string literals containing semicolons, so a plain split is enough.
func splitStatements(sql string) []string {
	raw := strings.Split(sql, ";")
	statements := make([]string, 0, len(raw))
	for _, candidate := range raw {
		stmt := strings.TrimSpace(candidate)
		if stmt == "" {
			continue
		}
		statements = append(statements, stmt)
	}
	return statements
}
