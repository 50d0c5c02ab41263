package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// repairStep is one introspection-driven schema repair. Steps detect the
// current shape of the database directly (column presence, not a version
// number) and apply only when needed, so each step is idempotent and safe
// to interrupt and retry on the next startup.
type repairStep struct {
	name   string
	needed func(ctx context.Context, db *DB) (bool, error)
	apply  func(ctx context.Context, db *DB) error
}

var repairSteps = []repairStep{
	{
		name:   "rebuild_users_table",
		needed: usersTableNeedsRebuild,
		apply:  rebuildUsersTable,
	},
	{
		name:   "add_feedback_user_id",
		needed: feedbackMissingUserID,
		apply:  addFeedbackUserID,
	},
}

// Repair inspects the schema and applies any repair steps legacy databases
// still need. Must be called after RunMigrations; a no-op on a canonical
// schema.
func (db *DB) Repair(ctx context.Context) error {
	for _, step := range repairSteps {
		needed, err := step.needed(ctx, db)
		if err != nil {
			return fmt.Errorf("repair step %s: detect: %w", step.name, err)
		}
		if !needed {
			continue
		}
		db.log.Info().Str("step", step.name).Msg("Applying schema repair")
		if err := step.apply(ctx, db); err != nil {
			return fmt.Errorf("repair step %s: %w", step.name, err)
		}
	}
	return nil
}

// tableColumns returns the column names of a table via PRAGMA table_info.
func tableColumns(ctx context.Context, db *DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func hasColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}

// usersTableNeedsRebuild reports whether the users table exists but lacks
// one of the required columns (username, password, created_at).
func usersTableNeedsRebuild(ctx context.Context, db *DB) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='users'").Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	cols, err := tableColumns(ctx, db, "users")
	if err != nil {
		return false, err
	}
	return !hasColumn(cols, "username") || !hasColumn(cols, "password") || !hasColumn(cols, "created_at"), nil
}

// rebuildUsersTable replaces a users table with a non-canonical shape:
// build a replacement with the canonical columns, copy rows coalescing
// missing values, drop the original, rename the replacement into place.
// Irreversible, so the whole rebuild runs in one transaction.
func rebuildUsersTable(ctx context.Context, db *DB) error {
	cols, err := tableColumns(ctx, db, "users")
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users_new (
			id INTEGER PRIMARY KEY,
			username TEXT UNIQUE,
			password TEXT,
			created_at TEXT
		)
	`); err != nil {
		return err
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	selectCols := []string{}
	if hasColumn(cols, "username") {
		selectCols = append(selectCols, "COALESCE(username,'')")
	} else {
		selectCols = append(selectCols, "''")
	}
	if hasColumn(cols, "password") {
		selectCols = append(selectCols, "COALESCE(password,'')")
	} else {
		selectCols = append(selectCols, "''")
	}
	if hasColumn(cols, "created_at") {
		selectCols = append(selectCols, fmt.Sprintf("COALESCE(created_at,'%s')", now))
	} else {
		selectCols = append(selectCols, fmt.Sprintf("'%s'", now))
	}

	var insertSQL string
	if hasColumn(cols, "id") {
		insertSQL = fmt.Sprintf(
			"INSERT OR IGNORE INTO users_new (id, username, password, created_at) SELECT id, %s FROM users",
			strings.Join(selectCols, ", "))
	} else {
		insertSQL = fmt.Sprintf(
			"INSERT OR IGNORE INTO users_new (username, password, created_at) SELECT %s FROM users",
			strings.Join(selectCols, ", "))
	}
	if _, err := tx.ExecContext(ctx, insertSQL); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE users"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "ALTER TABLE users_new RENAME TO users"); err != nil {
		return err
	}

	return tx.Commit()
}

func feedbackMissingUserID(ctx context.Context, db *DB) (bool, error) {
	cols, err := tableColumns(ctx, db, "feedback")
	if err != nil {
		return false, err
	}
	if len(cols) == 0 {
		// table absent; nothing to repair, migrations create it canonical
		return false, nil
	}
	return !hasColumn(cols, "user_id"), nil
}

func addFeedbackUserID(ctx context.Context, db *DB) error {
	_, err := db.ExecContext(ctx, "ALTER TABLE feedback ADD COLUMN user_id INTEGER")
	return err
}
