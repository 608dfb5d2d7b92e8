package layout

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/grid"
)

// Migration is one versioned schema change.
type Migration struct {
	Version     int
	Description string
	Up          string
}

// Migrations returns the schema history in order.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "create layout_configs table",
			Up: `
				CREATE TABLE IF NOT EXISTS layout_configs (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL UNIQUE,
					is_locked BOOLEAN NOT NULL DEFAULT FALSE,
					layout_data TEXT NOT NULL,
					created_at INTEGER NOT NULL,
					updated_at INTEGER NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_layout_user ON layout_configs(user_id);
			`,
		},
	}
}

// SQLiteRepository stores layouts in a SQLite database. Items are kept as
// a JSON document in the layout_data column.
type SQLiteRepository struct {
	db     *sql.DB
	grid   grid.Config
	logger *log.Logger
}

// OpenSQLite opens (creating if needed) the database at path and applies
// pending migrations. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string, g grid.Config, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "create database directory")
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open database %s", path)
	}
	// A single connection keeps ":memory:" databases alive and serializes
	// writers the way SQLite wants.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping database %s", path)
	}

	r := &SQLiteRepository{db: db, grid: g, logger: logger}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create migrations table")
	}

	for _, m := range Migrations() {
		var count int
		err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "check migration %d", m.Version)
		}
		if count > 0 {
			continue
		}

		if err := r.apply(ctx, m); err != nil {
			return err
		}
		r.logger.Debug("applied migration", "version", m.Version, "description", m.Description)
	}
	return nil
}

func (r *SQLiteRepository) apply(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "begin migration %d", m.Version)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.Up); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "migration %d (%s)", m.Version, m.Description)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, description) VALUES (?, ?)", m.Version, m.Description); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "record migration %d", m.Version)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "commit migration %d", m.Version)
	}
	return nil
}

// layoutData is the JSON document stored in layout_data.
type layoutData struct {
	Items []Item `json:"items"`
}

func (r *SQLiteRepository) Save(ctx context.Context, cfg Configuration) (Configuration, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeStorage, err, "begin transaction")
	}
	defer tx.Rollback()

	var existing *Configuration
	var id string
	var createdAt int64
	err = tx.QueryRowContext(ctx, "SELECT id, created_at FROM layout_configs WHERE user_id = ?", cfg.UserID).Scan(&id, &createdAt)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return Configuration{}, errors.Wrap(errors.ErrCodeStorage, err, "check existing layout")
	default:
		existing = &Configuration{ID: id, CreatedAt: createdAt}
	}

	cfg, err = prepare(r.grid, cfg, existing)
	if err != nil {
		return Configuration{}, err
	}

	data, err := json.Marshal(layoutData{Items: cfg.Items})
	if err != nil {
		return Configuration{}, fmt.Errorf("encode layout data: %w", err)
	}

	if existing == nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO layout_configs (id, user_id, is_locked, layout_data, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			cfg.ID, cfg.UserID, cfg.IsLocked, string(data), cfg.CreatedAt, cfg.UpdatedAt)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE layout_configs
			SET is_locked = ?, layout_data = ?, updated_at = ?
			WHERE user_id = ?`,
			cfg.IsLocked, string(data), cfg.UpdatedAt, cfg.UserID)
	}
	if err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeStorage, err, "write layout for %s", cfg.UserID)
	}

	if err := tx.Commit(); err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeStorage, err, "commit layout for %s", cfg.UserID)
	}
	return cfg, nil
}

func (r *SQLiteRepository) Load(ctx context.Context, userID string) (Configuration, error) {
	if err := errors.ValidateUserID(userID); err != nil {
		return Configuration{}, err
	}

	cfg := Configuration{UserID: userID}
	var data string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, is_locked, layout_data, created_at, updated_at
		FROM layout_configs
		WHERE user_id = ?`, userID).
		Scan(&cfg.ID, &cfg.IsLocked, &data, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err == sql.ErrNoRows {
		return Configuration{}, notFound(userID)
	}
	if err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeStorage, err, "query layout for %s", userID)
	}

	var doc layoutData
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode layout for %s", userID)
	}
	cfg.Items = doc.Items
	return cfg, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID string) error {
	if err := errors.ValidateUserID(userID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM layout_configs WHERE user_id = ?", userID); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout for %s", userID)
	}
	return nil
}

// Users lists the users that have a saved layout, sorted.
func (r *SQLiteRepository) Users(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT user_id FROM layout_configs ORDER BY user_id")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list users")
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan user")
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

var _ Repository = (*SQLiteRepository)(nil)
