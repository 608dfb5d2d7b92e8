package layout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/grid"
)

// Repository persists one layout configuration per user.
type Repository interface {
	// Save validates and upserts cfg. The stored configuration is returned
	// with its ID and timestamps filled in; an existing configuration keeps
	// its ID and CreatedAt.
	Save(ctx context.Context, cfg Configuration) (Configuration, error)

	// Load returns the user's configuration or an ErrCodeLayoutNotFound
	// error.
	Load(ctx context.Context, userID string) (Configuration, error)

	// Delete removes the user's configuration. Deleting a missing one is
	// not an error.
	Delete(ctx context.Context, userID string) error

	// Close releases backend resources.
	Close() error
}

// LoadOrDefault loads the user's layout and falls back to [Default] when
// none is saved. Other errors are returned.
func LoadOrDefault(ctx context.Context, repo Repository, userID string) (Configuration, error) {
	cfg, err := repo.Load(ctx, userID)
	if errors.Is(err, errors.ErrCodeLayoutNotFound) {
		def := Default()
		def.UserID = userID
		return def, nil
	}
	return cfg, err
}

// nowMillis is replaced in tests.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// prepare validates cfg and fills in the fields a save assigns. existing
// is the currently stored configuration, if any.
func prepare(g grid.Config, cfg Configuration, existing *Configuration) (Configuration, error) {
	if err := cfg.Validate(g); err != nil {
		return Configuration{}, err
	}

	now := nowMillis()
	switch {
	case existing != nil:
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
	case cfg.ID == "" || cfg.ID == DefaultID:
		cfg.ID = uuid.New().String()
	}
	if cfg.CreatedAt == 0 {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = max(now, cfg.CreatedAt)
	return cfg, nil
}

func notFound(userID string) error {
	return errors.New(errors.ErrCodeLayoutNotFound, "no layout found for user %s", userID)
}
