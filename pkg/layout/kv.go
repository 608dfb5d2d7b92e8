package layout

import (
	"context"
	"encoding/json"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/grid"
	"github.com/vantagedata/dashlayout/pkg/store"
)

// StoreRepository keeps each configuration as a JSON document in a keyed
// store. It suits the file and Redis stores; writes are last-writer-wins.
type StoreRepository struct {
	store store.Store
	keys  store.Keyer
	grid  grid.Config
}

// NewStoreRepository creates a repository over s. A nil keyer uses the
// unscoped keys.
func NewStoreRepository(s store.Store, keys store.Keyer, g grid.Config) *StoreRepository {
	if keys == nil {
		keys = store.NewDefaultKeyer()
	}
	return &StoreRepository{store: s, keys: keys, grid: g}
}

func (r *StoreRepository) Save(ctx context.Context, cfg Configuration) (Configuration, error) {
	if err := cfg.Validate(r.grid); err != nil {
		return Configuration{}, err
	}

	var existing *Configuration
	prev, err := r.Load(ctx, cfg.UserID)
	switch {
	case err == nil:
		existing = &prev
	case errors.Is(err, errors.ErrCodeLayoutNotFound), errors.Is(err, errors.ErrCodeInvalidLayout):
		// Nothing usable stored; a corrupt document is overwritten.
	default:
		return Configuration{}, err
	}

	cfg, err = prepare(r.grid, cfg, existing)
	if err != nil {
		return Configuration{}, err
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	if err := r.store.Set(ctx, r.keys.LayoutKey(cfg.UserID), data, 0); err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeStorage, err, "write layout for %s", cfg.UserID)
	}
	return cfg, nil
}

func (r *StoreRepository) Load(ctx context.Context, userID string) (Configuration, error) {
	if err := errors.ValidateUserID(userID); err != nil {
		return Configuration{}, err
	}

	data, hit, err := r.store.Get(ctx, r.keys.LayoutKey(userID))
	if err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeStorage, err, "read layout for %s", userID)
	}
	if !hit {
		return Configuration{}, notFound(userID)
	}

	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode layout for %s", userID)
	}
	return cfg, nil
}

func (r *StoreRepository) Delete(ctx context.Context, userID string) error {
	if err := errors.ValidateUserID(userID); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, r.keys.LayoutKey(userID)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout for %s", userID)
	}
	return nil
}

// Close closes the underlying store.
func (r *StoreRepository) Close() error {
	return r.store.Close()
}

var _ Repository = (*StoreRepository)(nil)
