package cli

import (
	"context"
	"fmt"

	"github.com/vantagedata/dashlayout/pkg/config"
	"github.com/vantagedata/dashlayout/pkg/layout"
	"github.com/vantagedata/dashlayout/pkg/panels"
	"github.com/vantagedata/dashlayout/pkg/store"
)

// openStore opens the configured UI state store, wrapped so that store
// hooks observe it.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	sc := c.Config.Storage
	var (
		s   store.Store
		err error
	)
	switch sc.Backend {
	case config.StorageFile:
		s, err = store.NewFileStore(sc.Dir)
	case config.StorageMemory:
		s = store.NewMemoryStore()
	case config.StorageRedis:
		err = connect(ctx, "redis at "+sc.RedisAddr, func() error {
			var rerr error
			s, rerr = store.NewRedisStore(ctx, store.RedisConfig{
				Addr:     sc.RedisAddr,
				Password: sc.RedisPassword,
				DB:       sc.RedisDB,
				Prefix:   sc.RedisPrefix,
			})
			return rerr
		})
	case config.StorageNone:
		s = store.NewNullStore()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", sc.Backend, err)
	}
	c.Logger.Debug("store opened", "backend", sc.Backend)
	return store.Observe(s), nil
}

// keyer scopes keys when storage.scope is set.
func (c *CLI) keyer() store.Keyer {
	if scope := c.Config.Storage.Scope; scope != "" {
		return store.NewScopedKeyer(nil, scope+":")
	}
	return store.NewDefaultKeyer()
}

// openRepository opens the configured layout repository. The store
// backend keeps layouts next to the UI state in s.
func (c *CLI) openRepository(ctx context.Context, s store.Store) (layout.Repository, error) {
	lc := c.Config.Layouts
	switch lc.Backend {
	case config.LayoutsSQLite:
		repo, err := layout.OpenSQLite(ctx, lc.SQLitePath, c.Config.Grid, c.Logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.LayoutsMongo:
		var repo *layout.MongoRepository
		err := connect(ctx, "mongodb", func() error {
			var merr error
			repo, merr = layout.OpenMongo(ctx, layout.MongoConfig{
				URI:        lc.MongoURI,
				Database:   lc.MongoDatabase,
				Collection: lc.MongoCollection,
			}, c.Config.Grid)
			return merr
		})
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("connected to mongodb", "database", lc.MongoDatabase)
		return repo, nil
	case config.LayoutsStore:
		return layout.NewStoreRepository(s, c.keyer(), c.Config.Grid), nil
	default:
		return nil, fmt.Errorf("unknown layouts backend %q", lc.Backend)
	}
}

// newPersister returns a panel persister over s with the configured
// constraints.
func (c *CLI) newPersister(s store.Store) *panels.Persister {
	p := panels.NewPersister(s, c.keyer(), c.Logger)
	p.Constraints = c.Config.Panels
	return p
}

// backends bundles the opened store and repository for one command.
type backends struct {
	store store.Store
	repo  layout.Repository

	// shared is set when repo closes store itself.
	shared bool
}

func (c *CLI) openBackends(ctx context.Context) (*backends, error) {
	s, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	repo, err := c.openRepository(ctx, s)
	if err != nil {
		s.Close()
		return nil, err
	}
	return &backends{
		store:  s,
		repo:   repo,
		shared: c.Config.Layouts.Backend == config.LayoutsStore,
	}, nil
}

func (b *backends) Close() error {
	err := b.repo.Close()
	if !b.shared {
		if serr := b.store.Close(); err == nil {
			err = serr
		}
	}
	return err
}
