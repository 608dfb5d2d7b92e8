package layout

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/grid"
	"github.com/vantagedata/dashlayout/pkg/store"
)

// testRepositories opens every backend available in this environment.
func testRepositories(t *testing.T) map[string]Repository {
	t.Helper()
	ctx := context.Background()
	g := grid.DefaultConfig()
	quiet := log.New(os.Stderr)
	quiet.SetLevel(log.ErrorLevel)

	repos := map[string]Repository{
		"store": NewStoreRepository(store.NewMemoryStore(), nil, g),
	}

	sqlite, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "layouts.db"), g, quiet)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	repos["sqlite"] = sqlite

	var mongoRepo *MongoRepository
	if uri := os.Getenv("DASHLAYOUT_MONGO_URI"); uri != "" {
		mongoRepo, err = OpenMongo(ctx, MongoConfig{
			URI:        uri,
			Database:   "dashlayout_test",
			Collection: "layouts_" + uuid.NewString()[:8],
		}, g)
		if err != nil {
			t.Fatalf("OpenMongo: %v", err)
		}
		repos["mongo"] = mongoRepo
	}

	for _, r := range repos {
		t.Cleanup(func() { _ = r.Close() })
	}
	// Cleanups run last-in first-out, so the collection is dropped before
	// the client disconnects.
	if mongoRepo != nil {
		t.Cleanup(func() { _ = mongoRepo.coll.Drop(context.Background()) })
	}
	return repos
}

func TestRepositorySaveLoad(t *testing.T) {
	ctx := context.Background()

	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.UserID = "alice"

			saved, err := repo.Save(ctx, cfg)
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if _, err := uuid.Parse(saved.ID); err != nil {
				t.Errorf("saved ID %q is not a UUID", saved.ID)
			}
			if saved.CreatedAt == 0 || saved.UpdatedAt < saved.CreatedAt {
				t.Errorf("timestamps = %d/%d", saved.CreatedAt, saved.UpdatedAt)
			}

			loaded, err := repo.Load(ctx, "alice")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if loaded.ID != saved.ID || len(loaded.Items) != len(cfg.Items) {
				t.Fatalf("Load = %+v, want %+v", loaded, saved)
			}
			for i := range cfg.Items {
				if loaded.Items[i] != cfg.Items[i] {
					t.Errorf("item %d = %+v, want %+v", i, loaded.Items[i], cfg.Items[i])
				}
			}
		})
	}
}

func TestRepositoryUpsertKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	defer func(orig func() int64) { nowMillis = orig }(nowMillis)

	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			nowMillis = func() int64 { return 1000 }
			cfg := Default()
			cfg.UserID = "bob"
			first, err := repo.Save(ctx, cfg)
			if err != nil {
				t.Fatalf("Save: %v", err)
			}

			nowMillis = func() int64 { return 2000 }
			cfg.ID = ""
			cfg.IsLocked = true
			cfg.Items = cfg.Items[:2]
			second, err := repo.Save(ctx, cfg)
			if err != nil {
				t.Fatalf("second Save: %v", err)
			}
			if second.ID != first.ID || second.CreatedAt != 1000 || second.UpdatedAt != 2000 {
				t.Errorf("second save = id %s created %d updated %d", second.ID, second.CreatedAt, second.UpdatedAt)
			}

			loaded, err := repo.Load(ctx, "bob")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !loaded.IsLocked || len(loaded.Items) != 2 {
				t.Errorf("Load = locked %v, %d items", loaded.IsLocked, len(loaded.Items))
			}
		})
	}
}

func TestRepositoryNotFoundAndDelete(t *testing.T) {
	ctx := context.Background()

	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := repo.Load(ctx, "nobody"); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
				t.Fatalf("Load(missing) = %v, want LAYOUT_NOT_FOUND", err)
			}

			cfg, err := LoadOrDefault(ctx, repo, "nobody")
			if err != nil {
				t.Fatalf("LoadOrDefault: %v", err)
			}
			if cfg.ID != DefaultID || cfg.UserID != "nobody" {
				t.Errorf("LoadOrDefault = %s/%s, want default for nobody", cfg.ID, cfg.UserID)
			}

			cfg.UserID = "carol"
			if _, err := repo.Save(ctx, cfg); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := repo.Delete(ctx, "carol"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := repo.Load(ctx, "carol"); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
				t.Errorf("Load after Delete = %v", err)
			}
			if err := repo.Delete(ctx, "carol"); err != nil {
				t.Errorf("Delete(missing) = %v", err)
			}
		})
	}
}

func TestRepositoryRejectsInvalid(t *testing.T) {
	ctx := context.Background()

	for name, repo := range testRepositories(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := repo.Save(ctx, Default()); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Save without user = %v", err)
			}
			if _, err := repo.Save(ctx, Configuration{UserID: "dave"}); !errors.Is(err, errors.ErrCodeInvalidLayout) {
				t.Errorf("Save without items = %v", err)
			}
			if _, err := repo.Load(ctx, "../etc"); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Load(../etc) = %v", err)
			}
		})
	}
}

func TestSQLiteMigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "layouts.db")
	g := grid.DefaultConfig()

	for i := 0; i < 2; i++ {
		repo, err := OpenSQLite(ctx, path, g, nil)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		var n int
		if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != len(Migrations()) {
			t.Errorf("open #%d: %d migrations recorded, want %d", i, n, len(Migrations()))
		}
		repo.Close()
	}
}

func TestSQLiteUsers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo, err := OpenSQLite(ctx, ":memory:", grid.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	for _, u := range []string{"zed", "amy"} {
		cfg := Default()
		cfg.UserID = u
		if _, err := repo.Save(ctx, cfg); err != nil {
			t.Fatal(err)
		}
	}
	users, err := repo.Users(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 || users[0] != "amy" || users[1] != "zed" {
		t.Errorf("Users() = %v", users)
	}
}

func TestStoreRepositoryCorruptDocument(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	repo := NewStoreRepository(mem, nil, grid.DefaultConfig())

	_ = mem.Set(ctx, store.NewDefaultKeyer().LayoutKey("erin"), []byte("{not json"), 0)
	if _, err := repo.Load(ctx, "erin"); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("Load(corrupt) = %v, want INVALID_LAYOUT", err)
	}

	cfg := Default()
	cfg.UserID = "erin"
	if _, err := repo.Save(ctx, cfg); err != nil {
		t.Errorf("Save over corrupt document: %v", err)
	}
}
