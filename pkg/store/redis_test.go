package store

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("DASHLAYOUT_REDIS_ADDR")
	if addr == "" {
		t.Skip("DASHLAYOUT_REDIS_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: "dashlayout-test:"})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()

	key := "panelWidths:" + time.Now().Format("150405.000000")
	if _, hit, err := s.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := s.Set(ctx, key, []byte(`{"left":200,"right":300}`), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := s.Get(ctx, key)
	if err != nil || !hit || string(data) != `{"left":200,"right":300}` {
		t.Fatalf("Get = %s, %v, %v", data, hit, err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
