package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "solve:abc"); hit || err != nil {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "solve:abc", []byte("3\n"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "solve:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != "3\n" {
		t.Errorf("data = %q, want %q", data, "3\n")
	}

	if err := c.Delete(ctx, "solve:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "solve:abc"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "solve:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "short", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned as hit")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl expired")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry = hit %v, err %v, want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"a", "b"} {
		if err := c.Set(ctx, key, []byte(key), time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Set(ctx, "keep", []byte("k"), time.Hour); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	removed, err := c.Prune(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("Prune removed %d, want 2", removed)
	}
	if _, hit, _ := c.Get(ctx, "keep"); !hit {
		t.Error("Prune removed a live entry")
	}
}

func TestHashJSON(t *testing.T) {
	h1, err := HashJSON(map[string]int{"x": 1, "y": 2})
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := HashJSON(map[string]int{"y": 2, "x": 1})
	if h1 != h2 {
		t.Error("HashJSON should be deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}

	if other, _ := HashJSON(map[string]int{"x": 2}); other == h1 {
		t.Error("different inputs should produce different hashes")
	}
	if _, err := HashJSON(make(chan int)); err == nil {
		t.Error("HashJSON should fail on values JSON cannot encode")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	sk1 := k.SolveKey("net1", SolveKeyOpts{MaxPasses: 10})
	sk2 := k.SolveKey("net1", SolveKeyOpts{MaxPasses: 20})
	if sk1 == sk2 {
		t.Error("Different SolveKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(sk1, "solve:") {
		t.Errorf("SolveKey should start with solve: %s", sk1)
	}
	if k.SolveKey("net1", SolveKeyOpts{}) == k.SolveKey("net2", SolveKeyOpts{}) {
		t.Error("Different nets should produce different keys")
	}

	pk1 := k.PlotKey("sol", PlotKeyOpts{Format: "svg", Scale: 10})
	pk2 := k.PlotKey("sol", PlotKeyOpts{Format: "png", Scale: 10})
	if pk1 == pk2 {
		t.Error("Different PlotKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "staging:")

	want := "staging:" + inner.SolveKey("net", SolveKeyOpts{})
	if got := scoped.SolveKey("net", SolveKeyOpts{}); got != want {
		t.Errorf("SolveKey = %s, want %s", got, want)
	}

	// Should use DefaultKeyer when inner is nil
	if got := NewScopedKeyer(nil, "p:").PlotKey("s", PlotKeyOpts{}); !strings.HasPrefix(got, "p:plot:") {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestTransient(t *testing.T) {
	dial := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"missing key", redis.Nil, false},
		{"closed client", redis.ErrClosed, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), false},
		{"pool timeout", redis.ErrPoolTimeout, true},
		{"pool exhausted", redis.ErrPoolExhausted, true},
		{"dial", dial, true},
		{"wrapped dial", fmt.Errorf("ping: %w", dial), true},
		{"other", ErrUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transient(tt.err); got != tt.want {
				t.Errorf("transient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryPolicy(t *testing.T) {
	ctx := context.Background()
	p := retryPolicy{attempts: 3, delay: time.Millisecond}

	tests := []struct {
		name      string
		fails     int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"final error", 5, redis.ErrClosed, 1, redis.ErrClosed},
		{"recovers", 1, redis.ErrPoolTimeout, 2, nil},
		{"exhausted", 5, redis.ErrPoolTimeout, 3, redis.ErrPoolTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := p.do(ctx, func() error {
				calls++
				if calls <= tt.fails {
					return tt.err
				}
				return nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryPolicyContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retryPolicy{attempts: 3, delay: time.Hour}.do(ctx, func() error {
		calls++
		return redis.ErrPoolTimeout
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("STEINER_TEST_REDIS")
	if addr == "" {
		t.Skip("STEINER_TEST_REDIS not set")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "steiner-test:"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	key := "solve:" + t.Name()
	t.Cleanup(func() { c.Delete(ctx, key) })

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get before Set = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("data"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "data" {
		t.Fatalf("Get after Set = %q, hit %v, err %v", data, hit, err)
	}
}
