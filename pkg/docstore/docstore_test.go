package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	fwerrors "github.com/framewright/framewright/pkg/errors"
	"github.com/framewright/framewright/pkg/node"
	"github.com/framewright/framewright/pkg/observability"
)

func testBackends(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			_, err := s.Load(ctx, "home")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.True(t, fwerrors.Is(err, fwerrors.ErrCodeDocumentNotFound))

			require.NoError(t, s.Save(ctx, "home", []byte(`{"version":1}`)))
			require.NoError(t, s.Save(ctx, "about", []byte(`{}`)))
			require.NoError(t, s.Save(ctx, "home", []byte(`{"version":1,"nodes":[]}`)))

			data, err := s.Load(ctx, "home")
			require.NoError(t, err)
			assert.Equal(t, `{"version":1,"nodes":[]}`, string(data))

			ids, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"about", "home"}, ids)

			require.NoError(t, s.Delete(ctx, "home"))
			require.NoError(t, s.Delete(ctx, "home"))
			_, err = s.Load(ctx, "home")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreRejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	for name, s := range testBackends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"", "../etc/passwd", "a/b", ".hidden"} {
				err := s.Save(ctx, id, []byte("{}"))
				assert.True(t, fwerrors.Is(err, fwerrors.ErrCodeInvalidID), "Save(%q) = %v", id, err)
				_, err = s.Load(ctx, id)
				assert.True(t, fwerrors.Is(err, fwerrors.ErrCodeInvalidID), "Load(%q) = %v", id, err)
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, s.Save(ctx, "doc", buf))
	buf[0] = 'x'

	got, err := s.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	got[0] = 'y'

	again, _ := s.Load(ctx, "doc")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Save(ctx, "doc", []byte("x"))
			_, _ = s.Load(ctx, "doc")
			_, _ = s.List(ctx)
		}()
	}
	wg.Wait()
	ids, _ := s.List(ctx)
	assert.Equal(t, []string{"doc"}, ids)
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "docs")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	require.NoError(t, s.Save(ctx, "landing", []byte("{}")))
	_, err = os.Stat(filepath.Join(dir, "landing.json"))
	assert.NoError(t, err)

	// Stray files are not documents.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"landing"}, ids)

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

type recordingHooks struct {
	observability.NoopDocStoreHooks
	loads []bool
	saves []int
}

func (r *recordingHooks) OnLoad(_ context.Context, _, _ string, found bool, _ time.Duration) {
	r.loads = append(r.loads, found)
}

func (r *recordingHooks) OnSave(_ context.Context, _, _ string, size int, _ time.Duration, _ error) {
	r.saves = append(r.saves, size)
}

func TestSaveLoadNodes(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetDocStoreHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	s := NewMemoryStore()
	nodes := []node.Node{
		{ID: "desktop", Type: node.TypeViewport, IsViewport: true, ViewportWidth: 1440},
		{ID: "hero", ParentID: "desktop", Type: node.TypeFrame, Style: node.Style{"width": "50%"}},
	}
	require.NoError(t, SaveNodes(ctx, s, "home", nodes))

	got, err := LoadNodes(ctx, s, "home")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hero", got[1].ID)
	assert.Equal(t, "desktop", got[1].ParentID)
	assert.Equal(t, "50%", got[1].Style["width"])

	_, err = LoadNodes(ctx, s, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.Len(t, hooks.saves, 1)
	assert.Positive(t, hooks.saves[0])
	assert.Equal(t, []bool{true, false}, hooks.loads)
}

func TestLoadNodesInvalidDocument(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Save(ctx, "broken", []byte("not json")))

	_, err := LoadNodes(ctx, s, "broken")
	assert.True(t, fwerrors.Is(err, fwerrors.ErrCodeInvalidDocument), "err = %v", err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, "memory", s.Kind())

	s, err = Open(ctx, Options{Backend: "file", Path: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "file", s.Kind())

	_, err = Open(ctx, Options{Backend: "sqlite"})
	assert.True(t, fwerrors.Is(err, fwerrors.ErrCodeUnsupported))

	_, err = Open(ctx, Options{Backend: "redis", URL: "http://localhost"})
	assert.True(t, fwerrors.Is(err, fwerrors.ErrCodeInvalidInput))

	_, err = Open(ctx, Options{Backend: "mongo", URL: "redis://localhost"})
	assert.True(t, fwerrors.Is(err, fwerrors.ErrCodeInvalidInput))
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	unreachable := fwerrors.New(fwerrors.ErrCodeStorage, "ping")

	calls := 0
	err := retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return unreachable
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return fwerrors.New(fwerrors.ErrCodeInvalidConfig, "bad url")
	})
	assert.True(t, fwerrors.Is(err, fwerrors.ErrCodeInvalidConfig))
	assert.Equal(t, 1, calls, "config errors are not retried")

	calls = 0
	err = retry(ctx, 2, time.Millisecond, func() error {
		calls++
		return unreachable
	})
	assert.Equal(t, unreachable, err)
	assert.Equal(t, 2, calls)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = retry(cancelled, 3, time.Hour, func() error { return unreachable })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenRetriesUnreachable(t *testing.T) {
	start := time.Now()
	_, err := Open(context.Background(), Options{
		Backend:         "redis",
		URL:             "redis://127.0.0.1:1/0",
		Timeout:         200 * time.Millisecond,
		ConnectAttempts: 2,
	})
	require.Error(t, err)
	assert.True(t, fwerrors.Is(err, fwerrors.ErrCodeStorage), "err = %v", err)
	assert.GreaterOrEqual(t, time.Since(start), connectRetryDelay)
}

func TestRedisUnreachable(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "redis://127.0.0.1:1/0", "fw:", 500*time.Millisecond)
	require.Error(t, err)
	assert.True(t, fwerrors.Is(err, fwerrors.ErrCodeStorage), "err = %v", err)
}

func TestRedisKeys(t *testing.T) {
	r := &RedisStore{prefix: "fw:"}
	assert.Equal(t, "fw:doc:home", r.docKey("home"))
	assert.Equal(t, "fw:docs", r.indexKey())
}

func TestMongoDocumentShape(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	raw, err := bson.Marshal(mongoDocument{ID: "home", Data: `{"version":1}`, UpdatedAt: at})
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.Equal(t, "home", m["_id"])
	assert.Equal(t, `{"version":1}`, m["data"])
	assert.Contains(t, m, "updatedAt")
}

func TestNotFoundWrapsSentinel(t *testing.T) {
	err := notFound("x")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "x")
}
