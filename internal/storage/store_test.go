package storage_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/khoahotran/cv-portfolio/adapters/persistence"
	"github.com/khoahotran/cv-portfolio/internal/storage"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

type doc struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func newStore(t *testing.T) (*storage.Store, storage.Backend, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	backend := persistence.NewMemoryBackend()
	return storage.NewStore(backend, "portfolio", logger.NewFromZap(zap.New(core))), backend, logs
}

func TestStore_GetAbsent(t *testing.T) {
	s, _, logs := newStore(t)

	var d doc
	assert.False(t, s.Get(context.Background(), "missing", &d))
	assert.Equal(t, 0, logs.Len())
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	s, backend, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "doc", doc{Name: "a", Items: []string{"x"}}))

	var d doc
	require.True(t, s.Get(ctx, "doc", &d))
	assert.Equal(t, doc{Name: "a", Items: []string{"x"}}, d)

	raw, err := backend.Get(ctx, "portfolio:doc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a","items":["x"]}`, string(raw))
}

func TestStore_CorruptPayloadIsAbsentAndLogged(t *testing.T) {
	s, backend, logs := newStore(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "portfolio:doc", []byte("{not json")))

	var d doc
	assert.False(t, s.Get(ctx, "doc", &d))

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	assert.Equal(t, "doc", warns[0].ContextMap()["key"])

	_, ok := s.GetRaw(ctx, "doc")
	assert.False(t, ok)
}

func TestStore_Remove(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "doc", doc{Name: "a"}))
	require.NoError(t, s.Remove(ctx, "doc"))
	require.NoError(t, s.Remove(ctx, "doc"))

	var d doc
	assert.False(t, s.Get(ctx, "doc", &d))
}

func TestStore_UpdateIsSerialised(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var list []int
			err := s.Update(ctx, "list", &list, func(bool) error {
				list = append(list, 1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var list []int
	require.True(t, s.Get(ctx, "list", &list))
	assert.Len(t, list, 50)
}

func TestStore_UpdateAbortsOnError(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "doc", doc{Name: "before"}))

	boom := errors.New("boom")
	var d doc
	err := s.Update(ctx, "doc", &d, func(found bool) error {
		assert.True(t, found)
		d.Name = "after"
		return boom
	})
	require.ErrorIs(t, err, boom)

	var got doc
	require.True(t, s.Get(ctx, "doc", &got))
	assert.Equal(t, "before", got.Name)
}
