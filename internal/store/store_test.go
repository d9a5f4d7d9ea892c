package store_test

import (
	"cmp"
	"math"
	"math/rand"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlonMell/rbstore/internal/config"
	"github.com/AlonMell/rbstore/internal/rbtree"
	"github.com/AlonMell/rbstore/internal/store"
)

var sample = []int{20, 15, 25, 10, 5, 1, 17, 4, 34, 30}

func newStore[K cmp.Ordered](t *testing.T, cfg *config.Config) (*store.Store[K], *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.TraceLevel)
	return store.New[K](cfg, log.WithField("package", "store")), hook
}

func TestPutSample(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.VerifyWrites = true
	s, _ := newStore[int](t, cfg)

	for _, k := range sample {
		require.NoError(t, s.Put(k))
		require.NoError(t, s.Validate())
	}

	assert.Equal(t, []int{1, 4, 5, 10, 15, 17, 20, 25, 30, 34}, s.Keys())
	assert.Equal(t, len(sample), s.Count())
	assert.Equal(t, 2, s.BlackHeight())

	key, color, ok := s.Search(15)
	require.True(t, ok)
	assert.Equal(t, 15, key)
	assert.Equal(t, rbtree.Black, color)

	_, _, ok = s.Search(100)
	assert.False(t, ok)
	assert.False(t, s.Contains(100))
}

func TestPutDuplicates(t *testing.T) {
	s, _ := newStore[string](t, nil)
	for _, k := range []string{"b", "a", "b", "c", "b"} {
		require.NoError(t, s.Put(k))
	}

	assert.Equal(t, []string{"a", "b", "b", "b", "c"}, s.Keys())
	assert.Equal(t, 5, s.Count())
	assert.NoError(t, s.Validate())
}

func TestNilConfig(t *testing.T) {
	s := store.New[int](nil, nil)
	require.NoError(t, s.Put(1))
	assert.True(t, s.Contains(1))
}

func TestSignedZero(t *testing.T) {
	s, _ := newStore[float64](t, nil)
	require.NoError(t, s.Put(math.Copysign(0, -1)))

	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(math.Copysign(0, -1)))
}

func TestContainsAgreesWithKeys(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	cfg := config.DefaultConfig()
	cfg.ExpectedKeys = 256
	s, _ := newStore[int](t, cfg)

	inserted := map[int]bool{}
	for range 1_000 {
		k := r.Intn(4_000)
		inserted[k] = true
		require.NoError(t, s.Put(k))
	}

	for k := range 4_000 {
		assert.Equal(t, inserted[k], s.Contains(k), "key %d", k)
	}
	assert.True(t, slices.IsSorted(s.Keys()))
}

func TestForEachStops(t *testing.T) {
	s, _ := newStore[int](t, nil)
	for _, k := range sample {
		require.NoError(t, s.Put(k))
	}

	var got []int
	s.ForEach(func(key int, _ rbtree.Color) bool {
		got = append(got, key)
		return len(got) < 3
	})
	assert.Equal(t, []int{1, 4, 5}, got)
}

func TestEntries(t *testing.T) {
	s, _ := newStore[int](t, nil)
	for _, k := range sample {
		require.NoError(t, s.Put(k))
	}

	entries := s.Entries()
	require.Len(t, entries, len(sample))
	assert.Equal(t, rbtree.Entry[int]{Key: 20, Color: rbtree.Black}, entries[6])
	assert.Equal(t, rbtree.Entry[int]{Key: 34, Color: rbtree.Red}, entries[9])
}

func TestIterator(t *testing.T) {
	s, _ := newStore[int](t, nil)
	for _, k := range sample {
		require.NoError(t, s.Put(k))
	}

	it := s.Iterator()
	var got []int
	for it.Next() {
		got = append(got, it.Key())
		if it.Key() == 20 {
			assert.Equal(t, rbtree.Black, it.Color())
		}
	}
	assert.Equal(t, s.Keys(), got)
	assert.NoError(t, it.Close())
	assert.NoError(t, it.Close())
	assert.False(t, it.Next())

	// The read lock is gone once closed.
	require.NoError(t, s.Put(99))
	assert.True(t, s.Contains(99))
}

func TestStats(t *testing.T) {
	s, hook := newStore[int](t, nil)
	for _, k := range sample {
		require.NoError(t, s.Put(k))
	}

	st := s.LogStats()
	assert.Equal(t, len(sample), st.Count)
	assert.Equal(t, 4, st.Height)
	assert.Equal(t, 2, st.BlackHeight)
	assert.Equal(t, 6, st.Red)
	assert.Equal(t, 4, st.Black)
	assert.Positive(t, st.NodeBytes)
	assert.Greater(t, st.BloomFalsePositive, 0.0)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "store stats", entry.Message)
	assert.Equal(t, "10", entry.Data["count"])
	assert.Equal(t, "store", entry.Data["package"])
}

func TestOverCapacityWarning(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ExpectedKeys = 4
	s, hook := newStore[int](t, cfg)

	for k := range 6 {
		require.NoError(t, s.Put(k))
	}

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestPutLogsDebug(t *testing.T) {
	s, hook := newStore[string](t, nil)
	require.NoError(t, s.Put("k"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "k", entry.Data["key"])
}

func TestConcurrentAccess(t *testing.T) {
	s, _ := newStore[int](t, nil)

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 250 {
				_ = s.Put(w*1_000 + i)
				s.Contains(i)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1_000, s.Count())
	assert.NoError(t, s.Validate())
}

func BenchmarkPut(b *testing.B) {
	s := store.New[string](nil, nil)
	for i := 0; i < b.N; i++ {
		_ = s.Put(strconv.Itoa(i))
	}
}

func BenchmarkContainsMiss(b *testing.B) {
	s := store.New[int](nil, nil)
	for n := 0; n < 10_000; n++ {
		_ = s.Put(n)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Contains(-i - 1)
	}
}
