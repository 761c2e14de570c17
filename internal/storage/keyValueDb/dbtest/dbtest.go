// Package dbtest holds the behaviour every keyValueDb.DB backend must share.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/storage/keyValueDb"
)

// Run exercises a backend. open must return a fresh, empty database.
func Run(t *testing.T, open func(t *testing.T) keyValueDb.DB) {
	ctx := context.Background()

	t.Run("ReadWriteDelete", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		_, err := db.Read(ctx, []byte("missing"))
		require.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))
		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)

		require.NoError(t, db.Delete(ctx, []byte("k")))
		_, err = db.Read(ctx, []byte("k"))
		require.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)
	})

	t.Run("Batch", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		require.NoError(t, db.Batch(ctx, []keyValueDb.BatchOperation{
			keyValueDb.Put([]byte("batch1"), []byte("value1")),
			keyValueDb.Put([]byte("batch2"), []byte("value2")),
			keyValueDb.Del([]byte("batch1")),
		}))

		_, err := db.Read(ctx, []byte("batch1"))
		require.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)
		got, err := db.Read(ctx, []byte("batch2"))
		require.NoError(t, err)
		assert.Equal(t, []byte("value2"), got)
	})

	t.Run("IteratorRange", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		for _, k := range []string{"iter3", "iter1", "iter2", "other"} {
			require.NoError(t, db.Write(ctx, []byte(k), []byte("v-"+k)))
		}

		it, err := db.Iterator(ctx, []byte("iter1"), []byte("iter3"))
		require.NoError(t, err)
		defer it.Close()

		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
			assert.Equal(t, "v-"+string(it.Key()), string(it.Value()))
		}
		require.NoError(t, it.Error())
		assert.Equal(t, []string{"iter1", "iter2"}, keys)
	})

	t.Run("IteratorOpenBounds", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		for _, k := range []string{"b", "a", "c"} {
			require.NoError(t, db.Write(ctx, []byte(k), []byte(k)))
		}
		it, err := db.Iterator(ctx, nil, nil)
		require.NoError(t, err)
		defer it.Close()

		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
		}
		assert.Equal(t, []string{"a", "b", "c"}, keys)
	})

	t.Run("Closed", func(t *testing.T) {
		db := open(t)
		require.NoError(t, db.Close())

		_, err := db.Read(ctx, []byte("k"))
		assert.ErrorIs(t, err, keyValueDb.ErrDBClosed)
		assert.ErrorIs(t, db.Write(ctx, []byte("k"), []byte("v")), keyValueDb.ErrDBClosed)
	})
}
