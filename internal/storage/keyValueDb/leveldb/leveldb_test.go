package leveldb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/storage/keyValueDb"
	"github.com/LeJamon/carbond/internal/storage/keyValueDb/dbtest"
)

func TestLevelDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) keyValueDb.DB {
		db, err := Open(t.TempDir())
		require.NoError(t, err)
		return db
	})
}
