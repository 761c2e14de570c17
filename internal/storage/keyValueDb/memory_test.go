package keyValueDb_test

import (
	"testing"

	"github.com/LeJamon/carbond/internal/storage/keyValueDb"
	"github.com/LeJamon/carbond/internal/storage/keyValueDb/dbtest"
)

func TestMemoryDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) keyValueDb.DB {
		return keyValueDb.NewMemoryDB()
	})
}
