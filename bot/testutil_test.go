package bot

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	appdb "bayon/db"
	"bayon/dedup"
	"bayon/messenger"
	"bayon/secret"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	// a second pool connection would see a different empty memory db
	conn.DB().SetMaxOpenConns(1)
	appdb.AutoMigrate(conn)
	return conn
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBox(t *testing.T) secret.Box {
	t.Helper()
	box, err := secret.NewBox(bytes.Repeat([]byte{9}, 32))
	require.NoError(t, err)
	return box
}

// fastRetrier skips real backoff waits but records them.
func fastRetrier(waits *[]time.Duration) *messenger.Retrier {
	r := messenger.NewRetrier(testLogger())
	r.Sleep = func(ctx context.Context, d time.Duration) error {
		if waits != nil {
			*waits = append(*waits, d)
		}
		return nil
	}
	return r
}

func testFilter() *dedup.Filter {
	return dedup.New(nil)
}
