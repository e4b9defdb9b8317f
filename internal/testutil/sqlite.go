//go:build cgo

package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Huulamnguyen/biztime/internal/config"
	"github.com/Huulamnguyen/biztime/internal/database"
	"github.com/Huulamnguyen/biztime/internal/migration"
)

// OpenSQLite returns connections to a migrated SQLite file under t.TempDir.
func OpenSQLite(t *testing.T) *database.Connections {
	t.Helper()

	conns, err := database.Open(config.Database{
		Driver:        "sqlite",
		WriterDSN:     "file:" + filepath.Join(t.TempDir(), "biztime.db"),
		MaxOpenConns:  1,
		SnapshotReads: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conns.Close() })

	mig, err := migration.NewMigrator("sqlite", conns.Writer, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, mig.Up(context.Background()))

	return conns
}
