package migration

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Huulamnguyen/biztime/db/migrations"
)

func TestGooseDialect(t *testing.T) {
	cases := map[string]string{
		"postgres": "postgres",
		"mysql":    "mysql",
		"sqlite":   "sqlite3",
	}
	for driver, want := range cases {
		got, err := gooseDialect(driver)
		require.NoError(t, err, driver)
		assert.Equal(t, want, got)
	}

	_, err := gooseDialect("oracle")
	assert.Error(t, err)
}

func TestEveryDialectShipsTheSameMigrations(t *testing.T) {
	var want []string
	for _, dialect := range []string{"postgres", "mysql", "sqlite"} {
		entries, err := fs.ReadDir(migrations.FS, "sql/"+dialect)
		require.NoError(t, err, dialect)

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		if want == nil {
			want = names
			continue
		}
		assert.Equal(t, want, names, dialect)
	}
	assert.NotEmpty(t, want)
}

func TestIsNoMigrationErr(t *testing.T) {
	assert.False(t, isNoMigrationErr(nil))
	assert.True(t, isNoMigrationErr(goose.ErrNoNextVersion))
	assert.True(t, isNoMigrationErr(errors.New("no migration 0")))
	assert.False(t, isNoMigrationErr(errors.New("syntax error")))
}
