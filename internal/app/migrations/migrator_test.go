package migrations

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesSortedAndFiltered(t *testing.T) {
	files := fstest.MapFS{
		"002_users.sql":   {Data: []byte("SELECT 1;")},
		"001_init.sql":    {Data: []byte("SELECT 1;")},
		"README.md":       {Data: []byte("notes")},
		"archive/000.sql": {Data: []byte("SELECT 1;")},
	}

	names, err := migrationFiles(files)

	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_users.sql"}, names)
}

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "001", migrationVersion("001_init.sql"))
	assert.Equal(t, "010", migrationVersion("sql/010_add_index_on_name.sql"))
	assert.Equal(t, "baseline.sql", migrationVersion("baseline.sql"))
}

func TestEmbeddedMigrationsCreateCoreTables(t *testing.T) {
	names, err := migrationFiles(Files())
	require.NoError(t, err)
	require.NotEmpty(t, names)

	content, err := fs.ReadFile(Files(), names[0])
	require.NoError(t, err)
	for _, table := range []string{"courses", "professors", "grades", "users"} {
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, string(content), "users_email_lower_key")
}
