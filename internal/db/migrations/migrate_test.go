package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(Files(), "sql")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestInitMigrationDefinesChangeFeed(t *testing.T) {
	b, err := fs.ReadFile(Files(), "sql/000001_init.up.sql")
	require.NoError(t, err)

	sql := string(b)
	assert.Contains(t, sql, "pg_notify('pinmark_changes'")
	for _, table := range []string{"profiles", "projects", "folders", "images", "image_comments", "image_marks", "project_shares", "notification_logs"} {
		assert.Contains(t, sql, "create table if not exists "+table+" (")
	}
}
