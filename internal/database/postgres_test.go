package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackgpt-backend/migrations"
)

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name     string
		expected int
	}{
		{"001_messages.sql", 1},
		{"012_add_index.sql", 12},
		{"abc_nope.sql", 0},
		{"001_messages.txt", 0},
		{"1.sql", 0},
		{"README", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, migrationVersion(tc.name))
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	content, err := migrations.FS.ReadFile("001_messages.sql")
	require.NoError(t, err)
	assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS messages")
	assert.Contains(t, string(content), "conversation_id")
}

func TestMigrationVersion_SkipsUnversionedFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1")},
		"notes.md":  {Data: []byte("x")},
		"002_b.sql": {Data: []byte("SELECT 2")},
	}

	var versions []int
	for name := range fsys {
		if v := migrationVersion(name); v != 0 {
			versions = append(versions, v)
		}
	}
	assert.ElementsMatch(t, []int{1, 2}, versions)
}
