package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMigrationName(t *testing.T) {
	version, name, err := parseMigrationName("0001_user_profiles.sql")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, "user_profiles", name)

	_, _, err = parseMigrationName("profiles.sql")
	assert.Error(t, err)

	_, _, err = parseMigrationName("x1_profiles.sql")
	assert.Error(t, err)
}

func TestLoadMigrations_Embedded(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Contains(t, migrations[0].Content, "CREATE TABLE IF NOT EXISTS user_profiles")
	assert.Equal(t, int64(len(migrations)), lastVersion(migrations))
}
