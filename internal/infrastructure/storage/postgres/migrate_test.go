package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationVersions_Ordered(t *testing.T) {
	versions, err := MigrationVersions()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"0001_registry.sql",
		"0002_stock.sql",
		"0003_documents.sql",
		"0004_reports_audit.sql",
	}, versions)
}

func TestMigrations_DeclareConstraintsUsedByErrorMapping(t *testing.T) {
	var all string
	versions, err := MigrationVersions()
	require.NoError(t, err)
	for _, v := range versions {
		body, err := migrationFiles.ReadFile("migrations/" + v)
		require.NoError(t, err)
		all += string(body)
	}

	for constraint := range uniqueConstraints {
		assert.Contains(t, all, constraint)
	}
}
