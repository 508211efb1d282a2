package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_RejectsBadInput(t *testing.T) {
	t.Parallel()
	assert.ErrorContains(t, Run("", Up), "DATABASE_URL is not set")
	for _, dir := range []string{"", "UP", "sideways"} {
		assert.ErrorContains(t, Run("postgres://localhost/casevault", dir), "direction must be", dir)
	}
}

func TestFS_PairsEveryMigration(t *testing.T) {
	t.Parallel()
	ups, err := fs.Glob(FS, "sql/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(FS, "sql/*.down.sql")
	require.NoError(t, err)
	assert.Len(t, ups, 2)
	assert.Len(t, downs, len(ups))
}
