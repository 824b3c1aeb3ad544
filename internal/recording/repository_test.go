package recording

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestListQueries(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var runs []Run
		return listRunsQuery(tx, 10, 20).Find(&runs)
	})
	assert.Contains(t, sql, `FROM "runs"`)
	assert.Contains(t, sql, "ORDER BY id DESC")
	assert.Contains(t, sql, "LIMIT 10")
	assert.Contains(t, sql, "OFFSET 20")

	sql = db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []Interaction
		return listInteractionsQuery(tx, 3).Find(&out)
	})
	assert.Contains(t, sql, `FROM "interactions"`)
	assert.Contains(t, sql, "run_id = 3")
	assert.Contains(t, sql, "ORDER BY id ASC")
}
