package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementsSplitsSchema(t *testing.T) {
	stmts := statements(schema)
	require.NotEmpty(t, stmts)

	for _, s := range stmts {
		assert.NotEmpty(t, s)
		assert.False(t, strings.HasSuffix(s, ";\n"))
	}
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE IF NOT EXISTS category"))
	assert.True(t, strings.HasPrefix(stmts[len(stmts)-1], "CREATE OR REPLACE VIEW dashboard"))
}

func TestDSN(t *testing.T) {
	cfg := &Config{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=inv sslmode=disable", cfg.DSN())
}
