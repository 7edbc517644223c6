package dialects

import (
	"testing"

	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := map[string]string{
		"generic":    "generic",
		"SQLite3":    "sqlite",
		"sqlite":     "sqlite",
		"postgresql": "postgres",
		"psql":       "postgres",
		"mysql":      "mysql",
		"mssql":      "sqlserver",
		" sqlserver": "sqlserver",
	}
	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			g, err := New(input, generator.Options{})
			require.NoError(t, err)
			assert.Equal(t, expected, g.Name())
		})
	}

	_, err := New("oracle", generator.Options{})
	assert.ErrorContains(t, err, "unknown dialect")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"generic", "mysql", "postgres", "sqlite", "sqlserver"}, Names())
}

func TestFeatureMatrix(t *testing.T) {
	matrix := FeatureMatrix()
	assert.True(t, matrix["postgres"][generator.FeatureNullsNotDistinct])
	assert.False(t, matrix["sqlite"][generator.FeatureAlterColumn])
	assert.False(t, matrix["mysql"][generator.FeatureTransactionalDDL])
	assert.True(t, matrix["sqlserver"][generator.FeatureClusteredIndexes])
}

// Every generator shares one instance across goroutines.
func TestConcurrentUse(t *testing.T) {
	for _, name := range Names() {
		g, err := New(name, generator.Options{Compatibility: generator.CompatibilityLoose})
		require.NoError(t, err)
		table := &expression.CreateTable{Table: &schema.TableDefinition{
			Name: "t",
			Columns: []*schema.ColumnDefinition{
				{Name: "id", Type: schema.Int32, PrimaryKey: true},
				{Name: "name", Type: schema.String, Size: schema.Int(20), Nullable: schema.True},
			},
		}}
		expected, err := generator.Generate(g, table)
		require.NoError(t, err)

		results := make(chan string, 16)
		for range 16 {
			go func() {
				sql, _ := generator.Generate(g, table)
				results <- sql
			}()
		}
		for range 16 {
			assert.Equal(t, expected, <-results, name)
		}
	}
}
