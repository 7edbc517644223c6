package generator

import (
	"testing"

	"github.com/sqldef/migrator/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testColumn() *Column {
	return NewColumn("test", testQuoter(), testTypeMap())
}

func TestColumnFormat(t *testing.T) {
	c := testColumn()
	tests := []struct {
		name     string
		column   *schema.ColumnDefinition
		expected string
	}{
		{
			name:     "nullability defaults to not null",
			column:   &schema.ColumnDefinition{Name: "name", Type: schema.String},
			expected: "name VARCHAR(255) NOT NULL",
		},
		{
			name:     "explicitly nullable",
			column:   &schema.ColumnDefinition{Name: "name", Type: schema.String, Size: schema.Int(50), Nullable: schema.True},
			expected: "name NVARCHAR(50)",
		},
		{
			name:     "custom type",
			column:   &schema.ColumnDefinition{Name: "geo", CustomType: "GEOGRAPHY", Nullable: schema.False},
			expected: "geo GEOGRAPHY NOT NULL",
		},
		{
			name:     "default value",
			column:   &schema.ColumnDefinition{Name: "state", Type: schema.String, Default: schema.ValueDefault("new")},
			expected: "state VARCHAR(255) NOT NULL DEFAULT 'new'",
		},
		{
			name:     "default system method",
			column:   &schema.ColumnDefinition{Name: "created", Type: schema.Int32, Default: schema.MethodDefault(schema.CurrentDateTime)},
			expected: "created INTEGER NOT NULL DEFAULT CURRENT_TIMESTAMP",
		},
		{
			name:     "computed column leaves nullability out",
			column:   &schema.ColumnDefinition{Name: "total", Computed: "price * qty", ComputedStored: true},
			expected: "total GENERATED ALWAYS AS (price * qty) STORED",
		},
		{
			name:     "identity primary key",
			column:   &schema.ColumnDefinition{Name: "id", Type: schema.Int32, PrimaryKey: true, Identity: true},
			expected: "id INTEGER NOT NULL PRIMARY KEY GENERATED BY DEFAULT AS IDENTITY",
		},
		{
			name:     "unique",
			column:   &schema.ColumnDefinition{Name: "email", Type: schema.String, Unique: true},
			expected: "email VARCHAR(255) NOT NULL UNIQUE",
		},
		{
			name:     "collation",
			column:   &schema.ColumnDefinition{Name: "code", Type: schema.String, Collation: "NOCASE"},
			expected: "code VARCHAR(255) COLLATE NOCASE NOT NULL",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual, err := c.Format(test.column)
			require.NoError(t, err)
			assert.Equal(t, test.expected, actual)
		})
	}
}

func TestColumnSteps(t *testing.T) {
	c := testColumn()
	c.Replace(StepIdentity, func(col *schema.ColumnDefinition) (string, error) {
		if col.Identity {
			return "AUTO", nil
		}
		return "", nil
	})
	c.InsertAfter(StepType, ColumnStep{Name: "sparse", Format: func(*schema.ColumnDefinition) (string, error) {
		return "SPARSE", nil
	}})
	c.Remove(StepUnique)

	assert.Equal(t, []string{
		StepIdentifier, StepType, "sparse", StepCollation, StepComputed, StepNullability,
		StepDefault, StepPrimaryKey, StepIdentity,
	}, c.Steps())

	actual, err := c.Format(&schema.ColumnDefinition{Name: "id", Type: schema.Int32, Identity: true, Unique: true})
	require.NoError(t, err)
	assert.Equal(t, "id INTEGER SPARSE NOT NULL AUTO", actual)

	assert.Panics(t, func() { c.Replace("missing", nil) })
	assert.Panics(t, func() { c.InsertAfter("missing", ColumnStep{}) })
}

func TestColumnFormatError(t *testing.T) {
	c := testColumn()
	_, err := c.Format(&schema.ColumnDefinition{Name: "doc", Type: schema.Xml})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "column doc")
}

func TestFormatColumnList(t *testing.T) {
	tests := []struct {
		name     string
		inline   func([]*schema.ColumnDefinition) bool
		columns  []*schema.ColumnDefinition
		expected string
	}{
		{
			name: "single unnamed key is inlined",
			columns: []*schema.ColumnDefinition{
				{Name: "id", Type: schema.Int32, PrimaryKey: true},
				{Name: "name", Type: schema.String},
			},
			expected: "id INTEGER NOT NULL PRIMARY KEY, name VARCHAR(255) NOT NULL",
		},
		{
			name: "named key is trailing",
			columns: []*schema.ColumnDefinition{
				{Name: "id", Type: schema.Int32, PrimaryKey: true, PrimaryKeyName: "PK_users"},
			},
			expected: "id INTEGER NOT NULL, CONSTRAINT PK_users PRIMARY KEY (id)",
		},
		{
			name: "composite key is trailing and not unique",
			columns: []*schema.ColumnDefinition{
				{Name: "a", Type: schema.Int32, PrimaryKey: true, Unique: true},
				{Name: "b", Type: schema.Int32, PrimaryKey: true},
			},
			expected: "a INTEGER NOT NULL, b INTEGER NOT NULL, PRIMARY KEY (a, b)",
		},
		{
			name:   "never inline",
			inline: NeverInlinePrimaryKey,
			columns: []*schema.ColumnDefinition{
				{Name: "id", Type: schema.Int32, PrimaryKey: true},
			},
			expected: "id INTEGER NOT NULL, PRIMARY KEY (id)",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := testColumn()
			if test.inline != nil {
				c.InlinePrimaryKey = test.inline
			}
			table := &schema.TableDefinition{Name: "users", Columns: test.columns}
			actual, err := c.FormatColumnList(table)
			require.NoError(t, err)
			assert.Equal(t, test.expected, actual)
			for _, col := range test.columns {
				assert.True(t, col.PrimaryKey, "%s must stay a primary key in the caller's table", col.Name)
			}
		})
	}
}
