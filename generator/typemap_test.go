package generator

import (
	"testing"

	"github.com/sqldef/migrator/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTypeMap() *TypeMap {
	m := NewTypeMap("test")
	m.RegisterDefault(schema.String, "VARCHAR(255)").
		RegisterSized(schema.String, 8000, "VARCHAR($size)").
		RegisterSized(schema.String, 4000, "NVARCHAR($size)").
		Register(schema.String, "TEXT")
	m.RegisterDefault(schema.Decimal, "DECIMAL(19,5)").
		Register(schema.Decimal, "DECIMAL($size,$precision)")
	m.RegisterSized(schema.Binary, 255, "VARBINARY($size)")
	m.Register(schema.Int32, "INTEGER")
	return m
}

func TestTypeMapResolve(t *testing.T) {
	m := testTypeMap()
	tests := []struct {
		name      string
		typ       schema.DbType
		size      *int
		precision *int
		expected  string
	}{
		{"unsized uses default", schema.String, nil, nil, "VARCHAR(255)"},
		{"smallest covering tier", schema.String, schema.Int(100), nil, "NVARCHAR(100)"},
		{"tier boundary is inclusive", schema.String, schema.Int(4000), nil, "NVARCHAR(4000)"},
		{"next tier", schema.String, schema.Int(4001), nil, "VARCHAR(4001)"},
		{"ceiling beyond tiers", schema.String, schema.Int(9000), nil, "TEXT"},
		{"precision", schema.Decimal, schema.Int(10), schema.Int(2), "DECIMAL(10,2)"},
		{"missing precision is zero", schema.Decimal, schema.Int(10), nil, "DECIMAL(10,0)"},
		{"ceiling only", schema.Int32, nil, nil, "INTEGER"},
		{"ceiling ignores size", schema.Int32, schema.Int(4), nil, "INTEGER"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual, err := m.Resolve(test.typ, test.size, test.precision)
			require.NoError(t, err)
			assert.Equal(t, test.expected, actual)
		})
	}
}

func TestTypeMapResolveErrors(t *testing.T) {
	m := testTypeMap()
	tests := []struct {
		name string
		typ  schema.DbType
		size *int
	}{
		{"unregistered", schema.Xml, nil},
		{"size beyond every tier without ceiling", schema.Binary, schema.Int(256)},
		{"unsized with only sized templates", schema.Binary, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := m.Resolve(test.typ, test.size, nil)
			assert.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

// A larger size never resolves to a smaller tier.
func TestTypeMapMonotonic(t *testing.T) {
	m := testTypeMap()
	tiers := []string{"NVARCHAR", "VARCHAR", "TEXT"}
	rank := func(native string) int {
		for i, prefix := range tiers {
			if len(native) >= len(prefix) && native[:len(prefix)] == prefix {
				return i
			}
		}
		return -1
	}
	previous := 0
	for _, size := range []int{1, 10, 3999, 4000, 4001, 7999, 8000, 8001, 100000} {
		native, err := m.Resolve(schema.String, schema.Int(size), nil)
		require.NoError(t, err)
		r := rank(native)
		assert.GreaterOrEqual(t, r, previous, "size %d resolved to %s", size, native)
		previous = r
	}
}

func TestTypeMapIsRegistered(t *testing.T) {
	m := testTypeMap()
	assert.True(t, m.IsRegistered(schema.String))
	assert.False(t, m.IsRegistered(schema.Guid))
}
