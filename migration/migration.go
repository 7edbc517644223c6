// Package migration groups expressions into versioned migrations, built either
// with the fluent Builder or decoded from YAML documents.
package migration

import (
	"fmt"
	"sort"

	"github.com/sqldef/migrator/expression"
)

type Migration struct {
	Version     int64
	Description string
	Up          []expression.Expression
	// Down is derived from Up when empty.
	Down []expression.Expression
}

// DownExpressions returns the explicit Down expressions, or the reverse of Up.
func (m *Migration) DownExpressions() ([]expression.Expression, error) {
	if len(m.Down) > 0 {
		return m.Down, nil
	}
	down, err := expression.ReverseAll(m.Up)
	if err != nil {
		return nil, fmt.Errorf("migration %d: %w", m.Version, err)
	}
	return down, nil
}

func (m *Migration) String() string {
	if m.Description == "" {
		return fmt.Sprintf("%d", m.Version)
	}
	return fmt.Sprintf("%d (%s)", m.Version, m.Description)
}

// Sort orders migrations by version and rejects duplicate versions.
func Sort(migrations []*Migration) error {
	sort.SliceStable(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}
	return nil
}
