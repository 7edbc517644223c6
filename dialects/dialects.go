// Package dialects selects a generator by dialect identifier.
package dialects

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/generator/generic"
	"github.com/sqldef/migrator/generator/mysql"
	"github.com/sqldef/migrator/generator/postgres"
	"github.com/sqldef/migrator/generator/sqlite"
	"github.com/sqldef/migrator/generator/sqlserver"
)

type constructor func(opts generator.Options) generator.Generator

var providers = map[string]constructor{
	generic.Dialect:   func(opts generator.Options) generator.Generator { return generic.New(opts) },
	sqlite.Dialect:    func(opts generator.Options) generator.Generator { return sqlite.New(opts) },
	postgres.Dialect:  func(opts generator.Options) generator.Generator { return postgres.New(opts) },
	mysql.Dialect:     func(opts generator.Options) generator.Generator { return mysql.New(opts) },
	sqlserver.Dialect: func(opts generator.Options) generator.Generator { return sqlserver.New(opts) },
}

var aliases = map[string]string{
	"sqlite3":    sqlite.Dialect,
	"postgresql": postgres.Dialect,
	"psql":       postgres.Dialect,
	"mssql":      sqlserver.Dialect,
}

// Canonical returns the dialect name an identifier refers to.
func Canonical(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if _, ok := providers[name]; !ok {
		return "", fmt.Errorf("unknown dialect %q (expected one of %s)", name, strings.Join(Names(), ", "))
	}
	return name, nil
}

// New builds the generator for a dialect identifier or alias.
func New(name string, opts generator.Options) (generator.Generator, error) {
	canonical, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	return providers[canonical](opts), nil
}

// Names lists the canonical dialect names.
func Names() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FeatureMatrix reports which features each dialect supports, for capability listings.
func FeatureMatrix() map[string]map[generator.Feature]bool {
	matrix := map[string]map[generator.Feature]bool{}
	for _, name := range Names() {
		g := providers[name](generator.Options{})
		row := map[generator.Feature]bool{}
		for _, f := range generator.AllFeatures {
			row[f] = g.IsFeatureSupported(f)
		}
		matrix[name] = row
	}
	return matrix
}
