package generator

import (
	"slices"

	"github.com/sqldef/migrator/expression"
	"github.com/sqldef/migrator/schema"
)

// Feature is a capability a dialect may lack.
type Feature string

const (
	FeatureSchemas            Feature = "schemas"
	FeatureAlterSchema        Feature = "moving tables between schemas"
	FeatureAlterColumn        Feature = "altering columns"
	FeatureForeignKeys        Feature = "adding or dropping foreign keys on existing tables"
	FeaturePrimaryKeys        Feature = "adding or dropping primary keys on existing tables"
	FeatureUniqueConstraints  Feature = "unique constraints"
	FeatureDefaultConstraints Feature = "altering column defaults"
	FeatureSequences          Feature = "sequences"
	FeatureDescriptions       Feature = "descriptions"
	FeatureIndexIncludes      Feature = "index include columns"
	FeatureFilteredIndexes    Feature = "filtered indexes"
	FeatureClusteredIndexes   Feature = "clustered indexes"
	FeatureNullsNotDistinct   Feature = "unique indexes treating nulls as equal"
	FeatureComputedColumns    Feature = "computed columns"
	FeatureTransactionalDDL   Feature = "transactional DDL"
	// FeatureIdentityOutsidePrimaryKey covers identity columns that are not the
	// table's only primary key column.
	FeatureIdentityOutsidePrimaryKey Feature = "identity columns outside the primary key"
	FeatureSetDefaultRule            Feature = "SET DEFAULT foreign key rules"
)

// AllFeatures lists every Feature, for capability reports.
var AllFeatures = []Feature{
	FeatureSchemas,
	FeatureAlterSchema,
	FeatureAlterColumn,
	FeatureForeignKeys,
	FeaturePrimaryKeys,
	FeatureUniqueConstraints,
	FeatureDefaultConstraints,
	FeatureSequences,
	FeatureDescriptions,
	FeatureIndexIncludes,
	FeatureFilteredIndexes,
	FeatureClusteredIndexes,
	FeatureNullsNotDistinct,
	FeatureComputedColumns,
	FeatureTransactionalDDL,
	FeatureIdentityOutsidePrimaryKey,
	FeatureSetDefaultRule,
}

// FeatureSet is the set of features a dialect supports.
type FeatureSet map[Feature]bool

func NewFeatureSet(features ...Feature) FeatureSet {
	set := FeatureSet{}
	for _, f := range features {
		set[f] = true
	}
	return set
}

// With returns a copy of s with features added.
func (s FeatureSet) With(features ...Feature) FeatureSet {
	set := FeatureSet{}
	for f := range s {
		set[f] = true
	}
	for _, f := range features {
		set[f] = true
	}
	return set
}

// Without returns a copy of s with features removed.
func (s FeatureSet) Without(features ...Feature) FeatureSet {
	set := FeatureSet{}
	for f := range s {
		if !slices.Contains(features, f) {
			set[f] = true
		}
	}
	return set
}

// RequiredFeatures lists the features generating e needs, independent of any dialect.
func RequiredFeatures(e expression.Expression) []Feature {
	var features []Feature
	need := func(f Feature) {
		if !slices.Contains(features, f) {
			features = append(features, f)
		}
	}
	column := func(c *schema.ColumnDefinition) {
		if c == nil {
			return
		}
		if c.Computed != "" {
			need(FeatureComputedColumns)
		}
		if c.Description != "" {
			need(FeatureDescriptions)
		}
		if c.Identity && !c.PrimaryKey {
			need(FeatureIdentityOutsidePrimaryKey)
		}
		if c.ForeignKey != nil {
			foreignKeyFeatures(c.ForeignKey, need)
		}
	}

	switch e := e.(type) {
	case *expression.CreateSchema, *expression.DeleteSchema:
		need(FeatureSchemas)
	case *expression.AlterSchema:
		need(FeatureAlterSchema)
	case *expression.CreateTable:
		if e.Table.Description != "" {
			need(FeatureDescriptions)
		}
		pks := 0
		for _, c := range e.Table.Columns {
			column(c)
			if c.PrimaryKey {
				pks++
			}
		}
		if pks > 1 && slices.ContainsFunc(e.Table.Columns, func(c *schema.ColumnDefinition) bool { return c.Identity && c.PrimaryKey }) {
			need(FeatureIdentityOutsidePrimaryKey)
		}
	case *expression.AlterTable:
		if e.Description != "" {
			need(FeatureDescriptions)
		}
	case *expression.CreateColumn:
		column(e.Column)
		if e.Column.ForeignKey != nil {
			need(FeatureForeignKeys)
		}
	case *expression.AlterColumn:
		need(FeatureAlterColumn)
		column(e.Column)
	case *expression.CreateIndex:
		ix := e.Index
		if len(ix.Includes) > 0 {
			need(FeatureIndexIncludes)
		}
		if ix.Filter != "" {
			need(FeatureFilteredIndexes)
		}
		if ix.Clustered {
			need(FeatureClusteredIndexes)
		}
		if ix.Unique && ix.NullsDistinct == schema.False {
			need(FeatureNullsNotDistinct)
		}
	case *expression.CreateForeignKey:
		need(FeatureForeignKeys)
		foreignKeyFeatures(e.ForeignKey, need)
	case *expression.DeleteForeignKey:
		need(FeatureForeignKeys)
	case *expression.CreateConstraint:
		constraintFeatures(e.Constraint, need)
	case *expression.DeleteConstraint:
		constraintFeatures(e.Constraint, need)
	case *expression.CreateSequence, *expression.DeleteSequence:
		need(FeatureSequences)
	case *expression.AlterDefaultConstraint, *expression.DeleteDefaultConstraint:
		need(FeatureDefaultConstraints)
	}
	return features
}

func foreignKeyFeatures(fk *schema.ForeignKeyDefinition, need func(Feature)) {
	if fk.OnDelete == schema.RuleSetDefault || fk.OnUpdate == schema.RuleSetDefault {
		need(FeatureSetDefaultRule)
	}
}

func constraintFeatures(c *schema.ConstraintDefinition, need func(Feature)) {
	if c.Type == schema.PrimaryKeyConstraint {
		need(FeaturePrimaryKeys)
		return
	}
	need(FeatureUniqueConstraints)
	if c.NullsDistinct == schema.False {
		need(FeatureNullsNotDistinct)
	}
}

// MissingFeature is one feature an expression needs but the dialect lacks.
type MissingFeature struct {
	Index   int
	Kind    string
	Feature Feature
}

// Preflight reports every feature the expressions need that g does not support,
// so a runner can refuse a migration before executing any of it.
func Preflight(g Generator, exprs []expression.Expression) []MissingFeature {
	var missing []MissingFeature
	for i, e := range exprs {
		for _, f := range RequiredFeatures(e) {
			if !g.IsFeatureSupported(f) {
				missing = append(missing, MissingFeature{Index: i, Kind: e.Kind(), Feature: f})
			}
		}
	}
	return missing
}
