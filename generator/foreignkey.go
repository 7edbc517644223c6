package generator

import (
	"github.com/sqldef/migrator/conventions"
	"github.com/sqldef/migrator/schema"
)

// NameFunc names a foreign key left unnamed by the caller.
type NameFunc func(fk *schema.ForeignKeyDefinition) string

// ForeignKeys renders foreign key clauses. Rules the dialect lacks are cleared
// beforehand by Base.SupportedRules.
type ForeignKeys struct {
	Dialect string
	Quoter  Quoter
}

// Format renders [CONSTRAINT name] FOREIGN KEY (cols) REFERENCES table (cols) [ON DELETE rule] [ON UPDATE rule].
// A nil name uses the default naming convention.
func (f *ForeignKeys) Format(fk *schema.ForeignKeyDefinition, name NameFunc) (string, error) {
	if len(fk.ForeignColumns) != len(fk.PrimaryColumns) {
		return "", &MismatchedColumnCountError{ForeignKey: fk.Name, Foreign: len(fk.ForeignColumns), Primary: len(fk.PrimaryColumns)}
	}
	if name == nil {
		name = conventions.ForeignKeyName
	}
	fkName := fk.Name
	if fkName == "" {
		fkName = name(fk)
	}

	onDelete := FormatRule(fk.OnDelete)
	onUpdate := FormatRule(fk.OnUpdate)

	sql := ""
	if fkName != "" {
		sql = "CONSTRAINT " + f.Quoter.QuoteIdentifier(fkName) + " "
	}
	sql += "FOREIGN KEY (" + f.quoteColumns(fk.ForeignColumns) + ") REFERENCES " +
		f.Quoter.QuoteTableName(fk.PrimaryTableSchema, fk.PrimaryTable) + " (" + f.quoteColumns(fk.PrimaryColumns) + ")"
	if onDelete != "" {
		sql += " ON DELETE " + onDelete
	}
	if onUpdate != "" {
		sql += " ON UPDATE " + onUpdate
	}
	return sql, nil
}

// FormatRule maps a rule to its keywords. RuleNone renders nothing.
func FormatRule(rule schema.Rule) string {
	return ruleKeywords[rule]
}

var ruleKeywords = map[schema.Rule]string{
	schema.RuleNone:       "",
	schema.RuleCascade:    "CASCADE",
	schema.RuleSetNull:    "SET NULL",
	schema.RuleSetDefault: "SET DEFAULT",
	schema.RuleNoAction:   "NO ACTION",
}

func (f *ForeignKeys) quoteColumns(columns []string) string {
	quoted := ""
	for i, c := range columns {
		if i > 0 {
			quoted += ", "
		}
		quoted += f.Quoter.QuoteIdentifier(c)
	}
	return quoted
}
