// This package has the dialect-independent schema model.
// Never deal with SQL rendering.
package schema

import (
	"fmt"
	"strings"
)

// DbType is the abstract column type resolved by a dialect's type map.
type DbType int

const (
	TypeUnset DbType = iota
	AnsiString
	AnsiStringFixedLength
	String
	StringFixedLength
	Binary
	Boolean
	Byte
	Int16
	Int32
	Int64
	Decimal
	Currency
	Single
	Double
	Date
	Time
	DateTime
	DateTime2
	DateTimeOffset
	Guid
	Xml
)

var dbTypeNames = map[DbType]string{
	TypeUnset:             "unset",
	AnsiString:            "ansi_string",
	AnsiStringFixedLength: "ansi_string_fixed",
	String:                "string",
	StringFixedLength:     "string_fixed",
	Binary:                "binary",
	Boolean:               "boolean",
	Byte:                  "byte",
	Int16:                 "int16",
	Int32:                 "int32",
	Int64:                 "int64",
	Decimal:               "decimal",
	Currency:              "currency",
	Single:                "single",
	Double:                "double",
	Date:                  "date",
	Time:                  "time",
	DateTime:              "datetime",
	DateTime2:             "datetime2",
	DateTimeOffset:        "datetimeoffset",
	Guid:                  "guid",
	Xml:                   "xml",
}

var dbTypeAliases = map[string]DbType{
	"int":      Int32,
	"integer":  Int32,
	"bigint":   Int64,
	"smallint": Int16,
	"bool":     Boolean,
	"uuid":     Guid,
	"text":     String,
	"float":    Single,
	"money":    Currency,
}

func (t DbType) String() string {
	if name, ok := dbTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DbType(%d)", int(t))
}

// ParseDbType accepts the names returned by DbType.String and a few common aliases.
func ParseDbType(name string) (DbType, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for t, n := range dbTypeNames {
		if n == normalized && t != TypeUnset {
			return t, nil
		}
	}
	if t, ok := dbTypeAliases[normalized]; ok {
		return t, nil
	}
	return TypeUnset, fmt.Errorf("unknown column type %q", name)
}

// Tristate is a boolean that remembers whether it was set at all.
type Tristate int8

const (
	Unset Tristate = iota
	True
	False
)

func Bool(b bool) Tristate {
	if b {
		return True
	}
	return False
}

func (t Tristate) IsSet() bool {
	return t != Unset
}

func (t Tristate) Value() bool {
	return t == True
}

// Rule is the referential action of a foreign key.
type Rule int

const (
	RuleNone Rule = iota
	RuleCascade
	RuleSetNull
	RuleSetDefault
	RuleNoAction
)

func ParseRule(name string) (Rule, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", " ")) {
	case "", "none":
		return RuleNone, nil
	case "cascade":
		return RuleCascade, nil
	case "set null":
		return RuleSetNull, nil
	case "set default":
		return RuleSetDefault, nil
	case "no action":
		return RuleNoAction, nil
	default:
		return RuleNone, fmt.Errorf("unknown foreign key rule %q", name)
	}
}

// Direction is the sort direction of an index column.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// RawSQL is a value emitted verbatim, without quoting.
type RawSQL string

// Int returns a pointer to n, for the optional size and precision fields.
func Int(n int) *int {
	return &n
}

// Int64Ptr returns a pointer to n, for the optional sequence fields.
func Int64Ptr(n int64) *int64 {
	return &n
}
