package generator

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sqldef/migrator/schema"
)

type Quoter interface {
	QuoteIdentifier(name string) string
	// QuoteTableName qualifies name with schemaName when it is not empty.
	QuoteTableName(schemaName, name string) string
	// Unquote reverses QuoteIdentifier.
	Unquote(quoted string) string
	QuoteString(s string) string
	QuoteValue(v any) (string, error)
	FormatSystemMethod(m schema.SystemMethod) (string, error)
}

var safeIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// BaseQuoter is a Quoter driven by dialect data. The Format hooks replace the
// SQL-standard literal syntax where a dialect differs.
type BaseQuoter struct {
	Dialect    string
	OpenQuote  string
	CloseQuote string
	// AlwaysQuote quotes every identifier. Otherwise only identifiers outside
	// [A-Za-z_][A-Za-z0-9_]* or in ReservedWords are quoted.
	AlwaysQuote   bool
	ReservedWords map[string]bool // upper case

	// StringPrefix precedes string literals, e.g. N on SQL Server.
	StringPrefix string
	// StringEscaper escapes string literal contents. Nil doubles single quotes.
	StringEscaper *strings.Replacer

	TrueLiteral  string
	FalseLiteral string

	SystemMethods map[schema.SystemMethod]string

	FormatBytes func(b []byte) string
	FormatTime  func(t time.Time) string
	FormatGUID  func(id uuid.UUID) string
}

func (q *BaseQuoter) QuoteIdentifier(name string) string {
	if !q.AlwaysQuote && safeIdentifier.MatchString(name) && !q.ReservedWords[strings.ToUpper(name)] {
		return name
	}
	return q.OpenQuote + strings.ReplaceAll(name, q.CloseQuote, q.CloseQuote+q.CloseQuote) + q.CloseQuote
}

func (q *BaseQuoter) QuoteTableName(schemaName, name string) string {
	if schemaName == "" {
		return q.QuoteIdentifier(name)
	}
	return q.QuoteIdentifier(schemaName) + "." + q.QuoteIdentifier(name)
}

func (q *BaseQuoter) Unquote(quoted string) string {
	if len(quoted) < len(q.OpenQuote)+len(q.CloseQuote) ||
		!strings.HasPrefix(quoted, q.OpenQuote) || !strings.HasSuffix(quoted, q.CloseQuote) {
		return quoted
	}
	inner := quoted[len(q.OpenQuote) : len(quoted)-len(q.CloseQuote)]
	return strings.ReplaceAll(inner, q.CloseQuote+q.CloseQuote, q.CloseQuote)
}

// QuoteString wraps s in single quotes, doubling embedded ones.
func (q *BaseQuoter) QuoteString(s string) string {
	if q.StringEscaper != nil {
		return q.StringPrefix + "'" + q.StringEscaper.Replace(s) + "'"
	}
	return q.StringPrefix + "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (q *BaseQuoter) QuoteValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case schema.RawSQL:
		return string(v), nil
	case schema.SystemMethod:
		return q.FormatSystemMethod(v)
	case string:
		return q.QuoteString(v), nil
	case bool:
		if v {
			return q.trueLiteral(), nil
		}
		return q.falseLiteral(), nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case time.Time:
		if q.FormatTime != nil {
			return q.FormatTime(v), nil
		}
		return "'" + v.Format("2006-01-02T15:04:05") + "'", nil
	case uuid.UUID:
		if q.FormatGUID != nil {
			return q.FormatGUID(v), nil
		}
		return "'" + v.String() + "'", nil
	case []byte:
		if q.FormatBytes != nil {
			return q.FormatBytes(v), nil
		}
		return "X'" + strings.ToUpper(hex.EncodeToString(v)) + "'", nil
	case fmt.Stringer:
		return q.QuoteString(v.String()), nil
	default:
		return "", fmt.Errorf("%s cannot render a value of type %T", q.Dialect, v)
	}
}

func (q *BaseQuoter) FormatSystemMethod(m schema.SystemMethod) (string, error) {
	if sql, ok := q.SystemMethods[m]; ok {
		return sql, nil
	}
	return "", &UnsupportedSystemMethodError{Dialect: q.Dialect, Method: m}
}

func (q *BaseQuoter) trueLiteral() string {
	if q.TrueLiteral == "" {
		return "TRUE"
	}
	return q.TrueLiteral
}

func (q *BaseQuoter) falseLiteral() string {
	if q.FalseLiteral == "" {
		return "FALSE"
	}
	return q.FalseLiteral
}

// ReservedWords builds a lookup set from a list of keywords.
func ReservedWords(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToUpper(w)] = true
	}
	return set
}
