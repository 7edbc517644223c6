package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sqldef/migrator/schema"
)

// Sentinel errors, matched with errors.Is against the typed errors below.
var (
	ErrValidation              = errors.New("invalid expression")
	ErrUnsupportedType         = errors.New("unsupported type")
	ErrUnsupportedSystemMethod = errors.New("unsupported system method")
	ErrUnsupportedFeature      = errors.New("unsupported feature")
	ErrMismatchedColumnCount   = errors.New("mismatched column count")
)

// ValidationError carries every validation message of one expression.
type ValidationError struct {
	Index    int // position of the expression in its migration, -1 if unknown
	Kind     string
	Messages []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind)
	if e.Index >= 0 {
		fmt.Fprintf(&b, " (expression %d)", e.Index)
	}
	b.WriteString(" is invalid: ")
	b.WriteString(strings.Join(e.Messages, "; "))
	return b.String()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type UnsupportedTypeError struct {
	Dialect string
	Type    schema.DbType
	Size    *int
}

func (e *UnsupportedTypeError) Error() string {
	if e.Size != nil {
		return fmt.Sprintf("%s does not support type %s with size %d", e.Dialect, e.Type, *e.Size)
	}
	return fmt.Sprintf("%s does not support type %s", e.Dialect, e.Type)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

type UnsupportedSystemMethodError struct {
	Dialect string
	Method  schema.SystemMethod
}

func (e *UnsupportedSystemMethodError) Error() string {
	return fmt.Sprintf("%s has no equivalent of system method %s", e.Dialect, e.Method)
}

func (e *UnsupportedSystemMethodError) Is(target error) bool {
	return target == ErrUnsupportedSystemMethod
}

// UnsupportedFeatureError is the strict outcome of the compatibility policy.
type UnsupportedFeatureError struct {
	Dialect string
	Feature Feature
	Detail  string
}

func (e *UnsupportedFeatureError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s does not support %s: %s", e.Dialect, e.Feature, e.Detail)
	}
	return fmt.Sprintf("%s does not support %s", e.Dialect, e.Feature)
}

func (e *UnsupportedFeatureError) Is(target error) bool {
	return target == ErrUnsupportedFeature
}

type MismatchedColumnCountError struct {
	ForeignKey string
	Foreign    int
	Primary    int
}

func (e *MismatchedColumnCountError) Error() string {
	return fmt.Sprintf("foreign key %q has %d foreign columns but %d primary columns", e.ForeignKey, e.Foreign, e.Primary)
}

func (e *MismatchedColumnCountError) Is(target error) bool {
	return target == ErrMismatchedColumnCount
}

// IsUnsupported reports whether err means the dialect cannot express something,
// as opposed to the expression being malformed.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedFeature) || errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrUnsupportedSystemMethod)
}
