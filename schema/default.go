package schema

import "fmt"

// SystemMethod is a database-provided value such as the current timestamp.
type SystemMethod int

const (
	NewGuid SystemMethod = iota + 1
	NewSequentialId
	CurrentDateTime
	CurrentDateTimeOffset
	CurrentUTCDateTime
	CurrentUser
)

var systemMethodNames = map[SystemMethod]string{
	NewGuid:               "new_guid",
	NewSequentialId:       "new_sequential_id",
	CurrentDateTime:       "current_datetime",
	CurrentDateTimeOffset: "current_datetime_offset",
	CurrentUTCDateTime:    "current_utc_datetime",
	CurrentUser:           "current_user",
}

func (m SystemMethod) String() string {
	if name, ok := systemMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SystemMethod(%d)", int(m))
}

func ParseSystemMethod(name string) (SystemMethod, error) {
	for m, n := range systemMethodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown system method %q", name)
}

type DefaultKind int

const (
	// DefaultUndefined means no DEFAULT clause at all, which differs from DEFAULT NULL.
	DefaultUndefined DefaultKind = iota
	DefaultNull
	DefaultValue
	DefaultMethod
)

// Default is a column default. The zero value is undefined.
type Default struct {
	Kind   DefaultKind
	Value  any
	Method SystemMethod
}

func NullDefault() Default {
	return Default{Kind: DefaultNull}
}

// ValueDefault builds a literal default. A nil value is an explicit NULL.
func ValueDefault(v any) Default {
	if v == nil {
		return NullDefault()
	}
	if m, ok := v.(SystemMethod); ok {
		return MethodDefault(m)
	}
	return Default{Kind: DefaultValue, Value: v}
}

func MethodDefault(m SystemMethod) Default {
	return Default{Kind: DefaultMethod, Method: m}
}

func (d Default) IsDefined() bool {
	return d.Kind != DefaultUndefined
}
