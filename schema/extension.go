package schema

import "reflect"

// Extension is dialect-owned data attached to a definition, such as a SQL Server
// sparse column flag. Dialect packages declare their own Extension types; the
// set is keyed by the concrete Go type so there is at most one value per kind.
type Extension interface {
	// Dialect names the dialect that understands this extension.
	Dialect() string
}

type ExtensionSet struct {
	values map[reflect.Type]Extension
}

func NewExtensionSet(extensions ...Extension) ExtensionSet {
	var s ExtensionSet
	for _, e := range extensions {
		s.Set(e)
	}
	return s
}

// Set stores e, replacing any previous value of the same type.
func (s *ExtensionSet) Set(e Extension) {
	if s.values == nil {
		s.values = map[reflect.Type]Extension{}
	}
	s.values[reflect.TypeOf(e)] = e
}

// Clone copies the set so a cloned definition does not share the map.
func (s ExtensionSet) Clone() ExtensionSet {
	if len(s.values) == 0 {
		return ExtensionSet{}
	}
	values := make(map[reflect.Type]Extension, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return ExtensionSet{values: values}
}

// GetExtension returns the extension of type T stored in s.
func GetExtension[T Extension](s *ExtensionSet) (T, bool) {
	var zero T
	if s == nil || s.values == nil {
		return zero, false
	}
	v, ok := s.values[reflect.TypeOf(zero)]
	if !ok {
		return zero, false
	}
	return v.(T), true
}
