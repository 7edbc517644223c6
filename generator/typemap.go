package generator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sqldef/migrator/schema"
)

const (
	SizePlaceholder      = "$size"
	PrecisionPlaceholder = "$precision"
)

// TypeMap resolves an abstract type plus optional size and precision to a native
// type. Each type has optional entries:
//
//   - a default, used when no size is given
//   - sized tiers, each covering sizes up to its capacity
//   - a ceiling, covering any size no tier covers
//
// A TypeMap is filled once by its dialect and read-only afterwards.
type TypeMap struct {
	dialect string
	entries map[schema.DbType]*typeEntry
}

type typeEntry struct {
	unsized string
	ceiling string
	tiers   []typeTier
}

type typeTier struct {
	capacity int
	template string
}

func NewTypeMap(dialect string) *TypeMap {
	return &TypeMap{dialect: dialect, entries: map[schema.DbType]*typeEntry{}}
}

func (m *TypeMap) entry(t schema.DbType) *typeEntry {
	e, ok := m.entries[t]
	if !ok {
		e = &typeEntry{}
		m.entries[t] = e
	}
	return e
}

// Register sets the ceiling template of t.
func (m *TypeMap) Register(t schema.DbType, template string) *TypeMap {
	m.entry(t).ceiling = template
	return m
}

// RegisterDefault sets the template used when no size is requested.
func (m *TypeMap) RegisterDefault(t schema.DbType, template string) *TypeMap {
	m.entry(t).unsized = template
	return m
}

// RegisterSized adds a tier covering sizes up to capacity. Tiers are kept in
// ascending capacity; equal capacities keep their registration order.
func (m *TypeMap) RegisterSized(t schema.DbType, capacity int, template string) *TypeMap {
	e := m.entry(t)
	e.tiers = append(e.tiers, typeTier{capacity: capacity, template: template})
	sort.SliceStable(e.tiers, func(i, j int) bool {
		return e.tiers[i].capacity < e.tiers[j].capacity
	})
	return m
}

func (m *TypeMap) IsRegistered(t schema.DbType) bool {
	_, ok := m.entries[t]
	return ok
}

// Resolve returns the native type for t. It fails with UnsupportedTypeError when t
// is not registered or no entry covers the requested size.
func (m *TypeMap) Resolve(t schema.DbType, size, precision *int) (string, error) {
	e, ok := m.entries[t]
	if !ok {
		return "", &UnsupportedTypeError{Dialect: m.dialect, Type: t, Size: size}
	}

	template := ""
	if size == nil {
		template = e.unsized
		if template == "" {
			template = e.ceiling
		}
		if template == "" || strings.Contains(template, SizePlaceholder) {
			return "", &UnsupportedTypeError{Dialect: m.dialect, Type: t}
		}
	} else {
		for _, tier := range e.tiers {
			if tier.capacity >= *size {
				template = tier.template
				break
			}
		}
		if template == "" {
			template = e.ceiling
		}
		if template == "" {
			return "", &UnsupportedTypeError{Dialect: m.dialect, Type: t, Size: size}
		}
	}
	return substitute(template, size, precision), nil
}

func substitute(template string, size, precision *int) string {
	if size != nil {
		template = strings.ReplaceAll(template, SizePlaceholder, strconv.Itoa(*size))
	}
	p := 0
	if precision != nil {
		p = *precision
	}
	return strings.ReplaceAll(template, PrecisionPlaceholder, strconv.Itoa(p))
}
