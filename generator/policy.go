package generator

import (
	"fmt"
	"strings"
)

// CompatibilityMode decides what happens when a dialect cannot express a feature.
type CompatibilityMode int

const (
	// CompatibilityDefault defers to the dialect's own choice.
	CompatibilityDefault CompatibilityMode = iota
	// CompatibilityStrict fails with UnsupportedFeatureError.
	CompatibilityStrict
	// CompatibilityLoose emits a SQL comment describing the gap and goes on.
	CompatibilityLoose
)

func (m CompatibilityMode) String() string {
	switch m {
	case CompatibilityStrict:
		return "strict"
	case CompatibilityLoose:
		return "loose"
	default:
		return "default"
	}
}

func ParseCompatibilityMode(s string) (CompatibilityMode, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return CompatibilityDefault, nil
	case "strict":
		return CompatibilityStrict, nil
	case "loose":
		return CompatibilityLoose, nil
	default:
		return CompatibilityDefault, fmt.Errorf("unknown compatibility mode %q (expected strict, loose or default)", s)
	}
}

type Policy struct {
	Dialect string
	Mode    CompatibilityMode
	// DialectDefault is what CompatibilityDefault means for this dialect. It is
	// strict unless the dialect says otherwise.
	DialectDefault CompatibilityMode
}

func (p Policy) Effective() CompatibilityMode {
	if p.Mode != CompatibilityDefault {
		return p.Mode
	}
	if p.DialectDefault == CompatibilityLoose {
		return CompatibilityLoose
	}
	return CompatibilityStrict
}

// Handle is evaluated once per unsupported occurrence. It never returns SQL that
// would execute anything.
func (p Policy) Handle(feature Feature, detail string) (string, error) {
	if p.Effective() == CompatibilityLoose {
		return Comment(fmt.Sprintf("%s does not support %s: %s", p.Dialect, feature, detail)), nil
	}
	return "", &UnsupportedFeatureError{Dialect: p.Dialect, Feature: feature, Detail: detail}
}

// Comment renders text as one single-line SQL comment.
func Comment(text string) string {
	return "-- " + strings.NewReplacer("\r", " ", "\n", " ").Replace(text)
}

// IsComment reports whether sql consists only of comment lines, i.e. nothing to execute.
func IsComment(sql string) bool {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return false
	}
	for _, line := range strings.Split(sql, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}

// Options configure a dialect generator at construction.
type Options struct {
	Compatibility CompatibilityMode
}
