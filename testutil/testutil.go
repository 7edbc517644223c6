// Package testutil reads golden YAML test cases and runs them against a generator.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/sqldef/migrator"
	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/migration"
	"github.com/sqldef/migrator/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCase is one golden case. Dialects listed in neither Expected nor
// Errors are skipped.
type TestCase struct {
	Steps    string            // migration steps, written as under `up:`
	Config   string            // optional generator config YAML
	Expected map[string]string // dialect => statements joined by ";\n"
	Errors   map[string]string // dialect => expected error substring
}

func init() {
	util.InitSlog()

	// Loose-mode warnings would otherwise clutter the test output.
	if os.Getenv("LOG_LEVEL") == "" {
		util.SetLogLevel("error")
	}
}

func ReadTests(pattern string) (map[string]TestCase, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no test files match %q", pattern)
	}

	ret := map[string]TestCase{}
	// Track which file each test case came from for better error messages
	testFileMap := map[string]string{}

	for _, file := range files {
		var tests map[string]*TestCase

		buf, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}

		dec := yaml.NewDecoder(bytes.NewReader(buf), yaml.DisallowUnknownField())
		err = dec.Decode(&tests)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}

		for name, test := range tests {
			if strings.TrimSpace(test.Steps) == "" {
				return nil, fmt.Errorf("%s: test case '%s' has no steps", file, name)
			}
			for dialect := range test.Errors {
				if _, ok := test.Expected[dialect]; ok {
					return nil, fmt.Errorf("%s: test case '%s' expects both output and an error for %s", file, name, dialect)
				}
			}
			if existingFile, ok := testFileMap[name]; ok {
				return nil, fmt.Errorf("duplicate test case name '%s': defined in both '%s' and '%s'", name, existingFile, file)
			}
			testFileMap[name] = file
			ret[name] = *test
		}
	}

	return ret, nil
}

// Names returns the case names in a stable order.
func Names(tests map[string]TestCase) []string {
	names := make([]string, 0, len(tests))
	for name := range tests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunTest builds the dialect's generator with the case's config, so the
// compatibility mode of the case applies.
func RunTest(t *testing.T, dialect string, newGenerator func(generator.Options) generator.Generator, test TestCase) {
	t.Helper()

	expected, expectOutput := test.Expected[dialect]
	errMsg, expectError := test.Errors[dialect]
	if !expectOutput && !expectError {
		t.Skipf("no expectation for %s", dialect)
	}

	exprs, err := migration.ParseSteps([]byte(test.Steps))
	require.NoError(t, err)
	config, err := migrator.ParseGeneratorConfigString(test.Config)
	require.NoError(t, err)
	g := newGenerator(config.GeneratorOptions())

	statements, err := migrator.Generate(g, exprs, config, nil)
	if expectError {
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsg)
		return
	}
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(expected), generator.Join(statements...))
}
