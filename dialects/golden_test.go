package dialects

import (
	"testing"

	"github.com/sqldef/migrator/generator"
	"github.com/sqldef/migrator/testutil"
	"github.com/stretchr/testify/require"
)

func TestGolden(t *testing.T) {
	tests, err := testutil.ReadTests("testdata/*.yml")
	require.NoError(t, err)

	for _, dialect := range Names() {
		newGenerator := func(opts generator.Options) generator.Generator {
			g, err := New(dialect, opts)
			require.NoError(t, err)
			return g
		}
		t.Run(dialect, func(t *testing.T) {
			for _, name := range testutil.Names(tests) {
				t.Run(name, func(t *testing.T) {
					testutil.RunTest(t, dialect, newGenerator, tests[name])
				})
			}
		})
	}
}
