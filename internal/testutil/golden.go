package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/schemaql/internal/canon"
)

// AssertGolden compares v, rendered as indented canonical JSON, against
// testdata/golden/<name>.golden in the calling package.
//
// Regenerate with: go test ./... -update
func AssertGolden(t *testing.T, name string, v any) {
	t.Helper()

	data, err := canon.MarshalIndent(v)
	require.NoError(t, err)
	AssertGoldenBytes(t, name, data)
}

// AssertGoldenBytes compares already rendered output against
// testdata/golden/<name>.golden.
func AssertGoldenBytes(t *testing.T, name string, data []byte) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
