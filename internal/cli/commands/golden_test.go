package commands

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// newGolden returns a goldie instance over testdata/golden.
// Regenerate with: go test ./internal/cli/commands -update
func newGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
