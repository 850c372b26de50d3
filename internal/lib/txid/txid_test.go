package txid_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NartechSolution/fatsAiBackend/internal/lib/txid"
)

var upperHex = regexp.MustCompile(`^[0-9A-F]+$`)

func TestNew(t *testing.T) {
	id, err := txid.New(10)
	require.NoError(t, err)
	assert.Len(t, id, 20)
	assert.True(t, upperHex.MatchString(id), "id %q must be upper-case hex", id)
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := txid.New(10)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}
