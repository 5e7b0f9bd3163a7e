package ID

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIDString(t *testing.T) {
	id := RunID{Seed: 42, Started: 1700000000}
	assert.Equal(t, "42-1700000000", id.String())

	parsed, err := StringToID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestStringToIDNegativeSeed(t *testing.T) {
	parsed, err := StringToID("-7-1700000000")
	require.NoError(t, err)
	assert.Equal(t, RunID{Seed: -7, Started: 1700000000}, parsed)
}

func TestStringToIDMalformed(t *testing.T) {
	for _, in := range []string{"", "42", "42-", "-42", "x-1", "1-y"} {
		_, err := StringToID(in)
		assert.Error(t, err, in)
	}
}
