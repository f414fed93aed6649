package economy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_TimeOrdered(t *testing.T) {
	gen := UUIDGenerator{}

	a := gen.NewID()
	b := gen.NewID()

	parsedA, err := uuid.Parse(a)
	require.NoError(t, err)
	_, err = uuid.Parse(b)
	require.NoError(t, err)

	assert.Equal(t, uuid.Version(7), parsedA.Version())
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, a, b, "v7 ids sort chronologically")
}
