package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	req := require.New(t)

	a, b := GenerateID(), GenerateID()

	req.NotEqual(a, b)
	_, err := uuid.Parse(a)
	req.NoError(err)
}

func TestNormalizeName(t *testing.T) {
	req := require.New(t)
	req.Equal("Alice", NormalizeName("  Alice\t"))
	req.Empty(NormalizeName("   "))
}
