package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		require.NoError(t, err)
		assert.Len(t, id, ClientIDLength)
		assert.Empty(t, strings.Trim(id, idAlphabet))
		assert.False(t, seen[id], "identificador repetido: %s", id)
		seen[id] = true
	}
}

func TestNewID_InvalidLength(t *testing.T) {
	_, err := NewID(0)
	assert.Error(t, err)
}
