package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunkerValidation(t *testing.T) {
	_, err := NewChunker("cl100k_base", 0, 0)
	require.Error(t, err)

	_, err = NewChunker("cl100k_base", -5, 0)
	require.Error(t, err)

	_, err = NewChunker("cl100k_base", 100, -1)
	require.Error(t, err)

	_, err = NewChunker("cl100k_base", 100, 100)
	require.Error(t, err)

	_, err = NewChunker("cl100k_base", 100, 200)
	require.Error(t, err)
}

func TestTokenWindowsEmpty(t *testing.T) {
	assert.Nil(t, tokenWindows(0, 250, 0))
}

func TestTokenWindowsSingleChunk(t *testing.T) {
	windows := tokenWindows(100, 250, 0)
	assert.Equal(t, [][2]int{{0, 100}}, windows)
}

func TestTokenWindowsExactMultiple(t *testing.T) {
	windows := tokenWindows(500, 250, 0)
	assert.Equal(t, [][2]int{{0, 250}, {250, 500}}, windows)
}

func TestTokenWindowsRemainder(t *testing.T) {
	windows := tokenWindows(600, 250, 0)
	assert.Equal(t, [][2]int{{0, 250}, {250, 500}, {500, 600}}, windows)
}

func TestTokenWindowsOverlap(t *testing.T) {
	windows := tokenWindows(250, 100, 20)
	require.Equal(t, [][2]int{{0, 100}, {80, 180}, {160, 250}}, windows)

	// Consecutive windows share exactly overlap tokens
	for i := 1; i < len(windows); i++ {
		assert.Equal(t, 20, windows[i-1][1]-windows[i][0])
	}
}

func TestTokenWindowsCoverEveryToken(t *testing.T) {
	windows := tokenWindows(1234, 250, 50)

	assert.Equal(t, 0, windows[0][0])
	assert.Equal(t, 1234, windows[len(windows)-1][1])
	for i := 1; i < len(windows); i++ {
		assert.LessOrEqual(t, windows[i][0], windows[i-1][1])
	}
}
