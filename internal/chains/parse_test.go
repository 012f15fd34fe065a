package chains

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBinaryScoreYes(t *testing.T) {
	ok, err := parseBinaryScore(`{"binary_score": "yes"}`)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParseBinaryScoreNo(t *testing.T) {
	ok, err := parseBinaryScore(`{"binary_score": "no"}`)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseBinaryScoreNormalizesCase(t *testing.T) {
	ok, err := parseBinaryScore(`{"binary_score": " Yes "}`)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParseBinaryScoreFencedOutput(t *testing.T) {
	content := "```json\n{\"binary_score\": \"no\"}\n```"
	ok, err := parseBinaryScore(content)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseBinaryScoreSurroundingProse(t *testing.T) {
	content := `Sure, here is the grade: {"binary_score": "yes"} Hope that helps!`
	ok, err := parseBinaryScore(content)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParseBinaryScoreUnexpectedValue(t *testing.T) {
	_, err := parseBinaryScore(`{"binary_score": "maybe"}`)
	assert.Error(t, err)
}

func TestParseBinaryScoreNoJSON(t *testing.T) {
	_, err := parseBinaryScore("I cannot answer that")
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	raw, err := extractJSON(`noise {"a": 1} trailing`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, raw)
}

func TestJoinDocuments(t *testing.T) {
	docs := []*schema.Document{
		{Content: "first passage"},
		{Content: "second passage"},
	}
	assert.Equal(t, "first passage\n\nsecond passage", joinDocuments(docs))
	assert.Equal(t, "", joinDocuments(nil))
}
