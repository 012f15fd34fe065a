package chains

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
)

type binaryScore struct {
	BinaryScore string `json:"binary_score"`
}

// extractJSON pulls the first JSON object out of a model response,
// tolerating markdown fences and surrounding prose
func extractJSON(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object in model output: %q", truncate(content, 120))
	}
	return content[start : end+1], nil
}

// parseBinaryScore decodes a {"binary_score": "yes"|"no"} judgment
func parseBinaryScore(content string) (bool, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return false, err
	}

	var score binaryScore
	if err := sonic.Unmarshal([]byte(raw), &score); err != nil {
		return false, fmt.Errorf("failed to parse binary score: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(score.BinaryScore)) {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	return false, fmt.Errorf("unexpected binary score %q", score.BinaryScore)
}

// joinDocuments flattens retrieved passages into a single context block
func joinDocuments(documents []*schema.Document) string {
	parts := make([]string, 0, len(documents))
	for _, doc := range documents {
		parts = append(parts, doc.Content)
	}
	return strings.Join(parts, "\n\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
