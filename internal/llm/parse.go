// ABOUTME: Pulls the JSON payload out of free-form model responses
// ABOUTME: Strips markdown code fences and trims prose around the outermost object or array
package llm

import (
	"fmt"
	"strings"
)

// stripFences returns the body of the first ```json or ``` block, or the
// input unchanged when there is no fence
func stripFences(text string) string {
	if i := strings.Index(text, "```json"); i >= 0 {
		return untilFence(text[i+len("```json"):])
	}
	if i := strings.Index(text, "```"); i >= 0 {
		return untilFence(text[i+len("```"):])
	}
	return text
}

func untilFence(s string) string {
	if j := strings.Index(s, "```"); j >= 0 {
		return s[:j]
	}
	return s
}

// extractJSON returns the span from the first open delimiter to the last
// matching close delimiter after fences are removed
func extractJSON(text string, open, close byte) (string, error) {
	body := strings.TrimSpace(stripFences(text))
	start := strings.IndexByte(body, open)
	end := strings.LastIndexByte(body, close)
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON %c...%c found in response", open, close)
	}
	return body[start : end+1], nil
}

func extractObject(text string) (string, error) {
	return extractJSON(text, '{', '}')
}

func extractArray(text string) (string, error) {
	return extractJSON(text, '[', ']')
}
