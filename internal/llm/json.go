package llm

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// stripFences removes a Markdown code fence wrapped around a JSON body.
// Models routinely fence their JSON despite instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// decodeFenced strips any code fence and decodes the remaining JSON.
func decodeFenced(s string, v any) error {
	if err := json.Unmarshal([]byte(stripFences(s)), v); err != nil {
		return fmt.Errorf("decoding collaborator JSON: %w", err)
	}
	return nil
}
