package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// extractArray returns the outermost JSON array in free-form text.
// Models often wrap the payload in prose or code fences.
func extractArray(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// decodeArray extracts and decodes a JSON array into v.
func decodeArray(text string, v any) error {
	raw, ok := extractArray(text)
	if !ok {
		return fmt.Errorf("%w: no JSON array in response", domain.ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	return nil
}
