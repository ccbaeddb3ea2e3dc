package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/taskgraph-dev/tg/internal/apperr"
)

func encodeJSON(m map[string]any) (string, error) {
	if m == nil {
		m = map[string]any{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", apperr.Wrap(apperr.InvalidArgument, err, "encoding metadata")
	}
	return string(b), nil
}

func decodeJSON(s string) (map[string]any, error) {
	if s == "" {
		return map[string]any{}, nil
	}
	m := map[string]any{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("decoding stored JSON: %w", err)
	}
	return m, nil
}
