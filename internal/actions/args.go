package actions

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// normalizeArgs round-trips args through JSON so handlers and the schema
// validator see the same shapes whether the call came from a model or was
// built in Go.
func normalizeArgs(args map[string]any) (map[string]any, error) {
	if args == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, goerr.Wrap(err, "arguments are not JSON encodable")
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, goerr.Wrap(err, "failed to decode arguments")
	}
	return out, nil
}

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func argInt(args map[string]any, key string, def int) int {
	f, ok := args[key].(float64)
	if !ok || f != math.Trunc(f) {
		return def
	}
	return int(f)
}

func argBool(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func argStrings(args map[string]any, key string) []string {
	items, _ := args[key].([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
