package patch

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/bytedance/sonic"
)

// Diff returns the operations that carry the non-zero values of initial onto current.
// Zero values in initial never clear a field of current.
func Diff[T any](current, initial T) ([]Operation, error) {
	from, err := toMap(current)
	if err != nil {
		return nil, fmt.Errorf("decode current state: %w", err)
	}
	to, err := toMap(initial)
	if err != nil {
		return nil, fmt.Errorf("decode initial state: %w", err)
	}

	var ops []Operation
	diffMap("", from, to, &ops)
	return ops, nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func diffMap(prefix string, from, to map[string]any, ops *[]Operation) {
	keys := make([]string, 0, len(to))
	for k := range to {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		want := to[key]
		if isZero(want) {
			continue
		}
		path := prefix + "/" + escapeToken(key)
		have, exists := from[key]

		if wantMap, ok := want.(map[string]any); ok {
			if haveMap, ok := have.(map[string]any); ok {
				diffMap(path, haveMap, wantMap, ops)
				continue
			}
		}
		switch {
		case !exists:
			*ops = append(*ops, Add(path, want))
		case !reflect.DeepEqual(have, want):
			*ops = append(*ops, Replace(path, want))
		}
	}
}

func isZero(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case bool:
		return !val
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
