package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Apply runs ops against the JSON form of current and decodes the result back into T.
// current is left untouched; on error the zero value is returned.
func Apply[T any](current T, ops []Operation) (T, error) {
	var zero T
	if len(ops) == 0 {
		return current, nil
	}

	doc, err := sonic.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("marshal current state: %w", err)
	}

	ops = Normalize(doc, ops)
	if len(ops) == 0 {
		return current, nil
	}

	raw, err := sonic.Marshal(ops)
	if err != nil {
		return zero, fmt.Errorf("marshal patch operations: %w", err)
	}
	decoded, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return zero, fmt.Errorf("decode patch: %w", err)
	}
	modified, err := decoded.Apply(doc)
	if err != nil {
		return zero, fmt.Errorf("apply patch: %w", err)
	}

	var next T
	if err := sonic.Unmarshal(modified, &next); err != nil {
		return zero, fmt.Errorf("patch produced an invalid %T: %w", next, err)
	}
	return next, nil
}

// Normalize turns a replace on a missing path into an add and drops removes of missing paths.
func Normalize(doc []byte, ops []Operation) []Operation {
	var root any
	if err := sonic.Unmarshal(doc, &root); err != nil {
		return ops
	}

	out := make([]Operation, 0, len(ops))
	for _, op := range ops {
		switch op.Op {
		case OperationReplace:
			if !Exists(root, op.Path) {
				op.Op = OperationAdd
			}
		case OperationRemove:
			if !Exists(root, op.Path) {
				continue
			}
		}
		out = append(out, op)
	}
	return out
}

// Exists reports whether pointer resolves inside the decoded JSON document.
func Exists(doc any, pointer string) bool {
	if pointer == "" {
		return true
	}
	if !strings.HasPrefix(pointer, "/") {
		return false
	}

	cur := doc
	for _, token := range strings.Split(pointer[1:], "/") {
		token = unescapeToken(token)
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[token]
			if !ok {
				return false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(node) {
				return false
			}
			cur = node[i]
		default:
			return false
		}
	}
	return true
}

func escapeToken(token string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(token)
}

func unescapeToken(token string) string {
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
}
